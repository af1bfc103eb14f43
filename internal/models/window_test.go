package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeWindow(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeWindow
		wantErr bool
	}{
		{"Hour", WindowHour, false},
		{"Day", WindowDay, false},
		{"Week", WindowWeek, false},
		{"Month", "", true},
		{"", "", true},
		{"day", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTimeWindow(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestTimeWindow_Step(t *testing.T) {
	assert.Equal(t, time.Hour, WindowHour.Step())
	assert.Equal(t, 24*time.Hour, WindowDay.Step())
	assert.Equal(t, 7*24*time.Hour, WindowWeek.Step())
}

func TestTimeWindow_ExpectedSamples(t *testing.T) {
	assert.Equal(t, 12, WindowHour.ExpectedSamples())
	assert.Equal(t, 24, WindowDay.ExpectedSamples())
	assert.Equal(t, 7, WindowWeek.ExpectedSamples())
}

func TestTimeWindow_Others(t *testing.T) {
	assert.ElementsMatch(t, []TimeWindow{WindowDay, WindowWeek}, WindowHour.Others())
	assert.ElementsMatch(t, []TimeWindow{WindowHour, WindowWeek}, WindowDay.Others())
	assert.ElementsMatch(t, []TimeWindow{WindowHour, WindowDay}, WindowWeek.Others())
}

func TestParseRole(t *testing.T) {
	caregiver, err := ParseRole(0)
	require.NoError(t, err)
	assert.Equal(t, RoleCaregiver, caregiver)

	elder, err := ParseRole(1)
	require.NoError(t, err)
	assert.Equal(t, RoleElder, elder)

	_, err = ParseRole(2)
	assert.Error(t, err)
}

func TestClampRadius(t *testing.T) {
	assert.Equal(t, 1, ClampRadius(0))
	assert.Equal(t, 1, ClampRadius(-3))
	assert.Equal(t, 5, ClampRadius(5))
	assert.Equal(t, 15, ClampRadius(15))
	assert.Equal(t, 15, ClampRadius(40))
}
