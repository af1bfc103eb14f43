package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carelink-client/internal/config"
	"carelink-client/internal/models"
)

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{
		APIBaseURL:   baseURL,
		HTTPTimeout:  5 * time.Second,
		RetryCount:   0,
		RetryWait:    10 * time.Millisecond,
		RetryMaxWait: 20 * time.Millisecond,
	}
	return cfg
}

func TestClient_HeartRateParamsAndDecoding(t *testing.T) {
	at := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Health/Heartrate", r.URL.Path)
		assert.Equal(t, "a@b.com", r.URL.Query().Get("elderEmail"))
		assert.Equal(t, "2025-04-01T10:00:00Z", r.URL.Query().Get("date"))
		assert.Equal(t, "Day", r.URL.Query().Get("period"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]models.HeartRateSample{
			{Timestamp: at, MinRate: 58, AvgRate: 71.5, MaxRate: 92},
		})
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil, zap.NewNop())
	samples, err := c.HeartRate(context.Background(), "a@b.com", at, models.WindowDay)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 58, samples[0].MinRate)
	assert.Equal(t, 71.5, samples[0].AvgRate)
	assert.True(t, at.Equal(samples[0].Timestamp))
}

func TestClient_SeriesErrorOnBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil, zap.NewNop())
	_, err := c.Steps(context.Background(), "a@b.com", time.Now(), models.WindowHour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_Dashboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Health/Dashboard", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.DashboardSnapshot{
			HeartRate: 74, SPO2: 0.97, Steps: 4200, Distance: 2.8, FallCount: 1,
		})
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil, zap.NewNop())
	snapshot, err := c.Dashboard(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, 74, snapshot.HeartRate)
	assert.InDelta(t, 0.97, snapshot.SPO2, 1e-9)
	assert.Equal(t, 1, snapshot.FallCount)
}

func TestClient_SetPerimeter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/Health/Perimeter", r.URL.Path)
		assert.Equal(t, "a@b.com", r.URL.Query().Get("elderEmail"))

		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 7, body["homeRadius"])
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil, zap.NewNop())
	require.NoError(t, c.SetPerimeter(context.Background(), "a@b.com", 7))
}

func TestClient_LoginParsesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/User/login", r.URL.Path)

		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "elder@b.com", creds.Email)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"role":         1,
			"accessToken":  "acc",
			"refreshToken": "ref",
		})
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil, zap.NewNop())
	sess, err := c.Login(context.Background(), models.Credentials{Email: "elder@b.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleElder, sess.Role)
	assert.Equal(t, "acc", sess.AccessToken)
	// 响应缺 email 时回填请求里的
	assert.Equal(t, "elder@b.com", sess.Email)
}

func TestClient_LoginRejectsUnknownRole(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"role": 3, "accessToken": "acc"})
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil, zap.NewNop())
	_, err := c.Login(context.Background(), models.Credentials{Email: "x@b.com", Password: "pw"})
	assert.Error(t, err)
}

func TestClient_RegisterReturnsID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/User/register", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": "user-9"})
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil, zap.NewNop())
	id, err := c.Register(context.Background(), models.RegisterForm{Email: "x@b.com"})
	require.NoError(t, err)
	assert.Equal(t, "user-9", id)
}

func TestClient_Elders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/User/users/getElders", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]models.Elder{{Name: "Agnes", Email: "agnes@b.com"}})
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL), nil, zap.NewNop())
	elders, err := c.Elders(context.Background())
	require.NoError(t, err)
	require.Len(t, elders, 1)
	assert.Equal(t, "Agnes", elders[0].Name)
}

func TestGeocoder_ReverseGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "55.6", r.URL.Query().Get("lat"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"address": map[string]string{"road": "Main St", "town": "Lyngby", "country": "Denmark"},
		})
	}))
	defer server.Close()

	g := NewGeocoder(server.URL, 5*time.Second, zap.NewNop())
	addr, err := g.ReverseGeocode(context.Background(), 55.6, 12.5)
	require.NoError(t, err)
	assert.Equal(t, "Main St", addr.Road)
	// city 为空时退回 town
	assert.Equal(t, "Lyngby", addr.City)
	assert.Equal(t, "Denmark", addr.Country)
}
