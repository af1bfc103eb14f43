package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"carelink-client/internal/models"
)

// 各指标的导出表头
var (
	heartRateHeader = []string{"Timestamp", "Min Rate", "Avg Rate", "Max Rate"}
	spo2Header      = []string{"Timestamp", "Min SpO2", "Avg SpO2", "Max SpO2"}
	distanceHeader  = []string{"Timestamp", "Distance (km)"}
	stepsHeader     = []string{"Timestamp", "Steps"}
	fallsHeader     = []string{"Timestamp", "Falls"}
)

// HeartRateWorkbook 心率序列导出为 xlsx
func HeartRateWorkbook(samples []models.HeartRateSample) ([]byte, error) {
	rows := make([][]any, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, []any{formatTime(s.Timestamp), s.MinRate, s.AvgRate, s.MaxRate})
	}
	return writeWorkbook("Heart Rate", heartRateHeader, rows)
}

// SPO2Workbook 血氧序列导出为 xlsx
func SPO2Workbook(samples []models.SPO2Sample) ([]byte, error) {
	rows := make([][]any, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, []any{formatTime(s.Timestamp), s.MinSPO2, s.AvgSPO2, s.MaxSPO2})
	}
	return writeWorkbook("SpO2", spo2Header, rows)
}

// DistanceWorkbook 距离序列导出为 xlsx
func DistanceWorkbook(samples []models.DistanceSample) ([]byte, error) {
	rows := make([][]any, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, []any{formatTime(s.Timestamp), s.Distance})
	}
	return writeWorkbook("Distance", distanceHeader, rows)
}

// StepsWorkbook 步数序列导出为 xlsx
func StepsWorkbook(samples []models.StepsSample) ([]byte, error) {
	rows := make([][]any, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, []any{formatTime(s.Timestamp), s.Steps})
	}
	return writeWorkbook("Steps", stepsHeader, rows)
}

// FallsWorkbook 跌倒序列导出为 xlsx
func FallsWorkbook(samples []models.FallSample) ([]byte, error) {
	rows := make([][]any, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, []any{formatTime(s.Timestamp), s.Falls})
	}
	return writeWorkbook("Falls", fallsHeader, rows)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// writeWorkbook 通用写表：表头一行 + 每个样本一行
func writeWorkbook(sheetName string, headers []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	// Note: Don't defer Close() here, because WriteTo needs the file to be open

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to build header cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	f.Close()
	return buf.Bytes(), nil
}
