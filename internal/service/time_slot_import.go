package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"jadwal-kuliah/internal/dto"
	"jadwal-kuliah/internal/model"
)

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 500

var (
	ErrImportUnsupported = errors.New("仅支持 .csv 与 .xlsx 文件")
	ErrImportNoData      = errors.New("导入文件无数据行（第一行为表头）")
	ErrImportTooManyRows = fmt.Errorf("数据行数超过上限 %d 行", maxImportRows)
	ErrImportBadHeader   = errors.New("表头缺少必要列（start_time/end_time/period）")
	ErrImportParse       = errors.New("无法解析导入文件")
)

// ImportTimeSlotRow 解析后的导入行，Row 为文件中的行号（表头为第 1 行）
type ImportTimeSlotRow struct {
	Row int
	dto.TimeSlotImportRow
}

// ParseImportFile 按扩展名解析 CSV / XLSX
func ParseImportFile(filename string, reader io.Reader) ([]ImportTimeSlotRow, error) {
	var (
		raw []dto.TimeSlotImportRow
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		raw, err = parseCSV(reader)
	case ".xlsx":
		raw, err = parseXLSX(reader)
	default:
		return nil, ErrImportUnsupported
	}
	if err != nil {
		return nil, err
	}

	rows := make([]ImportTimeSlotRow, 0, len(raw))
	for i, r := range raw {
		r.StartTime = strings.TrimSpace(r.StartTime)
		r.EndTime = strings.TrimSpace(r.EndTime)
		r.DisplayText = strings.TrimSpace(r.DisplayText)
		r.Period = strings.ToUpper(strings.TrimSpace(r.Period))
		r.DaySpecific = strings.TrimSpace(r.DaySpecific)

		// 跳过全空行
		if r.StartTime == "" && r.EndTime == "" && r.Period == "" {
			continue
		}
		rows = append(rows, ImportTimeSlotRow{Row: i + 2, TimeSlotImportRow: r})
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

func parseCSV(reader io.Reader) ([]dto.TimeSlotImportRow, error) {
	var rows []dto.TimeSlotImportRow
	if err := gocsv.Unmarshal(reader, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, ErrImportNoData
		}
		return nil, fmt.Errorf("%w: %v", ErrImportParse, err)
	}
	return rows, nil
}

func parseXLSX(reader io.Reader) ([]dto.TimeSlotImportRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportParse, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportParse, err)
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	colIndex := parseSlotHeaderIndex(excelRows[0])
	if colIndex["start_time"] < 0 || colIndex["end_time"] < 0 || colIndex["period"] < 0 {
		return nil, ErrImportBadHeader
	}

	cell := func(row []string, key string) string {
		if idx := colIndex[key]; idx >= 0 && idx < len(row) {
			return row[idx]
		}
		return ""
	}

	rows := make([]dto.TimeSlotImportRow, 0, len(excelRows)-1)
	for _, row := range excelRows[1:] {
		rows = append(rows, dto.TimeSlotImportRow{
			StartTime:   cell(row, "start_time"),
			EndTime:     cell(row, "end_time"),
			DisplayText: cell(row, "display_text"),
			Period:      cell(row, "period"),
			DaySpecific: cell(row, "day_specific"),
		})
	}
	return rows, nil
}

// parseSlotHeaderIndex 解析表头，返回列名 -> 列索引映射（支持灵活列序）
func parseSlotHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"start_time":   -1,
		"end_time":     -1,
		"display_text": -1,
		"period":       -1,
		"day_specific": -1,
	}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := idx[key]; ok {
			idx[key] = i
		}
	}
	return idx
}

// parseBool 兼容 true/false、1/0、ya/tidak
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "false", "0", "tidak", "no":
		return false, nil
	case "true", "1", "ya", "yes":
		return true, nil
	}
	return false, fmt.Errorf("day_specific 取值无效: %q", s)
}

// ────────────────────── ImportTimeSlots ──────────────────────

func (s *timeSlotService) ImportTimeSlots(ctx context.Context, rows []ImportTimeSlotRow, callerID string) (*dto.ImportTimeSlotsResponse, error) {
	resp := &dto.ImportTimeSlotsResponse{Errors: []dto.ImportRowError{}}

	for _, row := range rows {
		daySpecific, err := parseBool(row.DaySpecific)
		if err != nil {
			resp.Errors = append(resp.Errors, dto.ImportRowError{Row: row.Row, Reason: err.Error()})
			continue
		}

		slot := &model.TimeSlot{
			DisplayText: row.DisplayText,
			Period:      model.Period(row.Period),
			DaySpecific: daySpecific,
			StartTime:   row.StartTime,
			EndTime:     row.EndTime,
		}
		if err := validateTimeSlot(slot); err != nil {
			resp.Errors = append(resp.Errors, dto.ImportRowError{Row: row.Row, Reason: err.Error()})
			continue
		}
		if slot.DisplayText == "" {
			slot.DisplayText = displayText(slot.StartTime, slot.EndTime)
		}

		err = s.insert(ctx, slot, callerID)
		switch {
		case err == nil:
			resp.Created++
		case errors.Is(err, ErrTimeSlotExists):
			resp.Skipped++
		default:
			// 存储故障直接中止，已写入的行保留
			return nil, err
		}
	}

	s.logger.Info("时间段导入完成",
		zap.Int("created", resp.Created),
		zap.Int("skipped", resp.Skipped),
		zap.Int("failed", len(resp.Errors)),
	)
	return resp, nil
}
