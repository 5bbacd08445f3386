/*
export.go - Spreadsheet export and import

PURPOSE:
  HR teams live in spreadsheets. This file exports one organization's
  balances for a year as an .xlsx workbook and imports holiday calendars
  from an uploaded .xlsx or legacy .xls sheet.

EXPORT COLUMNS:
  Employee ID | Name | Start Date | Annual | Carryover | Carryover Expiry |
  Adjustments | Total | Used | Pending | Remaining | Accrued To Date
  Day amounts are written as exact decimal text, as in the JSON API.

IMPORT FORMAT:
  First row is a header containing "name", "start_date" and optionally
  "end_date" (case-insensitive). One holiday window per following row.
  Blank rows are skipped. Dates are YYYY-MM-DD text or Excel serial dates.
*/
package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/go-chi/chi/v5"
	"github.com/warp/vacation-engine/factory"
	"github.com/warp/vacation-engine/generic"
	"github.com/xuri/excelize/v2"
)

const (
	balanceSheet      = "Balances"
	maxImportRows     = 10000
	maxUploadBytes    = 10 << 20
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	holidayFileField  = "file"
	excelSerialLayout = generic.DateLayout
)

var balanceHeader = []any{
	"Employee ID", "Name", "Start Date", "Annual", "Carryover", "Carryover Expiry",
	"Adjustments", "Total", "Used", "Pending", "Remaining", "Accrued To Date",
}

// ExportBalances streams the balances of ?organization_id= for ?year= as
// of ?as_of= as an .xlsx workbook.
func (h *Handler) ExportBalances(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	today := h.today()

	orgID := generic.OrganizationID(r.URL.Query().Get("organization_id"))
	if orgID == "" {
		h.fail(w, r, "Invalid export", &generic.RecordError{Record: "query", Field: "organization_id", Err: errors.New("required")})
		return
	}
	year, err := intParam(r, "year", today.Year())
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}
	asOf, err := dateParam(r, "as_of", today)
	if err != nil {
		h.fail(w, r, "Invalid as_of", err)
		return
	}

	employees, err := h.Store.ListEmployees(ctx, orgID)
	if err != nil {
		h.fail(w, r, "Failed to list employees", err)
		return
	}

	rows := make([][]any, 0, len(employees))
	for _, emp := range employees {
		report, err := h.loadBalance(ctx, emp, year, asOf, balanceOptions{})
		if err != nil {
			h.fail(w, r, "Failed to calculate balance", err)
			return
		}
		rows = append(rows, balanceRow(report))
	}

	f, err := buildBalanceWorkbook(rows)
	if err != nil {
		h.fail(w, r, "Failed to build workbook", err)
		return
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("balances-%s-%d.xlsx", orgID, year)))
	w.WriteHeader(http.StatusOK)
	if err := f.Write(w); err != nil {
		h.Logger.ErrorContext(ctx, "failed to write workbook", "error", err)
	}
}

// balanceRow writes every day amount as its exact decimal string, the same
// text the JSON API returns. Carryover cells stay empty when none is valid.
func balanceRow(r balanceReport) []any {
	carryover, expiry := "", ""
	if r.Balance.CarryoverDays != nil {
		carryover = r.Balance.CarryoverDays.String()
	}
	if r.Balance.CarryoverExpiryDate != nil {
		expiry = r.Balance.CarryoverExpiryDate.String()
	}
	return []any{
		string(r.Employee.ID),
		r.Employee.Name,
		r.Employee.StartDate.String(),
		r.Effective.AnnualDays.String(),
		carryover,
		expiry,
		r.AdjustmentTotal.String(),
		r.Balance.TotalDays.String(),
		r.Balance.UsedDays.String(),
		r.Balance.PendingDays.String(),
		r.Balance.RemainingDays.String(),
		generic.RoundDays(r.AccruedToDate).String(),
	}
}

// buildBalanceWorkbook lays out the header and rows on one sheet.
func buildBalanceWorkbook(rows [][]any) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", balanceSheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := f.SetSheetRow(balanceSheet, "A1", &balanceHeader); err != nil {
		_ = f.Close()
		return nil, err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(balanceSheet, cell, &row); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(balanceSheet, 1, 1, bold)
	}
	_ = f.SetColWidth(balanceSheet, "A", "B", 20)
	return f, nil
}

// ImportHolidays reads holiday windows from an uploaded spreadsheet in the
// multipart field "file" and stores them for the organization. The whole
// sheet is validated before anything is stored.
func (h *Handler) ImportHolidays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := generic.OrganizationID(chi.URLParam(r, "orgID"))

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.fail(w, r, "Invalid upload", &generic.RecordError{Record: "upload", Field: holidayFileField, Err: err})
		return
	}
	file, header, err := r.FormFile(holidayFileField)
	if err != nil {
		h.fail(w, r, "Invalid upload", &generic.RecordError{Record: "upload", Field: holidayFileField, Err: err})
		return
	}
	defer file.Close()

	rows, err := readRowsFromSpreadsheet(file, header.Filename)
	if err != nil {
		h.fail(w, r, "Failed to read spreadsheet", &generic.RecordError{Record: "upload", Field: holidayFileField, Err: err})
		return
	}
	records, err := holidayRecordsFromRows(rows)
	if err != nil {
		h.fail(w, r, "Invalid holiday sheet", err)
		return
	}

	var holidays []generic.Holiday
	for _, rec := range records {
		hol, err := factory.HolidayFromJSON(rec, orgID)
		if err != nil {
			h.fail(w, r, "Invalid holiday", err)
			return
		}
		holidays = append(holidays, hol)
	}

	saved, err := h.Store.SaveHolidays(ctx, holidays)
	if err != nil {
		h.fail(w, r, "Failed to save holidays", err)
		return
	}
	resp := HolidayImportResponse{Holidays: []factory.HolidayJSON{}}
	for _, hol := range saved {
		resp.Holidays = append(resp.Holidays, factory.HolidayToJSON(hol))
	}
	resp.Imported = len(resp.Holidays)

	h.Logger.InfoContext(ctx, "holidays imported", "organization_id", orgID, "count", resp.Imported, "file", header.Filename)
	writeJSON(w, http.StatusCreated, resp)
}

func readRowsFromSpreadsheet(reader io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		if workbook.NumSheets() == 0 {
			return nil, errors.New("no worksheet found")
		}
		rows := workbook.ReadAllCells(maxImportRows)
		if len(rows) == 0 {
			return nil, errors.New("worksheet is empty")
		}
		return rows, nil
	default:
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, errors.New("no worksheet found")
		}
		rows, err := file.GetRows(sheetName)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, errors.New("worksheet is empty")
		}
		return rows, nil
	}
}

// holidayRecordsFromRows maps sheet rows to holiday records by header name.
func holidayRecordsFromRows(rows [][]string) ([]factory.HolidayJSON, error) {
	if len(rows) == 0 {
		return nil, &generic.RecordError{Record: "holiday_sheet", Field: "header", Err: errors.New("missing")}
	}

	nameIdx, startIdx, endIdx := -1, -1, -1
	for i, col := range rows[0] {
		switch normalizeHeader(col) {
		case "name":
			nameIdx = i
		case "start_date", "start", "date":
			startIdx = i
		case "end_date", "end":
			endIdx = i
		}
	}
	if nameIdx < 0 || startIdx < 0 {
		return nil, &generic.RecordError{Record: "holiday_sheet", Field: "header", Err: errors.New("needs name and start_date columns")}
	}

	var records []factory.HolidayJSON
	for i, row := range rows[1:] {
		name := cellValue(row, nameIdx)
		start := normalizeSheetDate(cellValue(row, startIdx))
		if name == "" && start == "" {
			continue
		}
		if name == "" {
			return nil, &generic.RecordError{Record: "holiday_sheet", Field: fmt.Sprintf("row %d name", i+2), Err: errors.New("required")}
		}
		records = append(records, factory.HolidayJSON{
			Name:      name,
			StartDate: start,
			EndDate:   normalizeSheetDate(cellValue(row, endIdx)),
		})
	}
	return records, nil
}

func normalizeHeader(header string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// normalizeSheetDate turns an Excel serial date into YYYY-MM-DD. Anything
// else is returned unchanged for ParseDate to judge.
func normalizeSheetDate(v string) string {
	if serial, err := strconv.ParseFloat(v, 64); err == nil && serial >= 20000 && serial <= 80000 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format(excelSerialLayout)
		}
	}
	return v
}
