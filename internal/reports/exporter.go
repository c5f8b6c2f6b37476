package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Export renders the guest list in the requested format and returns the
// file bytes, a timestamped filename and the content type.
func Export(format string, report GuestListReport) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch format {
	case FormatCSV:
		data, err := exportCSV(report)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("guest_list_%d_%s.csv", report.EventID, timestamp)
		return data, filename, "text/csv", nil

	case FormatExcel:
		data, err := exportExcel(report)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("guest_list_%d_%s.xlsx", report.EventID, timestamp)
		return data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		data, err := exportPDF(report)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("guest_list_%d_%s.pdf", report.EventID, timestamp)
		return data, filename, "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format: %s", format)
	}
}

var guestListHeaders = []string{"Guest Name", "Email", "Status", "Guests", "Note", "Invited At", "Responded At"}

func rowValues(row GuestListRow) []string {
	responded := ""
	if row.RespondedAt != nil {
		responded = row.RespondedAt.Format("2006-01-02 15:04")
	}
	return []string{
		row.GuestName,
		row.Email,
		row.Status,
		strconv.Itoa(row.Guests),
		row.Note,
		row.InvitedAt.Format("2006-01-02 15:04"),
		responded,
	}
}

// ===========================
// 📄 CSV
// ===========================

func exportCSV(report GuestListReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(guestListHeaders); err != nil {
		return nil, err
	}
	for _, row := range report.Rows {
		if err := w.Write(rowValues(row)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ===========================
// 📊 Excel
// ===========================

func exportExcel(report GuestListReport) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Guest List"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for col, header := range guestListHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, row := range report.Rows {
		for col, value := range rowValues(row) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ===========================
// 🖨 PDF
// ===========================

func exportPDF(report GuestListReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, report.EventTitle, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	subtitle := report.EventDate.Format("2006-01-02")
	if report.Location != "" {
		subtitle += " - " + report.Location
	}
	pdf.CellFormat(0, 7, subtitle, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{45, 65, 25, 18, 60, 32, 32}

	pdf.SetFont("Arial", "B", 10)
	for i, header := range guestListHeaders {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range report.Rows {
		for i, value := range rowValues(row) {
			pdf.CellFormat(widths[i], 7, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
