package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/SAP-F-2025/frame-player/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

type ReportFormat string

const (
	ReportXLSX ReportFormat = "xlsx"
	ReportCSV  ReportFormat = "csv"
	ReportPDF  ReportFormat = "pdf"
)

// ContentType returns the MIME type of the exported file
func (f ReportFormat) ContentType() string {
	switch f {
	case ReportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ReportCSV:
		return "text/csv"
	case ReportPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// ReportService renders the review breakdown of a finished session as a file
type ReportService interface {
	Export(review *SessionReview, format ReportFormat) ([]byte, error)
	ExportXLSX(review *SessionReview) ([]byte, error)
	ExportCSV(review *SessionReview) ([]byte, error)
	ExportPDF(review *SessionReview) ([]byte, error)
}

type reportService struct{}

func NewReportService() ReportService {
	return &reportService{}
}

var regionHeaders = []string{
	"Frame", "Image", "Type", "Label", "Your Answer", "Expected", "Clicked", "Correct", "Frame Mistake",
}

func (s *reportService) Export(review *SessionReview, format ReportFormat) ([]byte, error) {
	switch format {
	case ReportXLSX, "":
		return s.ExportXLSX(review)
	case ReportCSV:
		return s.ExportCSV(review)
	case ReportPDF:
		return s.ExportPDF(review)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func (s *reportService) ExportXLSX(review *SessionReview) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summary := "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Session", review.SessionID},
		{"Score", review.Result.Scored},
		{"Total Possible", review.Result.Total},
		{"Percentage", review.Percent},
		{"Frames With Mistakes", review.Result.MistakeFrameCount},
		{"Frames", len(review.Frames)},
		{"Regions", reviewRegions(review.Frames)},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summary, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary: %w", err)
		}
	}

	sheetName := "Regions"
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	for i, header := range regionHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	rowIndex := 2
	for _, fr := range review.Frames {
		for _, rr := range fr.Regions {
			row := []interface{}{
				fr.Index + 1, fr.Image, string(rr.Kind), rr.Label,
				rr.UserAnswer, rr.Expected, rr.Clicked, rr.Correct, fr.Mistake,
			}
			cell, _ := excelize.CoordinatesToCellName(1, rowIndex)
			if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
				return nil, fmt.Errorf("failed to write region row: %w", err)
			}
			rowIndex++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *reportService) ExportCSV(review *SessionReview) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(regionHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, fr := range review.Frames {
		for _, rr := range fr.Regions {
			record := []string{
				strconv.Itoa(fr.Index + 1), fr.Image, string(rr.Kind), rr.Label,
				rr.UserAnswer, rr.Expected,
				strconv.FormatBool(rr.Clicked), strconv.FormatBool(rr.Correct), strconv.FormatBool(fr.Mistake),
			}
			if err := w.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *reportService) ExportPDF(review *SessionReview) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 16)
	pdf.AddPage()

	pdf.Cell(40, 10, "Session "+review.SessionID)
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Score: %d / %d (%.1f%%)", review.Result.Scored, review.Result.Total, review.Percent))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Frames with mistakes: %d", review.Result.MistakeFrameCount))
	pdf.Ln(12)

	for _, fr := range review.Frames {
		pdf.SetFont("Arial", "B", 12)
		title := fmt.Sprintf("Frame %d: %s", fr.Index+1, fr.Image)
		if fr.Mistake {
			title += " (mistake)"
		}
		pdf.Cell(0, 8, title)
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 10)
		for _, rr := range fr.Regions {
			mark := "wrong"
			if rr.Correct {
				mark = "correct"
			}
			line := fmt.Sprintf("%s %s: %s", rr.Kind, rr.Label, mark)
			if rr.Kind == models.RegionInput {
				line += fmt.Sprintf(" (your answer %q, expected %q)", rr.UserAnswer, rr.Expected)
			}
			pdf.MultiCell(0, 6, line, "", "L", false)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF file: %w", err)
	}
	return buf.Bytes(), nil
}

func reviewRegions(frames []models.FrameReview) int {
	n := 0
	for _, fr := range frames {
		n += len(fr.Regions)
	}
	return n
}
