package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/repository"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ApplicationReport is everything known about one application: its data,
// the latest factor set and the full audit trail.
type ApplicationReport struct {
	Application *models.LoanApplication
	RiskFactors []models.RiskFactor
	AuditTrail  []models.AuditEntry
	GeneratedAt time.Time
}

type ExportService struct {
	store repository.LoanStore
	now   func() time.Time
}

func NewExportService(store repository.LoanStore) *ExportService {
	return &ExportService{store: store, now: time.Now}
}

// BuildReport loads one application with its factors and audit trail
func (s *ExportService) BuildReport(ctx context.Context, id uint) (*ApplicationReport, error) {
	app, err := s.store.LoadApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	factors, err := s.store.ListRiskFactors(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load risk factors: %w", err)
	}
	trail, err := s.store.ListAudit(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit trail: %w", err)
	}
	return &ApplicationReport{
		Application: app,
		RiskFactors: factors,
		AuditTrail:  trail,
		GeneratedAt: s.now(),
	}, nil
}

func (s *ExportService) ExportCSV(ctx context.Context, report *ApplicationReport) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)
	app := report.Application

	_ = writer.Write([]string{"Loan Application Report", app.ApplicationID, report.GeneratedAt.Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Summary"})
	_ = writer.Write([]string{"Field", "Value"})
	for _, row := range summaryRows(app) {
		_ = writer.Write(row)
	}
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Risk Factors"})
	_ = writer.Write([]string{"Factor", "Value", "Weight", "Score", "Status", "Description"})
	for _, f := range report.RiskFactors {
		_ = writer.Write([]string{f.FactorName, f.Value.StringFixed(2), f.Weight.StringFixed(2), f.Score.StringFixed(2), f.Status, f.Description})
	}
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Audit Trail"})
	_ = writer.Write([]string{"Time", "Action", "Performed By", "Notes"})
	for _, e := range report.AuditTrail {
		_ = writer.Write([]string{e.CreatedAt.UTC().Format(time.RFC3339), e.Action, e.PerformedBy, e.Notes})
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), reportFilename(app, report.GeneratedAt, "csv"), nil
}

func (s *ExportService) ExportXLSX(ctx context.Context, report *ApplicationReport) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()
	app := report.Application

	sheet := "Application"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	boldStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	_ = f.SetCellValue(sheet, "A1", "Loan Application Report")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)
	_ = f.SetCellValue(sheet, "B1", app.ApplicationID)

	row := 3
	for _, r := range summaryRows(app) {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r[0])
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r[1])
		row++
	}

	factorSheet := "Risk Factors"
	_, _ = f.NewSheet(factorSheet)
	_ = f.SetSheetRow(factorSheet, "A1", &[]interface{}{"Factor", "Value", "Weight", "Score", "Status", "Description"})
	_ = f.SetRowStyle(factorSheet, 1, 1, boldStyle)
	for i, rf := range report.RiskFactors {
		cell := fmt.Sprintf("A%d", i+2)
		_ = f.SetSheetRow(factorSheet, cell, &[]interface{}{
			rf.FactorName, rf.Value.InexactFloat64(), rf.Weight.InexactFloat64(), rf.Score.InexactFloat64(), rf.Status, rf.Description,
		})
	}

	auditSheet := "Audit Trail"
	_, _ = f.NewSheet(auditSheet)
	_ = f.SetSheetRow(auditSheet, "A1", &[]interface{}{"Time", "Action", "Performed By", "Notes"})
	_ = f.SetRowStyle(auditSheet, 1, 1, boldStyle)
	for i, e := range report.AuditTrail {
		cell := fmt.Sprintf("A%d", i+2)
		_ = f.SetSheetRow(auditSheet, cell, &[]interface{}{
			e.CreatedAt.UTC().Format(time.RFC3339), e.Action, e.PerformedBy, e.Notes,
		})
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	return buf.Bytes(), reportFilename(app, report.GeneratedAt, "xlsx"), nil
}

func (s *ExportService) ExportPDF(ctx context.Context, report *ApplicationReport) ([]byte, string, error) {
	app := report.Application
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Loan Application Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 10, fmt.Sprintf("%s  generated %s", app.ApplicationID, report.GeneratedAt.Format("2006-01-02 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	for _, r := range summaryRows(app) {
		pdf.Cell(60, 6, r[0]+":")
		pdf.Cell(100, 6, tr(r[1]))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Risk Factors")
	pdf.Ln(10)
	pdf.SetFont("Arial", "B", 9)
	widths := []float64{55, 25, 20, 20, 25}
	for i, h := range []string{"Factor", "Value", "Weight", "Score", "Status"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, f := range report.RiskFactors {
		pdf.CellFormat(widths[0], 6, f.FactorName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, f.Value.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, f.Weight.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, f.Score.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, f.Status, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Audit Trail")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 9)
	for _, e := range report.AuditTrail {
		header := fmt.Sprintf("%s  %s  by %s", e.CreatedAt.UTC().Format("2006-01-02 15:04:05"), e.Action, e.PerformedBy)
		pdf.MultiCell(0, 5, tr(header), "", "L", false)
		if e.Notes != "" {
			pdf.SetX(pdf.GetX() + 6)
			pdf.MultiCell(0, 5, tr(e.Notes), "", "L", false)
		}
		pdf.Ln(2)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), reportFilename(app, report.GeneratedAt, "pdf"), nil
}

func summaryRows(app *models.LoanApplication) [][]string {
	return [][]string{
		{"Applicant", app.ApplicantName},
		{"Email", app.Email},
		{"Loan Type", app.LoanType},
		{"Loan Amount", app.LoanAmount.StringFixed(2)},
		{"Term (months)", fmt.Sprintf("%d", app.LoanTerm)},
		{"Annual Income", app.AnnualIncome.StringFixed(2)},
		{"Credit Score", fmt.Sprintf("%d", app.CreditScore)},
		{"DTI Ratio", optionalDecimal(app.DTIRatio)},
		{"LTI Ratio", optionalDecimal(app.LTIRatio)},
		{"Risk Score", optionalDecimal(app.RiskScore)},
		{"Status", app.Status},
		{"Submitted", app.SubmittedAt.UTC().Format("2006-01-02 15:04")},
	}
}

func optionalDecimal(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(2)
}

func reportFilename(app *models.LoanApplication, at time.Time, ext string) string {
	return fmt.Sprintf("loan_report_%s_%s.%s", app.ApplicationID, at.Format("2006-01-02"), ext)
}
