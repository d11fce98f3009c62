package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/wealthops/risk-profiler/internal/models"
)

// renderPDF writes the risk profile report for one client/version to path.
// Layout contract: title header, client id, score and category, allocation
// table, numbered insights and next steps, generated-on footer.
func renderPDF(path, clientID string, a models.RiskAssessment) error {
	pdf := fpdf.New("P", "mm", "A4", "")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 10, "Wealth Management Risk Profile", "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		generated := fmt.Sprintf("Generated on %s", time.Now().UTC().Format("2006-01-02 15:04"))
		pdf.CellFormat(0, 10, generated, "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetLeftMargin(15)
	pdf.SetRightMargin(15)

	shortID := clientID
	if len(shortID) > 8 {
		shortID = shortID[:8] + "..."
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Client ID: %s", shortID), "", 1, "", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Risk Assessment", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Risk Score: %d/100", a.RiskScore), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Risk Category: %s", strings.ToUpper(string(a.RiskCategory))), "", 1, "", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Recommended Portfolio Allocation", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, row := range []struct {
		label string
		pct   int
	}{
		{"Stocks", a.Allocation.Stocks},
		{"Bonds", a.Allocation.Bonds},
		{"Cash", a.Allocation.Cash},
		{"Alternatives", a.Allocation.Alternatives},
	} {
		pdf.CellFormat(0, 8, fmt.Sprintf("%s: %d%%", row.label, row.pct), "", 1, "", false, 0, "")
	}
	pdf.Ln(5)

	writeList := func(title string, items []string, empty string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, title, "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		if len(items) == 0 {
			pdf.CellFormat(0, 8, empty, "", 1, "", false, 0, "")
			return
		}
		for i, item := range items {
			pdf.SetX(15)
			pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, cleanText(item)), "", "", false)
			pdf.Ln(2)
		}
	}
	writeList("Key Insights", a.Insights, "No insights available")
	pdf.Ln(3)
	writeList("Recommended Next Steps", a.NextSteps, "No next steps available")

	return pdf.OutputFileAndClose(path)
}

// cleanText strips markdown markers and non-ASCII characters, and caps the
// length so a long insight cannot overflow the page.
func cleanText(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	cleaned = strings.ReplaceAll(cleaned, "**", "")
	cleaned = strings.ReplaceAll(cleaned, "*", "")
	cleaned = strings.ReplaceAll(cleaned, "`", "")
	if len(cleaned) > 500 {
		cleaned = cleaned[:500] + "..."
	}
	return strings.TrimSpace(cleaned)
}
