package report

import (
	"fmt"
	"io"
	"math"

	"github.com/phpdave11/gofpdf"
)

var (
	brandBlue = [3]int{59, 130, 246}
	stripe    = [3]int{241, 245, 249}
)

// WritePDF renders the report on A4 pages.
func WritePDF(w io.Writer, doc Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, false)
	pdf.SetAuthor(doc.Author, false)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 5, "Round duct sizing by velocity and friction limits.", "", 0, "L", false, 0, "")
		pdf.SetX(10)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	pdf.SetFillColor(brandBlue[0], brandBlue[1], brandBlue[2])
	pdf.Rect(0, 0, pageW, 30, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(10, 10)
	pdf.CellFormat(pageW-20, 10, doc.Title, "", 0, "C", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(10, 40)
	pdf.SetFont("Helvetica", "", 11)
	line := func(label, value string) {
		if value == "" {
			return
		}
		pdf.CellFormat(0, 6, fmt.Sprintf("%s: %s", label, value), "", 1, "L", false, 0, "")
	}
	line("Project", doc.Project)
	line("Author", doc.Author)
	line("Company", doc.Company)
	line("Date", doc.Generated.Format("2006-01-02"))
	line("Velocity limit", fmt.Sprintf("%g ft/min", doc.Velocity))
	line("Friction limit", fmt.Sprintf("%g in. w.g./100 ft", doc.Friction))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	if doc.Recommendation != nil {
		line("Design airflow", thousands(int64(math.Round(*doc.CFM)))+" CFM")
		pdf.SetFont("Helvetica", "", 11)
		line("Diameter by velocity", fmt.Sprintf("%g in.", doc.Recommendation.DiameterVelocityIn))
		line("Diameter by friction", fmt.Sprintf("%g in.", doc.Recommendation.DiameterFrictionIn))
		pdf.SetFont("Helvetica", "B", 12)
		line("Recommended diameter", fmt.Sprintf("%g in. (governed by %s)", doc.Recommendation.RecommendedIn, doc.Recommendation.GovernedBy))
	}
	line("Balanced diameter", fmt.Sprintf("%d in. (closest velocity and friction capacity)", doc.Table.OptimalDiameterIn))
	pdf.Ln(4)

	headers := []string{"Diameter", "Velocity CFM", "Friction CFM", "Difference"}
	colW := (pageW - 40) / float64(len(headers))
	header := func() {
		pdf.SetX(20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(brandBlue[0], brandBlue[1], brandBlue[2])
		pdf.SetTextColor(255, 255, 255)
		for _, h := range headers {
			pdf.CellFormat(colW, 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 10)
	}
	header()
	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for i, row := range doc.Table.Rows {
		if pdf.GetY()+6 > pageH-bottom-10 {
			pdf.AddPage()
			header()
		}
		pdf.SetX(20)
		fill := i%2 == 1
		pdf.SetFillColor(stripe[0], stripe[1], stripe[2])
		pdf.CellFormat(colW, 6, fmt.Sprintf("%d\"", row.DiameterIn), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colW, 6, thousands(row.VelocityCFM), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colW, 6, thousands(row.FrictionCFM), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colW, 6, thousands(row.Difference), "1", 0, "R", fill, 0, "")
		pdf.Ln(-1)
	}

	if doc.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, doc.Notes, "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}
