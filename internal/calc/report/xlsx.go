package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Duct Sizing"

// WriteXLSX renders the inputs block followed by the diameter table.
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	head, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"3B82F6"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	info := [][]any{
		{doc.Title},
		{"Project", doc.Project},
		{"Author", doc.Author},
		{"Company", doc.Company},
		{"Date", doc.Generated.Format("2006-01-02")},
		{"Velocity limit (ft/min)", doc.Velocity},
		{"Friction limit (in./100ft)", doc.Friction},
		{"Balanced diameter (in.)", doc.Table.OptimalDiameterIn},
	}
	if doc.Recommendation != nil {
		info = append(info,
			[]any{"Design airflow (CFM)", *doc.CFM},
			[]any{"Diameter by velocity (in.)", doc.Recommendation.DiameterVelocityIn},
			[]any{"Diameter by friction (in.)", doc.Recommendation.DiameterFrictionIn},
			[]any{"Recommended diameter (in.)", doc.Recommendation.RecommendedIn},
			[]any{"Governed by", doc.Recommendation.GovernedBy},
		)
	}

	r := 1
	for _, row := range info {
		if err := setRow(f, r, row); err != nil {
			return err
		}
		r++
	}
	if err := f.SetCellStyle(SheetName, "A1", "A1", bold); err != nil {
		return err
	}

	r++
	if err := setRow(f, r, []any{"Diameter (in.)", "Velocity CFM", "Friction CFM", "Difference"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, fmt.Sprintf("A%d", r), fmt.Sprintf("D%d", r), head); err != nil {
		return err
	}
	for _, row := range doc.Table.Rows {
		r++
		if err := setRow(f, r, []any{row.DiameterIn, row.VelocityCFM, row.FrictionCFM, row.Difference}); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetName, "A", "D", 26); err != nil {
		return err
	}
	return f.Write(w)
}

func setRow(f *excelize.File, r int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, r)
	if err != nil {
		return err
	}
	return f.SetSheetRow(SheetName, cell, &values)
}
