package report

import (
	"errors"
	"strings"
	"time"

	duct "Ductcalc/internal/calc/duct"
	"Ductcalc/internal/calc/premium/recommend"
	table "Ductcalc/internal/calc/table"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const defaultTitle = "HVAC Duct Sizing Report"

type Input struct {
	Project  string   `json:"project"`
	Author   string   `json:"author"`
	Company  string   `json:"company"`
	Title    string   `json:"title"`
	Notes    string   `json:"notes"`
	Velocity float64  `json:"velocity"`
	Friction float64  `json:"friction"`
	CFM      *float64 `json:"cfm,omitempty"`
}

// Document is everything a rendered report shows, computed once so the
// PDF and XLSX outputs agree.
type Document struct {
	Input
	Generated      time.Time
	Table          table.Table
	Results        *duct.Results
	Recommendation *recommend.DiameterResult
}

func Prepare(in Input, now time.Time) (Document, error) {
	if strings.TrimSpace(in.Title) == "" {
		in.Title = defaultTitle
	}
	tbl, err := table.Build(table.Input{Velocity: in.Velocity, Friction: in.Friction})
	if err != nil {
		return Document{}, err
	}
	doc := Document{Input: in, Generated: now, Table: tbl}
	if in.CFM == nil {
		return doc, nil
	}

	res := duct.ComputeAll(duct.Input{Velocity: &in.Velocity, Friction: &in.Friction, CFM: in.CFM})
	if !res.Valid() {
		return Document{}, errors.New(strings.Join(res.Errors, "; "))
	}
	rec, err := recommend.Diameter(recommend.DiameterInput{Velocity: in.Velocity, Friction: in.Friction, CFM: *in.CFM})
	if err != nil {
		return Document{}, err
	}
	doc.Results = &res
	doc.Recommendation = &rec
	return doc, nil
}

var printer = message.NewPrinter(language.English)

// thousands formats n with locale digit grouping, 12345 -> "12,345".
func thousands(n int64) string {
	return printer.Sprintf("%d", n)
}
