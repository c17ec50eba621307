package batch

import (
	"errors"
	"fmt"

	duct "Ductcalc/internal/calc/duct"
)

const MaxItems = 1000

var (
	ErrNoItems = errors.New("no items")
	ErrTooMany = fmt.Errorf("more than %d items", MaxItems)
)

type Input struct {
	Items []duct.Input `json:"items"`
}

type Result struct {
	Count   int            `json:"count"`
	Invalid int            `json:"invalid"`
	Results []duct.Results `json:"results"`
}

// Calculate runs duct.ComputeAll over every item in order. Invalid items
// do not stop the batch; they carry their own validation messages.
func Calculate(in Input) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, ErrNoItems
	}
	if len(in.Items) > MaxItems {
		return Result{}, ErrTooMany
	}
	out := Result{Results: make([]duct.Results, 0, len(in.Items))}
	for _, item := range in.Items {
		res := duct.ComputeAll(item)
		if !res.Valid() {
			out.Invalid++
		}
		out.Results = append(out.Results, res)
	}
	out.Count = len(out.Results)
	return out, nil
}
