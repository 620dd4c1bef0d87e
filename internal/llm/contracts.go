// Package llm is the best-effort upgrade path: it ships the raw document to
// a multimodal generation API and turns the model's JSON reply into a typed
// expense candidate. The heuristic path remains the guaranteed fallback.
package llm

import (
	"context"
	"strings"
	"time"

	"github.com/expenso-app/bill-extraction/constants"
	"github.com/expenso-app/bill-extraction/internal/expense"
	"github.com/expenso-app/bill-extraction/internal/extract"
)

// BillFields is the shape we demand from the model. Amount stays untyped
// because models return it as a number or a decorated string
// ("$42.50"); the resolver copes with both.
type BillFields struct {
	Description string     `json:"description,omitempty"`
	Amount      any        `json:"amount,omitempty"`
	Category    string     `json:"category"`
	Date        string     `json:"date,omitempty"`
	Vendor      string     `json:"vendor,omitempty"`
	Items       []BillItem `json:"items,omitempty"`
}

type BillItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity,omitempty"`
	Price    float64 `json:"price"`
}

// FieldExtractor is the interface the pipeline depends on.
type FieldExtractor interface {
	Extract(ctx context.Context, doc *extract.Document) (expense.Candidate, []byte /*rawJSON*/, error)
}

// dateLayouts are tried in order when normalizing the model's date.
var dateLayouts = []string{
	expense.DateLayout,
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
	"January 2, 2006",
	"2 January 2006",
	time.RFC3339,
}

// ToCandidate routes the parsed fields through the category normalizer
// and the amount resolver, producing an invariant-complete candidate.
func (f BillFields) ToCandidate(now time.Time) expense.Candidate {
	var items []expense.LineItem
	for _, it := range f.Items {
		items = append(items, expense.LineItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	c := expense.Candidate{
		Description: f.Description,
		Amount:      expense.ResolveAmount(f.Amount, items),
		Category:    constants.Normalize(f.Category),
		Date:        normalizeDate(f.Date, now),
		Vendor:      f.Vendor,
		Items:       items,
	}
	c.Finalize(now)
	return c
}

func normalizeDate(raw string, now time.Time) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return now.Format(expense.DateLayout)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(expense.DateLayout)
		}
	}
	return now.Format(expense.DateLayout)
}
