// Package expense defines the structured expense candidate produced by the
// extraction pipeline and the amount resolution rules around it.
package expense

import (
	"time"

	"github.com/expenso-app/bill-extraction/constants"
)

// DateLayout is the ISO-8601 calendar date layout used on the wire.
const DateLayout = "2006-01-02"

// DefaultDescription is the placeholder used when no description could be
// derived; Candidate.Description is never empty.
const DefaultDescription = "Expense from receipt"

// LineItem is a single parsed receipt line. Items are owned by exactly one
// Candidate and never shared.
type LineItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity,omitempty"` // positive; treated as 1 when absent
	Price    float64 `json:"price"`              // non-negative
}

// Candidate is the structured expense record returned to the caller.
type Candidate struct {
	Description string             `json:"description"`
	Amount      float64            `json:"amount"`
	Category    constants.Category `json:"category"`
	Date        string             `json:"date"` // ISO-8601 calendar date
	Vendor      string             `json:"vendor,omitempty"`
	Items       []LineItem         `json:"items,omitempty"`
}

// Finalize enforces the candidate invariants in place: non-empty
// description, canonical category, valid date (defaulting to now), and a
// non-negative amount backed by the item sum when no explicit total was
// found.
func (c *Candidate) Finalize(now time.Time) {
	if c.Description == "" {
		c.Description = DefaultDescription
	}
	if !constants.IsValid(c.Category) {
		c.Category = constants.Normalize(string(c.Category))
	}
	if _, err := time.Parse(DateLayout, c.Date); err != nil {
		c.Date = now.Format(DateLayout)
	}
	if c.Amount <= 0 && len(c.Items) > 0 {
		c.Amount = SumItems(c.Items)
	}
	if c.Amount < 0 {
		c.Amount = 0
	}
}
