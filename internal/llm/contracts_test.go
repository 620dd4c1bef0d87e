package llm

import (
	"testing"
	"time"

	"github.com/expenso-app/bill-extraction/constants"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func TestToCandidateRoutesThroughNormalizerAndResolver(t *testing.T) {
	f := BillFields{
		Description: "Team lunch",
		Amount:      "$42.50",
		Category:    "Restaurant Bill",
		Date:        "2023-07-21",
		Vendor:      "Tasty Restaurant",
	}
	c := f.ToCandidate(testNow)

	if c.Category != constants.Food {
		t.Errorf("category = %q, want food", c.Category)
	}
	if c.Amount != 42.5 {
		t.Errorf("amount = %v, want 42.5", c.Amount)
	}
	if c.Date != "2023-07-21" {
		t.Errorf("date = %q", c.Date)
	}
	if c.Vendor != "Tasty Restaurant" {
		t.Errorf("vendor = %q", c.Vendor)
	}
}

func TestToCandidateItemSumWhenNoTotal(t *testing.T) {
	f := BillFields{
		Category: "food",
		Items: []BillItem{
			{Name: "widget", Price: 10, Quantity: 2},
			{Name: "gadget", Price: 5},
		},
	}
	c := f.ToCandidate(testNow)
	if c.Amount != 25 {
		t.Errorf("amount = %v, want 25", c.Amount)
	}
	if len(c.Items) != 2 {
		t.Errorf("items = %v", c.Items)
	}
}

func TestToCandidateDateFormats(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"2023-07-21", "2023-07-21"},
		{"2023/07/21", "2023-07-21"},
		{"07/21/2023", "2023-07-21"},
		{"July 21, 2023", "2023-07-21"},
		{"not a date", "2024-03-15"},
		{"", "2024-03-15"},
	}
	for _, tc := range cases {
		c := BillFields{Category: "other", Date: tc.in}.ToCandidate(testNow)
		if c.Date != tc.want {
			t.Errorf("date %q -> %q, want %q", tc.in, c.Date, tc.want)
		}
	}
}

func TestToCandidateNeverRawCategory(t *testing.T) {
	for _, raw := range []string{"", "weird stuff", "FOOD", "hotel bill"} {
		c := BillFields{Category: raw}.ToCandidate(testNow)
		if !constants.IsValid(c.Category) {
			t.Errorf("category %q escaped normalization as %q", raw, c.Category)
		}
	}
}
