// Package heuristic is the deterministic, guaranteed-success extraction
// path: regex and keyword rules over raw receipt text. It always returns a
// candidate, degrading field by field to defaults instead of failing.
package heuristic

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/expenso-app/bill-extraction/constants"
	"github.com/expenso-app/bill-extraction/internal/expense"
)

var (
	// "Total ... 42.50" (currency decoration between keyword and number).
	reTotal = regexp.MustCompile(`(?i)total[^0-9\n-]*([0-9]+(?:[.,][0-9]{1,2})?)`)
	// First bare decimal-looking token, the fallback when no total line exists.
	reDecimal = regexp.MustCompile(`\b[0-9]+[.,][0-9]{1,2}\b`)
	// D[D]/M[M]/YY[YY]-shaped token.
	reDate = regexp.MustCompile(`\b([0-9]{1,2})/([0-9]{1,2})/([0-9]{2,4})\b`)
)

// categoryFamilies are tried in this exact order; the first match wins.
// The priority order is a documented contract, not an implementation
// detail — reordering changes observable classification.
var categoryFamilies = []struct {
	cat constants.Category
	re  *regexp.Regexp
}{
	{constants.Food, regexp.MustCompile(`restaurant|food|cafe|coffee|meal|lunch|dinner|breakfast|pizza|burger|bakery|grocer`)},
	{constants.Travel, regexp.MustCompile(`taxi|uber|lyft|flight|airline|airfare|train|bus fare|fuel|petrol|gas station|parking|toll`)},
	{constants.Accommodation, regexp.MustCompile(`hotel|motel|hostel|airbnb|lodg|resort|accommodation`)},
	{constants.OfficeSupplies, regexp.MustCompile(`stationer|printer|paper|pen\b|pens\b|ink|toner|office`)},
	{constants.Equipment, regexp.MustCompile(`laptop|computer|monitor|keyboard|hardware|equipment|machine`)},
}

// Parse turns raw extracted text into an expense candidate. It never
// errors; missing or unparseable fields default (amount 0, category other,
// date now). Callers must not read those defaults as failure.
func Parse(text string) expense.Candidate {
	return ParseAt(text, time.Now())
}

// ParseAt is Parse with an injected clock, kept pure for tests.
func ParseAt(text string, now time.Time) expense.Candidate {
	cat := classify(text)
	c := expense.Candidate{
		Description: fmt.Sprintf("%s (%s)", expense.DefaultDescription, cat),
		Amount:      parseAmount(text),
		Category:    cat,
		Date:        parseDate(text, now),
	}
	c.Finalize(now)
	return c
}

func parseAmount(text string) float64 {
	if m := reTotal.FindStringSubmatch(text); len(m) == 2 {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil && v >= 0 {
			return v
		}
	}
	if tok := reDecimal.FindString(text); tok != "" {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", "."), 64); err == nil && v >= 0 {
			return v
		}
	}
	return 0
}

// parseDate finds the first slash-separated date token. Ambiguous tokens
// are read month-first, falling back to day-first when the month field is
// out of range; anything unparseable defaults to now.
func parseDate(text string, now time.Time) string {
	m := reDate.FindStringSubmatch(text)
	if len(m) != 4 {
		return now.Format(expense.DateLayout)
	}
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}

	if d, ok := calendarDate(year, a, b); ok {
		return d
	}
	if d, ok := calendarDate(year, b, a); ok {
		return d
	}
	return now.Format(expense.DateLayout)
}

func calendarDate(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return t.Format(expense.DateLayout), true
}

func classify(text string) constants.Category {
	lower := strings.ToLower(text)
	for _, fam := range categoryFamilies {
		if fam.re.MatchString(lower) {
			return fam.cat
		}
	}
	return constants.Other
}
