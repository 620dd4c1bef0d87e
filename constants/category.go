package constants

import (
	"strings"
)

// Category is the canonical expense taxonomy. Every candidate leaving the
// pipeline carries one of these values; free-form strings never escape.
type Category string

const (
	Travel         Category = "travel"
	Food           Category = "food"
	Accommodation  Category = "accommodation"
	Supplies       Category = "supplies"
	OfficeSupplies Category = "office-supplies"
	Equipment      Category = "equipment"
	Other          Category = "other"
)

var allCategories = []Category{
	Travel,
	Food,
	Accommodation,
	Supplies,
	OfficeSupplies,
	Equipment,
	Other,
}

func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// IsValid reports whether c is a member of the canonical set.
func IsValid(c Category) bool {
	for _, cat := range allCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// synonymEntry keeps the synonym table ordered so the substring pass is
// deterministic; a map would make the first-match rule depend on iteration
// order.
type synonymEntry struct {
	key string
	cat Category
}

var synonyms = []synonymEntry{
	// canonical names map to themselves so Normalize is idempotent
	{"travel", Travel},
	{"food", Food},
	{"accommodation", Accommodation},
	{"supplies", Supplies},
	{"office-supplies", OfficeSupplies},
	{"equipment", Equipment},
	{"other", Other},

	{"restaurant", Food},
	{"cafe", Food},
	{"coffee", Food},
	{"lunch", Food},
	{"dinner", Food},
	{"breakfast", Food},
	{"meal", Food},
	{"meals", Food},
	{"groceries", Food},
	{"dining", Food},
	{"catering", Food},

	{"taxi", Travel},
	{"uber", Travel},
	{"lyft", Travel},
	{"flight", Travel},
	{"airline", Travel},
	{"airfare", Travel},
	{"train", Travel},
	{"bus", Travel},
	{"fuel", Travel},
	{"petrol", Travel},
	{"parking", Travel},
	{"transport", Travel},
	{"transportation", Travel},
	{"mileage", Travel},

	{"hotel", Accommodation},
	{"motel", Accommodation},
	{"airbnb", Accommodation},
	{"lodging", Accommodation},
	{"hostel", Accommodation},
	{"resort", Accommodation},
	{"stay", Accommodation},

	{"office supplies", OfficeSupplies},
	{"stationery", OfficeSupplies},
	{"stationary", OfficeSupplies}, // common misspelling on receipts
	{"printer", OfficeSupplies},
	{"paper", OfficeSupplies},
	{"pens", OfficeSupplies},
	{"ink", OfficeSupplies},
	{"toner", OfficeSupplies},

	{"laptop", Equipment},
	{"computer", Equipment},
	{"monitor", Equipment},
	{"hardware", Equipment},
	{"machinery", Equipment},
	{"tools", Equipment},
	{"device", Equipment},

	{"supply", Supplies},
	{"materials", Supplies},
	{"consumables", Supplies},
	{"cleaning", Supplies},

	{"miscellaneous", Other},
	{"misc", Other},
	{"general", Other},
}

var exactSynonyms = func() map[string]Category {
	m := make(map[string]Category, len(synonyms))
	for _, e := range synonyms {
		m[e.key] = e.cat
	}
	return m
}()

// Normalize maps an arbitrary category string onto the canonical taxonomy.
// Lookup is two-tier: exact key match first, then an ordered scan for a
// substring relationship in either direction. Unmatchable input degrades to
// Other rather than failing; the pipeline never rejects a category outright.
func Normalize(input string) Category {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return Other
	}

	if cat, ok := exactSynonyms[normalized]; ok {
		return cat
	}

	for _, e := range synonyms {
		if strings.Contains(normalized, e.key) || strings.Contains(e.key, normalized) {
			return e.cat
		}
	}

	return Other
}
