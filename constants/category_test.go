package constants

import "testing"

func TestNormalizeExactAndSubstring(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"food", Food},
		{"  Food  ", Food},
		{"Restaurant", Food},
		{"Restaurant Bill", Food},
		{"lunch receipt", Food},
		{"AirBnB stay", Accommodation},
		{"Hotel Invoice", Accommodation},
		{"uber ride", Travel},
		{"Printer ink", OfficeSupplies},
		{"office-supplies", OfficeSupplies},
		{"new laptop", Equipment},
		{"cleaning materials", Supplies},
		{"zzz-unknown-xyz", Other},
		{"", Other},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Restaurant Bill", "AirBnB stay", "zzz-unknown-xyz", "",
		"uber", "Printer", "supplies", "Equipment purchase",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(string(once))
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeAlwaysCanonical(t *testing.T) {
	inputs := []string{"", "garbage", "Food & Drink", "12345", "✓✓✓", "travel expenses abroad"}
	for _, in := range inputs {
		if got := Normalize(in); !IsValid(got) {
			t.Errorf("Normalize(%q) = %q, not a canonical category", in, got)
		}
	}
}

func TestAsStringSlice(t *testing.T) {
	got := AsStringSlice()
	if len(got) != len(allCategories) {
		t.Fatalf("expected %d categories, got %d", len(allCategories), len(got))
	}
	if got[0] != "travel" || got[len(got)-1] != "other" {
		t.Errorf("unexpected ordering: %v", got)
	}
}
