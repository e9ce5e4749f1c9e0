package billing

import (
	"testing"
	"time"
)

var fixedDate = time.Date(2025, 1, 1, 15, 4, 5, 0, time.Local)

func TestGenerateEstimateNumber(t *testing.T) {
	t.Run("first estimate of the day", func(t *testing.T) {
		got := GenerateEstimateNumber("John Smith", nil, fixedDate)
		if got != "JS-20250101-00" {
			t.Fatalf("expected JS-20250101-00, got %q", got)
		}
	})

	t.Run("sequence continues after existing identifiers", func(t *testing.T) {
		existing := []string{"JS-20250101-00", "JS-20250101-01"}
		got := GenerateEstimateNumber("John Smith", existing, fixedDate)
		if got != "JS-20250101-02" {
			t.Fatalf("expected JS-20250101-02, got %q", got)
		}
	})

	t.Run("other prefixes do not advance the sequence", func(t *testing.T) {
		existing := []string{"AB-20250101-07", "JS-20241231-05"}
		got := GenerateEstimateNumber("John Smith", existing, fixedDate)
		if got != "JS-20250101-00" {
			t.Fatalf("expected JS-20250101-00, got %q", got)
		}
	})

	t.Run("single token name is padded", func(t *testing.T) {
		got := GenerateEstimateNumber("X", nil, fixedDate)
		if got != "XX-20250101-00" {
			t.Fatalf("expected XX-20250101-00, got %q", got)
		}
	})

	t.Run("empty name is all padding", func(t *testing.T) {
		got := GenerateEstimateNumber("", nil, fixedDate)
		if got != "XX-20250101-00" {
			t.Fatalf("expected XX-20250101-00, got %q", got)
		}
	})

	t.Run("long names truncate to two initials", func(t *testing.T) {
		got := GenerateEstimateNumber("anna belle carter diaz", nil, fixedDate)
		if got != "AB-20250101-00" {
			t.Fatalf("expected AB-20250101-00, got %q", got)
		}
	})

	t.Run("date segment is zero padded", func(t *testing.T) {
		march3 := time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local)
		got := GenerateEstimateNumber("John Smith", nil, march3)
		if got != "JS-20250303-00" {
			t.Fatalf("expected JS-20250303-00, got %q", got)
		}
	})

	t.Run("sequence wraps modulo 100", func(t *testing.T) {
		existing := []string{"JS-20250101-99"}
		got := GenerateEstimateNumber("John Smith", existing, fixedDate)
		if got != "JS-20250101-00" {
			t.Fatalf("expected wraparound to JS-20250101-00, got %q", got)
		}
	})

	t.Run("malformed identifiers are ignored", func(t *testing.T) {
		existing := []string{"JS-20250101", "JS-20250101-xx", "JS-20250101-03"}
		got := GenerateEstimateNumber("John Smith", existing, fixedDate)
		if got != "JS-20250101-04" {
			t.Fatalf("expected JS-20250101-04, got %q", got)
		}
	})
}
