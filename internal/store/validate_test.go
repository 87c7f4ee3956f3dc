package store

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestValidateCoordinate(t *testing.T) {
	valid := [][2]float64{{0, 0}, {90, 180}, {-90, -180}, {37.5665, 126.9780}}
	for _, c := range valid {
		if err := ValidateCoordinate(c[0], c[1]); err != nil {
			t.Errorf("ValidateCoordinate(%v, %v) = %v, want nil", c[0], c[1], err)
		}
	}

	invalid := [][2]float64{
		{90.001, 0}, {-90.001, 0}, {0, 180.001}, {0, -180.001},
		{math.NaN(), 0}, {0, math.NaN()},
		{math.Inf(1), 0}, {0, math.Inf(-1)},
	}
	for _, c := range invalid {
		if err := ValidateCoordinate(c[0], c[1]); !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("ValidateCoordinate(%v, %v) = %v, want ErrInvalidCoordinate", c[0], c[1], err)
		}
	}
}

func TestValidateRadius(t *testing.T) {
	if err := ValidateRadius(0.1); err != nil {
		t.Errorf("ValidateRadius(0.1) = %v, want nil", err)
	}
	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := ValidateRadius(r); !errors.Is(err, ErrInvalidRadius) {
			t.Errorf("ValidateRadius(%v) = %v, want ErrInvalidRadius", r, err)
		}
	}
}

func TestValidateContent(t *testing.T) {
	if err := ValidateContent("hello"); err != nil {
		t.Errorf("ValidateContent = %v, want nil", err)
	}
	for _, c := range []string{"", "   ", "\t\n"} {
		if err := ValidateContent(c); !errors.Is(err, ErrInvalidContent) {
			t.Errorf("ValidateContent(%q) = %v, want ErrInvalidContent", c, err)
		}
	}
}

func TestNormalizeKeyword(t *testing.T) {
	got, err := NormalizeKeyword("  cafe  ")
	if err != nil {
		t.Fatalf("NormalizeKeyword: %v", err)
	}
	if got != "cafe" {
		t.Errorf("got %q, want %q", got, "cafe")
	}

	// Length is counted in runes, not bytes.
	if _, err := NormalizeKeyword(strings.Repeat("카", 50)); err != nil {
		t.Errorf("50-rune multibyte keyword rejected: %v", err)
	}
	if _, err := NormalizeKeyword(strings.Repeat("카", 51)); !errors.Is(err, ErrInvalidKeyword) {
		t.Errorf("err = %v, want ErrInvalidKeyword", err)
	}
	if _, err := NormalizeKeyword("   "); !errors.Is(err, ErrInvalidKeyword) {
		t.Errorf("err = %v, want ErrInvalidKeyword", err)
	}
}
