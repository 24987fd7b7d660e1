package money

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"12.34", "12.34", false},
		{"12,34", "12.34", false},
		{" 5000 ", "5000", false},
		{"12.345", "12.35", false},
		{"12.344", "12.34", false},
		{"-200", "-200", false},
		{"+15.5", "15.5", false},
		{".5", "0.5", false},
		{"", "", true},
		{"abc", "", true},
		{"12a", "", true},
		{"1,000.50", "", true},
		{"1,2,3", "", true},
		{"--5", "", true},
		{"-", "", true},
		{"1e3", "", true},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if c.wantErr {
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Parse(%q) expected ErrMalformed, got %v (%s)", c.in, err, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", c.in, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("Parse(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestFromJSON(t *testing.T) {
	t.Run("number", func(t *testing.T) {
		got, err := FromJSON(json.RawMessage(`5000.25`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.String() != "5000.25" {
			t.Errorf("expected 5000.25, got %s", got)
		}
	})

	t.Run("string", func(t *testing.T) {
		got, err := FromJSON(json.RawMessage(`"18,00"`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.String() != "18" {
			t.Errorf("expected 18, got %s", got)
		}
	})

	t.Run("exponent number", func(t *testing.T) {
		got, err := FromJSON(json.RawMessage(`5e3`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(decimal.NewFromInt(5000)) {
			t.Errorf("expected 5000, got %s", got)
		}
		if got, _ := FromJSON(json.RawMessage(`1.2345E1`)); got.String() != "12.35" {
			t.Errorf("expected 12.35, got %s", got)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		for _, raw := range []string{`1e10`, `"10000000000"`, `-12345678901.5`} {
			if _, err := FromJSON(json.RawMessage(raw)); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("FromJSON(%s) expected ErrOutOfRange, got %v", raw, err)
			}
		}
	})

	for _, raw := range []string{``, `null`, `"abc"`, `true`, `{}`, `"5e3"`} {
		if _, err := FromJSON(json.RawMessage(raw)); !errors.Is(err, ErrMalformed) {
			t.Errorf("FromJSON(%s) expected ErrMalformed, got %v", raw, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	got, err := Normalize(decimal.RequireFromString("9999999999.994"))
	if err != nil || got.String() != "9999999999.99" {
		t.Errorf("expected 9999999999.99, got %s (%v)", got, err)
	}
	if _, err := Normalize(decimal.RequireFromString("9999999999.995")); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange after rounding up, got %v", err)
	}
	if got, _ := Normalize(decimal.RequireFromString("0.004")); !got.IsZero() {
		t.Errorf("expected sub-cent amount to round to zero, got %s", got)
	}
}

func TestSum(t *testing.T) {
	got := Sum(decimal.NewFromInt(10), decimal.RequireFromString("0.1"), decimal.RequireFromString("0.2"))
	if !got.Equal(decimal.RequireFromString("10.3")) {
		t.Errorf("expected 10.3, got %s", got)
	}
	if !Sum().IsZero() {
		t.Error("expected empty sum to be zero")
	}
}
