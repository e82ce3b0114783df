package util

import "testing"

func TestParseCapacity(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "500 KWp", want: "500"},
		{input: "1,5 MW", want: "1.5"},
		{input: "1.250", want: "1.250"},
		{input: "capacidade 75", want: "75"},
		{input: "", want: "0"},
		{input: "n/a", want: "0"},
	}

	for _, tc := range cases {
		if got := ParseCapacity(tc.input); got != tc.want {
			t.Fatalf("ParseCapacity(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseCurrency(t *testing.T) {
	cases := []struct {
		input string
		want  float64
	}{
		{input: "R$ 120.000.000,00", want: 120000000.00},
		{input: "150.000.000,00", want: 150000000.00},
		{input: "150000000", want: 150000000},
		{input: "1.234,56", want: 1234.56},
		{input: "1234.56", want: 1234.56},
		{input: "R$ 0,99", want: 0.99},
		{input: "", want: 0},
		{input: "a combinar", want: 0},
		{input: "-500", want: 0},
	}

	for _, tc := range cases {
		if got := ParseCurrency(tc.input); got != tc.want {
			t.Fatalf("ParseCurrency(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParsePercent(t *testing.T) {
	cases := []struct {
		input    string
		fallback float64
		want     float64
	}{
		{input: "10%", fallback: 15, want: 10},
		{input: "7,5 %", fallback: 15, want: 7.5},
		{input: "20", fallback: 5, want: 20},
		{input: "0%", fallback: 15, want: 0},
		{input: "", fallback: 15, want: 15},
		{input: "", fallback: 5, want: 5},
		{input: "isento", fallback: 5, want: 5},
		{input: "-3%", fallback: 15, want: 15},
	}

	for _, tc := range cases {
		if got := ParsePercent(tc.input, tc.fallback); got != tc.want {
			t.Fatalf("ParsePercent(%q, %v) = %v, want %v", tc.input, tc.fallback, got, tc.want)
		}
	}
}
