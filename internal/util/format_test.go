package util

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		thousand string
		decimal  string
		expected string
	}{
		{
			name:     "positive value with european separators",
			value:    "12345.67",
			thousand: ".",
			decimal:  ",",
			expected: "12.345,67",
		},
		{
			name:     "negative value",
			value:    "-12345.67",
			thousand: ",",
			decimal:  ".",
			expected: "-12,345.67",
		},
		{
			name:     "zero value",
			value:    "0",
			thousand: ",",
			decimal:  ".",
			expected: "0.00",
		},
		{
			name:     "value less than one",
			value:    "0.99",
			thousand: ",",
			decimal:  ".",
			expected: "0.99",
		},
		{
			name:     "rounds to cents",
			value:    "4.505",
			thousand: ",",
			decimal:  ".",
			expected: "4.51",
		},
		{
			name:     "large value",
			value:    "12345678.9",
			thousand: ",",
			decimal:  ".",
			expected: "12,345,678.90",
		},
		{
			name:     "no thousands separator",
			value:    "1234",
			thousand: "",
			decimal:  ".",
			expected: "1234.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatMoney(decimal.RequireFromString(tt.value), tt.thousand, tt.decimal)
			if result != tt.expected {
				t.Errorf("FormatMoney() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestDollars(t *testing.T) {
	if got := Dollars(decimal.RequireFromString("1234.5")); got != "$1,234.50" {
		t.Errorf("Dollars() = %v, want $1,234.50", got)
	}

	if got := Dollars(decimal.RequireFromString("-3")); got != "-$3.00" {
		t.Errorf("Dollars() = %v, want -$3.00", got)
	}
}
