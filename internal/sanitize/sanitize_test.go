package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "trims whitespace", in: "  coffee  ", max: 100, want: "coffee"},
		{name: "collapses internal runs", in: "weekly   grocery \t run", max: 100, want: "weekly grocery run"},
		{name: "strips unsafe characters", in: `<b>lunch</b> & "drinks"`, max: 100, want: "blunch/b drinks"},
		{name: "truncates to max", in: strings.Repeat("a", 30), max: 10, want: strings.Repeat("a", 10)},
		{name: "empty input", in: "", max: 50, want: ""},
		{name: "only unsafe characters", in: `<>&"'`, max: 50, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in, tt.max))
		})
	}
}

func TestCategoryName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain name passes", in: "Food", want: "Food"},
		{name: "allows hyphen and underscore", in: "take-out_food", want: "take-out_food"},
		{name: "drops punctuation", in: "Food! (takeout)", want: "Food takeout"},
		{name: "collapses whitespace", in: "  Eating   Out ", want: "Eating Out"},
		{name: "truncates long names", in: strings.Repeat("x", 80), want: strings.Repeat("x", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryName(tt.in))
		})
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "keeps digits and separators", in: "$1,234.56", want: "1,234.56"},
		{name: "drops letters", in: "12.50 USD", want: "12.50"},
		{name: "caps length", in: strings.Repeat("9", 40), want: strings.Repeat("9", 20)},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Amount(tt.in))
		})
	}
}
