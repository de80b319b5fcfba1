package services

import (
	"testing"

	"github.com/xamad/smartfridge/internal/models"
)

func TestMatchKeyword(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    string
		matched bool
	}{
		{name: "uppercase receipt line", line: "PROSCIUTTO CRUDO 0,150 kg", want: "prosciutto", matched: true},
		{name: "keyword mid line", line: "GR 300 MOZZARELLA BUFALA", want: "mozzarella", matched: true},
		{name: "mixed case", line: "Salame Milano", want: "salame", matched: true},
		{name: "earliest lexicon entry wins", line: "MOZZARELLA E SPECK", want: "speck", matched: true},
		{name: "no keyword", line: "TOTALE COMPLESSIVO", matched: false},
		{name: "empty line", line: "", matched: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, matched := MatchKeyword(tt.line)
			if matched != tt.matched {
				t.Fatalf("MatchKeyword(%q) matched = %v, want %v", tt.line, matched, tt.matched)
			}
			if got != tt.want {
				t.Errorf("MatchKeyword(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestClassifyKeyword(t *testing.T) {
	tests := []struct {
		keyword string
		want    models.ProductCategory
	}{
		{keyword: "mozzarella", want: models.CategoryDairy},
		{keyword: "pecorino", want: models.CategoryDairy},
		{keyword: "burrata", want: models.CategoryDairy},
		{keyword: "pollo", want: models.CategoryMeat},
		{keyword: "salsiccia", want: models.CategoryMeat},
		{keyword: "carne", want: models.CategoryMeat},
		{keyword: "prosciutto", want: models.CategoryCuredMeats},
		{keyword: "speck", want: models.CategoryCuredMeats},
		{keyword: "mortadella", want: models.CategoryCuredMeats},
		// Unknown keywords land in the deli default
		{keyword: "sconosciuto", want: models.CategoryCuredMeats},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			if got := ClassifyKeyword(tt.keyword); got != tt.want {
				t.Errorf("ClassifyKeyword(%q) = %q, want %q", tt.keyword, got, tt.want)
			}
		})
	}
}
