package services

import (
	"strings"

	"github.com/xamad/smartfridge/internal/models"
)

// productLexicon is the deli vocabulary that marks a receipt line as a
// purchasable item. Order matters: when a line contains several keywords,
// the earliest lexicon entry wins.
var productLexicon = []string{
	// Cured meats
	"prosciutto",
	"salame",
	"mortadella",
	"speck",
	"bresaola",
	"coppa",
	"pancetta",
	"guanciale",
	"porchetta",
	"cotechino",
	"lardo",
	"wurstel",
	// Cheeses
	"mozzarella",
	"formaggio",
	"parmigiano",
	"grana",
	"pecorino",
	"ricotta",
	"gorgonzola",
	"provolone",
	"provola",
	"scamorza",
	"burrata",
	"stracchino",
	"mascarpone",
	"taleggio",
	"asiago",
	"fontina",
	"caciotta",
	// Fresh meats and prepared items
	"pollo",
	"tacchino",
	"manzo",
	"vitello",
	"maiale",
	"suino",
	"bovino",
	"agnello",
	"salsiccia",
	"hamburger",
	"macinato",
	"bistecca",
	"arrosto",
	"polpette",
	"carne",
}

// categoryRule maps a keyword family to a category. Rules are evaluated in
// order, first match wins; families overlap, so this stays an ordered list
// rather than a map.
type categoryRule struct {
	keywords []string
	category models.ProductCategory
}

var categoryRules = []categoryRule{
	{
		keywords: []string{
			"mozzarella", "formaggio", "parmigiano", "grana", "pecorino",
			"ricotta", "gorgonzola", "provolone", "provola", "scamorza",
			"burrata", "stracchino", "mascarpone", "taleggio", "asiago",
			"fontina", "caciotta",
		},
		category: models.CategoryDairy,
	},
	{
		keywords: []string{
			"pollo", "tacchino", "manzo", "vitello", "maiale", "suino",
			"bovino", "agnello", "salsiccia", "hamburger", "macinato",
			"bistecca", "polpette", "carne",
		},
		category: models.CategoryMeat,
	},
}

// MatchKeyword returns the first lexicon entry contained in the line,
// case-insensitive. The bool is false when the line matches nothing.
func MatchKeyword(line string) (string, bool) {
	lower := strings.ToLower(line)
	for _, keyword := range productLexicon {
		if strings.Contains(lower, keyword) {
			return keyword, true
		}
	}
	return "", false
}

// ClassifyKeyword maps a matched lexicon keyword to its category.
// Anything outside the cheese and fresh-meat families falls back to
// Cured-Meats, the dominant deli product type for this receipt source.
func ClassifyKeyword(keyword string) models.ProductCategory {
	for _, rule := range categoryRules {
		for _, k := range rule.keywords {
			if strings.Contains(keyword, k) {
				return rule.category
			}
		}
	}
	return models.CategoryCuredMeats
}
