package model

// Category is a label from the closed catalog taxonomy
type Category string

// Categories is the closed set of taxonomy labels the query interface may use.
// Callers map free-form user intent onto this set upstream.
var Categories = []Category{
	"TV e Home Cinema",
	"Audio, Cuffie e Navigatori",
	"Fitness e Tempo Libero",
	"Periferiche PC",
	"Telefonia",
	"Fotografia, Video e Droni",
	"Computer",
	"Mobilità Elettrica",
	"Grandi Elettrodomestici",
	"Piccoli Elettrodomestici da Cucina e Caffè",
	"Cura della Persona",
	"Clima e Riscaldamento",
	"Pulizia e Stiro",
	"Smart Home e Domotica",
	"Gaming",
	"Console e Videogiochi",
}

// categoryAliases maps query-interface labels onto the labels the catalog
// actually uses. The feed files the Gaming assortment under "PC Gaming".
var categoryAliases = map[Category]Category{
	"Gaming": "PC Gaming",
}

// Known reports whether the category belongs to the closed set
func (c Category) Known() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// NormalizeCategory resolves a query-interface category to the catalog label.
// Unknown categories pass through unchanged, they simply match no rows.
func NormalizeCategory(c Category) Category {
	if alias, ok := categoryAliases[c]; ok {
		return alias
	}
	return c
}
