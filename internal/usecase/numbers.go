package usecase

import "strings"

// numberWords covers the spelled quantities people actually type or dictate.
// Compound numerals ("veintiuno") are not parsed.
var numberWords = map[string]float64{
	"un": 1, "una": 1, "uno": 1,
	"dos": 2, "tres": 3, "cuatro": 4, "cinco": 5,
	"seis": 6, "siete": 7, "ocho": 8, "nueve": 9, "diez": 10,
	"once": 11, "doce": 12, "trece": 13, "catorce": 14, "quince": 15,
	"veinte": 20, "treinta": 30, "cuarenta": 40, "cincuenta": 50,
	"medio": 0.5, "media": 0.5,
}

// ParseTextNumber resolves a spelled-out quantity
func ParseTextNumber(word string) (float64, bool) {
	n, ok := numberWords[strings.ToLower(strings.TrimSpace(word))]
	return n, ok
}
