package usecase

import "strings"

// Canonical unit codes
const (
	UnitKilogram   = "kg"
	UnitGram       = "g"
	UnitLiter      = "l"
	UnitMilliliter = "ml"
	UnitUnit       = "u"
	UnitDozen      = "doc"
	UnitPackage    = "paq"
	UnitBottle     = "bot"
	UnitBox        = "caja"
	UnitCan        = "lata"
	UnitJar        = "frasco"
	UnitBag        = "bolsa"
	UnitCup        = "taza"
	UnitTablespoon = "cda"
	UnitTeaspoon   = "cdta"
	UnitClove      = "diente"
	UnitBunch      = "atado"
	UnitSlice      = "feta"
	UnitPinch      = "pizca"
)

// unitSynonyms maps lowercase unit spellings to their canonical code
var unitSynonyms = map[string]string{
	// mass
	"kg": UnitKilogram, "kgs": UnitKilogram, "kilo": UnitKilogram, "kilos": UnitKilogram,
	"kilogramo": UnitKilogram, "kilogramos": UnitKilogram,
	"g": UnitGram, "gr": UnitGram, "grs": UnitGram, "gramo": UnitGram, "gramos": UnitGram,

	// volume
	"l": UnitLiter, "lt": UnitLiter, "lts": UnitLiter, "litro": UnitLiter, "litros": UnitLiter,
	"ml": UnitMilliliter, "cc": UnitMilliliter, "mililitro": UnitMilliliter, "mililitros": UnitMilliliter,

	// count
	"u": UnitUnit, "un": UnitUnit, "ud": UnitUnit, "uds": UnitUnit, "unidad": UnitUnit, "unidades": UnitUnit,
	"doc": UnitDozen, "docena": UnitDozen, "docenas": UnitDozen,

	// containers
	"paq": UnitPackage, "paquete": UnitPackage, "paquetes": UnitPackage,
	"bot": UnitBottle, "botella": UnitBottle, "botellas": UnitBottle,
	"caja": UnitBox, "cajas": UnitBox,
	"lata": UnitCan, "latas": UnitCan,
	"frasco": UnitJar, "frascos": UnitJar,
	"bolsa": UnitBag, "bolsas": UnitBag,

	// kitchen measures
	"taza": UnitCup, "tazas": UnitCup,
	"cda": UnitTablespoon, "cucharada": UnitTablespoon, "cucharadas": UnitTablespoon,
	"cdta": UnitTeaspoon, "cucharadita": UnitTeaspoon, "cucharaditas": UnitTeaspoon,
	"diente": UnitClove, "dientes": UnitClove,
	"atado": UnitBunch, "atados": UnitBunch,
	"feta": UnitSlice, "fetas": UnitSlice,
	"pizca": UnitPinch, "pizcas": UnitPinch,
}

// NormalizeUnit maps a unit spelling to its canonical code.
// Unknown units are returned lowercased so free-typed units survive.
func NormalizeUnit(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return ""
	}
	if code, ok := unitSynonyms[lower]; ok {
		return code
	}
	return lower
}

// IsKnownUnit reports whether word belongs to the unit vocabulary
func IsKnownUnit(word string) bool {
	_, ok := unitSynonyms[strings.ToLower(strings.TrimSpace(word))]
	return ok
}
