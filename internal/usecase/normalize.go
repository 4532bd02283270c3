package usecase

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentChains holds decompose -> drop marks -> recompose transformers.
// transform.Chain is stateful, so each caller takes its own from the pool.
var accentChains = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	},
}

// NormalizeKeyword lowercases s, strips diacritics and collapses whitespace.
// "  Limón   Sutil " -> "limon sutil"
func NormalizeKeyword(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	s = strings.ToValidUTF8(s, "")

	tr := accentChains.Get().(transform.Transformer)
	stripped, _, err := transform.String(tr, s)
	tr.Reset()
	accentChains.Put(tr)
	if err != nil {
		stripped = s
	}

	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}
