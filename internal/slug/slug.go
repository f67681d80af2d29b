// Package slug derives article identifiers from titles.
package slug

import (
	"math/rand/v2"
	"strconv"
	"strings"

	gosimple "github.com/gosimple/slug"
)

// TokenWidth is the number of base-36 characters appended to every slug.
const TokenWidth = 6

// 36^6
const tokenSpace = 2176782336

// Generate returns slugify(title) followed by a hyphen and a random token.
// Uniqueness is not checked here; the store's conditional insert does that.
func Generate(title string) string {
	base := Slugify(title)
	if base == "" {
		return Token()
	}

	return base + "-" + Token()
}

// Slugify transliterates title to lower-case ASCII and joins the words with
// single hyphens. "&" becomes "and".
func Slugify(title string) string {
	return gosimple.MakeLang(title, "en")
}

// Token returns TokenWidth random base-36 characters, zero padded.
func Token() string {
	t := strconv.FormatInt(rand.Int64N(tokenSpace), 36)

	return strings.Repeat("0", TokenWidth-len(t)) + t
}
