package expr

import (
	"strconv"
	"strings"
	"unicode"
)

var constants = map[string]float64{
	"pi": 3.141592653589793,
	"e":  2.718281828459045,
}

// functionNames are the unary functions the evaluator understands. Letter
// runs matching one of these are kept as-is during constant substitution.
var functionNames = map[string]bool{
	"sin": true, "cos": true, "tan": true,
	"asin": true, "acos": true, "atan": true,
	"sqrt": true, "log": true, "ln": true,
	"abs": true, "exp": true,
}

// Normalize rewrites free-form expression text into the form the evaluator
// accepts. It strips whitespace, rewrites ^ to ** (govaluate reserves ^ for
// bitwise XOR), and substitutes pi/π and standalone e with decimal literals.
// Normalization is deterministic and idempotent.
func Normalize(text string) string {
	var b strings.Builder
	runes := []rune(stripSpace(text))

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '^' {
			b.WriteString("**")
			continue
		}
		if r == 'π' {
			b.WriteString(formatConstant(constants["pi"]))
			continue
		}
		if !unicode.IsLetter(r) {
			b.WriteRune(r)
			continue
		}

		// Collect the full letter run so "e" inside "exp" is never touched.
		j := i
		for j < len(runes) && unicode.IsLetter(runes[j]) {
			j++
		}
		word := string(runes[i:j])

		if val, ok := constants[word]; ok && !adjacentToDigit(runes, i, j) {
			b.WriteString(formatConstant(val))
		} else {
			b.WriteString(word)
		}
		i = j - 1
	}

	return b.String()
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// adjacentToDigit reports whether the letter run runes[i:j] touches a digit.
// A run like the "e" in "2e3" is scientific notation, not the constant.
func adjacentToDigit(runes []rune, i, j int) bool {
	if i > 0 && unicode.IsDigit(runes[i-1]) {
		return true
	}
	if j < len(runes) && unicode.IsDigit(runes[j]) {
		return true
	}
	return false
}

func formatConstant(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
