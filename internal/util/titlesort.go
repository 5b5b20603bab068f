package util

import (
	"strconv"
	"strings"
	"unicode"
)

type sortToken struct {
	text  string
	num   int
	isNum bool
}

// splitTokens breaks s into alternating runs of digits and non-digits.
// Text runs are lower-cased so comparisons ignore case.
func splitTokens(s string) []sortToken {
	var tokens []sortToken
	runes := []rune(s)
	for start := 0; start < len(runes); {
		digit := unicode.IsDigit(runes[start])
		end := start + 1
		for end < len(runes) && unicode.IsDigit(runes[end]) == digit {
			end++
		}
		part := string(runes[start:end])
		if n, err := strconv.Atoi(part); digit && err == nil {
			tokens = append(tokens, sortToken{num: n, isNum: true})
		} else {
			tokens = append(tokens, sortToken{text: strings.ToLower(part)})
		}
		start = end
	}
	return tokens
}

// NaturalSortLess compares two strings so that embedded numbers sort by
// value: "Season 2" comes before "Season 10".
func NaturalSortLess(s1, s2 string) bool {
	t1 := splitTokens(s1)
	t2 := splitTokens(s2)

	for i := 0; i < min(len(t1), len(t2)); i++ {
		a, b := t1[i], t2[i]
		switch {
		case a.isNum && !b.isNum:
			return true
		case !a.isNum && b.isNum:
			return false
		case a.isNum && a.num != b.num:
			return a.num < b.num
		case !a.isNum && a.text != b.text:
			return a.text < b.text
		}
	}
	return len(t1) < len(t2)
}

var leadingArticles = []string{"the ", "a ", "an "}

// SortTitle returns the key a library title is filed under: leading
// articles are dropped, so "The Expanse" files under "Expanse".
func SortTitle(title string) string {
	t := strings.TrimSpace(title)
	lower := strings.ToLower(t)
	for _, article := range leadingArticles {
		if strings.HasPrefix(lower, article) && len(t) > len(article) {
			return strings.TrimSpace(t[len(article):])
		}
	}
	return t
}

// TitleSortLess orders library titles naturally by their sort key.
func TitleSortLess(a, b string) bool {
	return NaturalSortLess(SortTitle(a), SortTitle(b))
}
