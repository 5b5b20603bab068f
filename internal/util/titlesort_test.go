package util

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaturalSortLess(t *testing.T) {
	testCases := []struct {
		s1, s2   string
		expected bool
	}{
		{"Season 2", "Season 10", true},
		{"Season 10", "Season 2", false},
		{"24", "Dark", true},
		{"Dark", "24", false},
		{"9-1-1", "9-1-1: Lone Star", true},
		{"apple", "Banana", true},
		{"Banana", "apple", false},
		{"Cosmos", "Cosmos", false},
	}
	for _, tc := range testCases {
		if result := NaturalSortLess(tc.s1, tc.s2); result != tc.expected {
			t.Errorf("NaturalSortLess(%q, %q) = %v; want %v", tc.s1, tc.s2, result, tc.expected)
		}
	}
}

func TestSortTitle(t *testing.T) {
	assert.Equal(t, "Expanse", SortTitle("The Expanse"))
	assert.Equal(t, "Quiet Place", SortTitle("A Quiet Place"))
	assert.Equal(t, "Officer and a Gentleman", SortTitle("An Officer and a Gentleman"))
	assert.Equal(t, "Theodore", SortTitle("Theodore"))
	assert.Equal(t, "The", SortTitle("The"))
	assert.Equal(t, "Severance", SortTitle("  Severance "))
}

func TestTitleSortLess_OrdersLibrary(t *testing.T) {
	titles := []string{"The Wire", "Andor", "Severance", "The Bear", "A Man Called Otto", "Babylon 5", "Babylon 10"}
	sort.SliceStable(titles, func(i, j int) bool { return TitleSortLess(titles[i], titles[j]) })
	assert.Equal(t, []string{"Andor", "Babylon 5", "Babylon 10", "The Bear", "A Man Called Otto", "Severance", "The Wire"}, titles)
}
