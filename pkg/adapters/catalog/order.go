package catalog

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/mod/semver"
)

// CompareVersions orders version strings. Valid semantic versions compare by semver
// precedence; anything else (Parchment dates, legacy Forge builds) compares
// numerically segment by segment.
func CompareVersions(a, b string) int {
	va, vb := "v"+a, "v"+b
	if semver.IsValid(va) && semver.IsValid(vb) {
		return semver.Compare(va, vb)
	}
	return compareSegments(a, b)
}

// SortNewestFirst sorts versions in place, newest first. Equal versions keep their
// relative order.
func SortNewestFirst(versions []string) {
	slices.SortStableFunc(versions, func(a, b string) int {
		return CompareVersions(b, a)
	})
}

func compareSegments(a, b string) int {
	sa, sb := numericSegments(a), numericSegments(b)
	for i := 0; i < max(len(sa), len(sb)); i++ {
		var x, y int
		if i < len(sa) {
			x = sa[i]
		}
		if i < len(sb) {
			y = sb[i]
		}
		if c := cmp.Compare(x, y); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

func numericSegments(s string) []int {
	fields := strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

func sortByKey(versions []string, keys map[string]string) {
	slices.SortStableFunc(versions, func(a, b string) int {
		return CompareVersions(keys[b], keys[a])
	})
}
