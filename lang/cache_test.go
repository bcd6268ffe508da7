package lang

import (
	"strconv"
	"strings"
	"testing"
)

func TestParseReader_CacheBound(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	limit := maxCacheEntries
	maxCacheEntries = 4
	t.Cleanup(func() { maxCacheEntries = limit })

	parse := func(src string) {
		t.Helper()

		if _, err := ParseReader(t.Context(), strings.NewReader(src)); err != nil {
			t.Fatal(err)
		}
	}

	for i := range 4 {
		parse(strconv.Itoa(i))
	}

	parse("0")

	if n := cacheSize.Load(); n != 4 {
		t.Fatalf("entries after a hit = %d, want 4", n)
	}

	parse("4")

	if n := cacheSize.Load(); n != 1 {
		t.Errorf("entries after overflow = %d, want 1", n)
	}

	if _, ok := parseCache.Load(cacheKey("0")); ok {
		t.Error("entry survived overflow")
	}
}
