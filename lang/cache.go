package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/saiyan/lang/ast"
)

// maxCacheEntries bounds the parse cache. Storing an entry beyond the bound
// discards every cached program first.
//
//nolint:gochecknoglobals
var maxCacheEntries int64 = 1024

// parseCache maps a source hash to its *cacheEntry. Programs are never
// modified after parsing, so one tree can back any number of evaluations.
//
//nolint:gochecknoglobals
var (
	parseCache sync.Map
	cacheSize  atomic.Int64
)

type cacheEntry struct {
	once sync.Once
	prog *ast.Program
	err  error
}

func cacheKey(src string) string {
	return strconv.FormatUint(xxh3.HashString(src), 36)
}

func parseCached(ctx context.Context, src string, cfg config) (*ast.Program, error) {
	key := cacheKey(src)

	v, hit := parseCache.Load(key)
	if !hit {
		if cacheSize.Load() >= maxCacheEntries {
			cfg.logger.DebugContext(ctx, "parse cache full",
				slog.Int64("entries", cacheSize.Load()))
			ClearCache()
		}

		var loaded bool
		if v, loaded = parseCache.LoadOrStore(key, new(cacheEntry)); !loaded {
			cacheSize.Add(1)
		}
	}

	entry, _ := v.(*cacheEntry)

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", key),
		slog.Bool("hit", hit))

	entry.once.Do(func() { entry.prog, entry.err = parse(ctx, src, cfg) })

	return entry.prog, entry.err
}

// ClearCache discards every cached parse.
func ClearCache() {
	parseCache.Clear()
	cacheSize.Store(0)
}
