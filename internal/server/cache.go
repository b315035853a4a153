package server

import (
	"slices"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jonathan/mindtype/internal/catalog"
	"github.com/jonathan/mindtype/internal/metrics"
	"github.com/jonathan/mindtype/internal/types"
)

// cacheKey identifies a classification: the snapshot it ran against plus its canonical input.
type cacheKey struct {
	cat   *catalog.Catalog
	input string
	debug bool
}

// resultCache memoizes classification results. Results are shared between callers and must
// not be mutated.
type resultCache struct {
	lru *lru.Cache[cacheKey, *types.ClassificationResult]
}

func newResultCache(size int) (*resultCache, error) {
	c, err := lru.New[cacheKey, *types.ClassificationResult](size)
	if err != nil {
		return nil, err
	}
	return &resultCache{lru: c}, nil
}

func (c *resultCache) get(key cacheKey) (*types.ClassificationResult, bool) {
	result, ok := c.lru.Get(key)
	if ok {
		metrics.ResultCacheLookups.WithLabelValues("hit").Inc()
	} else {
		metrics.ResultCacheLookups.WithLabelValues("miss").Inc()
	}
	return result, ok
}

func (c *resultCache) add(key cacheKey, result *types.ClassificationResult) {
	c.lru.Add(key, result)
}

func (c *resultCache) purge() {
	c.lru.Purge()
}

func (c *resultCache) len() int {
	return c.lru.Len()
}

// canonicalInput renders selections with categories in ascending order and keyword order kept,
// so equal inputs share a cache entry regardless of map iteration order.
func canonicalInput(input types.SelectionInput) string {
	ids := make([]int, 0, len(input))
	for id := range input {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(strconv.Itoa(id))
		sb.WriteByte(':')
		for j, kw := range input[id] {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(kw))
		}
	}
	return sb.String()
}
