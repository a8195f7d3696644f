package channel

import (
	"fmt"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mitchellh/hashstructure/v2"
)

// NewDedupeFunc returns a predicate that passes a trace only the first time
// an identical trace (same id and same points) is seen.
// It remembers the most recent size hashes.
func NewDedupeFunc(size int) (func(Trace) bool, error) {
	dedupeCache, err := lru.New[uint64, struct{}](size)
	if err != nil {
		return nil, fmt.Errorf("dedupe cache: %w", err)
	}
	return func(trace Trace) bool {
		hash, err := hashstructure.Hash(trace, hashstructure.FormatV2, nil)
		if err != nil {
			return true
		}
		if _, ok := dedupeCache.Get(hash); ok {
			return false
		}
		dedupeCache.Add(hash, struct{}{})
		return true
	}, nil
}
