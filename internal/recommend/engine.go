// Package recommend picks product recommendations from a catalog.
package recommend

import (
	"math/rand/v2"

	"github.com/actuallystonmai/boutique-recommendation/internal/domain"
)

// Rand is the randomness the engine samples with.
type Rand interface {
	IntN(n int) int
}

// globalRand uses the runtime-seeded top-level source, which is safe for
// concurrent use and gives every goroutine an independent stream.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

type Engine struct {
	rng   Rand
	limit int
}

func NewEngine() *Engine {
	return NewEngineWithRand(globalRand{})
}

func NewEngineWithRand(rng Rand) *Engine {
	return &Engine{rng: rng, limit: domain.MaxResponses}
}

// Recommend returns up to domain.MaxResponses ids drawn uniformly at random,
// without replacement, from catalogIDs minus excludeIDs.
func (e *Engine) Recommend(catalogIDs, excludeIDs []string) []string {
	pool := candidates(catalogIDs, excludeIDs)
	k := min(e.limit, len(pool))

	// Partial Fisher-Yates: after step i, pool[:i+1] is a uniform sample.
	for i := 0; i < k; i++ {
		j := i + e.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// candidates computes the set difference catalog - exclude, keeping the
// catalog's first-seen order and dropping duplicate ids.
func candidates(catalogIDs, excludeIDs []string) []string {
	skip := make(map[string]struct{}, len(excludeIDs)+len(catalogIDs))
	for _, id := range excludeIDs {
		skip[id] = struct{}{}
	}

	out := make([]string, 0, len(catalogIDs))
	for _, id := range catalogIDs {
		if _, ok := skip[id]; ok {
			continue
		}
		skip[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
