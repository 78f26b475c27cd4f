package youtube

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const resolverMaxCandidates = 5

// Resolver maps free-text channel names to channel ids.
//
// Resolved names are cached for the life of the process; there is no TTL
// and no eviction, and two display names normalizing to the same lowercase
// key overwrite each other (last writer wins). Access is mutex-guarded so
// concurrent requests only ever observe a stale mapping, never a torn one.
type Resolver struct {
	provider Provider
	log      zerolog.Logger

	mu    sync.Mutex
	cache map[string]string
}

// NewResolver creates a channel resolver over the given provider.
func NewResolver(provider Provider, logger zerolog.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		log:      logger,
		cache:    make(map[string]string),
	}
}

// ResolveChannelID maps a channel display name to its id, or "" when the
// provider call fails or yields no candidates.
//
// Every scanned candidate is cached under its own lowercase title. An exact
// case-insensitive title match returns immediately; otherwise the first
// candidate's id is returned without caching it under the queried name.
func (r *Resolver) ResolveChannelID(ctx context.Context, name string) string {
	key := strings.ToLower(name)

	r.mu.Lock()
	if id, ok := r.cache[key]; ok {
		r.mu.Unlock()
		r.log.Debug().Str("channel", name).Str("channel_id", id).Msg("channel cache hit")
		return id
	}
	r.mu.Unlock()

	candidates, err := r.provider.SearchChannels(ctx, name, resolverMaxCandidates)
	if err != nil {
		r.log.Warn().Err(err).Str("channel", name).Msg("channel search failed")
		return ""
	}
	if len(candidates) == 0 {
		r.log.Debug().Str("channel", name).Msg("no channel candidates")
		return ""
	}

	for _, c := range candidates {
		r.mu.Lock()
		r.cache[strings.ToLower(c.Title)] = c.ID
		r.mu.Unlock()

		if strings.EqualFold(c.Title, name) {
			r.log.Debug().Str("channel", c.Title).Str("channel_id", c.ID).Msg("exact channel match")
			return c.ID
		}
	}

	// No exact match: best-effort first candidate, deliberately not cached
	// under the queried name.
	first := candidates[0]
	r.log.Debug().Str("channel", name).Str("matched", first.Title).Str("channel_id", first.ID).
		Msg("no exact channel match, using first candidate")
	return first.ID
}

// CacheSize returns the number of cached channel mappings.
func (r *Resolver) CacheSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}
