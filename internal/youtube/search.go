package youtube

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

const (
	defaultMaxResults = 50

	// partialDescriptionLimit applies when hydration fails and a record is
	// synthesized from the raw search result.
	partialDescriptionLimit = 100
)

// ErrEmptyQuery is the validation error for a search with neither a query
// nor a channel filter.
var ErrEmptyQuery = errors.New("youtube: query or channel filter required")

// Orchestrator runs the full search pipeline: validation, URL
// short-circuit, channel resolution, optional duration fan-out,
// post-filtering, and per-result hydration.
type Orchestrator struct {
	provider Provider
	resolver *Resolver
	fetcher  *MetadataFetcher
	log      zerolog.Logger
}

// NewOrchestrator creates a search orchestrator.
func NewOrchestrator(provider Provider, resolver *Resolver, fetcher *MetadataFetcher, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		resolver: resolver,
		fetcher:  fetcher,
		log:      logger,
	}
}

// Search handles one logical search request. Provider failures degrade the
// entire request to the deterministic mock page; the only error returned
// is ErrEmptyQuery.
func (o *Orchestrator) Search(ctx context.Context, req SearchRequest) (*SearchPage, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" && req.ChannelFilter == "" {
		return nil, ErrEmptyQuery
	}

	// A query that is itself a video URL skips provider search entirely.
	// A failed fetch yields an empty page here, not the mock fallback.
	if query != "" && IsValidVideoURL(query) {
		rec, err := o.fetcher.FetchByURL(ctx, query)
		if err != nil {
			return &SearchPage{Results: []VideoRecord{}}, nil
		}
		return &SearchPage{Results: []VideoRecord{*rec}, TotalResults: 1}, nil
	}

	page, err := o.searchProvider(ctx, query, req)
	if err != nil {
		o.log.Warn().Err(err).Str("query", query).Msg("provider search failed, serving mock results")
		return MockPage(query), nil
	}
	return page, nil
}

func (o *Orchestrator) searchProvider(ctx context.Context, query string, req SearchRequest) (*SearchPage, error) {
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	searchQuery := query
	channelID := ""
	filterByChannel := false
	if req.ChannelFilter != "" {
		filterByChannel = true
		channelID = o.resolver.ResolveChannelID(ctx, req.ChannelFilter)
		if channelID != "" {
			if query != "" {
				searchQuery = query + " channel:" + channelID
			} else {
				searchQuery = req.ChannelFilter
			}
		} else if query == "" {
			searchQuery = req.ChannelFilter
		}
	}

	license := ""
	if req.CreativeCommons {
		license = "creativeCommon"
	}

	base := VideoQuery{
		Query:      searchQuery,
		MaxResults: maxResults,
		Order:      mapSortOrder(req.SortBy),
		ChannelID:  channelID,
		License:    license,
		PageToken:  req.PageToken,
	}

	var (
		items      []SearchItem
		next, prev string
		total      int64
	)
	if len(req.DurationFilters) > 0 {
		fanned, last, err := o.fanOutDurations(ctx, base, req.DurationFilters, maxResults)
		if err != nil {
			return nil, err
		}
		total = int64(len(fanned))
		if int64(len(fanned)) > maxResults {
			fanned = fanned[:maxResults]
		}
		items = fanned
		next, prev = last.NextPageToken, last.PrevPageToken
	} else {
		page, err := o.provider.SearchVideos(ctx, base)
		if err != nil {
			return nil, err
		}
		items = page.Items
		next, prev = page.NextPageToken, page.PrevPageToken
		total = page.TotalResults
	}

	results := make([]VideoRecord, 0, len(items))
	for _, it := range items {
		if filterByChannel && !matchesChannel(it, channelID, req.ChannelFilter) {
			continue
		}

		rec, err := o.fetcher.FetchByID(ctx, it.VideoID)
		if err != nil {
			results = append(results, partialRecord(it))
			continue
		}
		results = append(results, *rec)
	}

	return &SearchPage{
		Results:       results,
		NextPageToken: next,
		PrevPageToken: prev,
		TotalResults:  total,
	}, nil
}

// fanOutDurations issues one search per duration bucket and merges the
// results, deduplicated by video id with first occurrence winning. The
// returned page is the last bucket's response; its cursors are the ones
// surfaced to the caller.
func (o *Orchestrator) fanOutDurations(ctx context.Context, base VideoQuery, buckets []string, maxResults int64) ([]SearchItem, *ProviderPage, error) {
	perBucket := ceilDiv(maxResults, int64(len(buckets))) + 10

	var merged []SearchItem
	seen := make(map[string]bool)
	var last *ProviderPage

	for _, bucket := range buckets {
		q := base
		q.DurationBucket = bucket
		q.MaxResults = perBucket

		page, err := o.provider.SearchVideos(ctx, q)
		if err != nil {
			return nil, nil, err
		}
		for _, it := range page.Items {
			if seen[it.VideoID] {
				continue
			}
			seen[it.VideoID] = true
			merged = append(merged, it)
		}
		last = page
	}

	return merged, last, nil
}

// matchesChannel applies the post-hoc channel filter: by id when the
// resolver found one, otherwise by exact case-insensitive title.
func matchesChannel(it SearchItem, channelID, channelFilter string) bool {
	if channelID != "" {
		return it.ChannelID == channelID
	}
	return strings.EqualFold(it.ChannelTitle, channelFilter)
}

// partialRecord synthesizes a record from raw search-result fields when
// hydration fails. The description is hard-truncated with an ellipsis
// always appended, matching the degraded-path presentation.
func partialRecord(it SearchItem) VideoRecord {
	desc := []rune(it.Description)
	if len(desc) > partialDescriptionLimit {
		desc = desc[:partialDescriptionLimit]
	}
	return VideoRecord{
		Title:        it.Title,
		Duration:     "0:00",
		URL:          "https://www.youtube.com/watch?v=" + it.VideoID,
		Thumbnail:    it.Thumbnail,
		Description:  string(desc) + "...",
		ChannelTitle: it.ChannelTitle,
		ViewCount:    "0",
		UploadDate:   uploadDate(it.PublishedAt),
	}
}

// mapSortOrder maps the caller-facing sort key to a provider order value.
func mapSortOrder(sortBy string) string {
	switch sortBy {
	case "date", "rating", "viewCount", "title":
		return sortBy
	default:
		return "relevance"
	}
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
