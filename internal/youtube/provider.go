package youtube

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/baropoint-debug/youtube-downloader-supabase/internal/retry"
)

// Sentinel errors for provider operations.
var (
	ErrProviderUnavailable = errors.New("youtube: provider unavailable")
	ErrVideoNotFound       = errors.New("youtube: video not found")
)

// Provider is the primary search/metadata backend.
type Provider interface {
	// SearchVideos runs a single video search call.
	SearchVideos(ctx context.Context, q VideoQuery) (*ProviderPage, error)

	// SearchChannels runs a channel-type search for the given text.
	SearchChannels(ctx context.Context, query string, maxResults int64) ([]ChannelCandidate, error)

	// VideoDetails fetches snippet/contentDetails/statistics for a video.
	// Returns ErrVideoNotFound when the provider reports no matching item.
	VideoDetails(ctx context.Context, id string) (*VideoDetails, error)
}

// ProviderError wraps provider call failures with the operation that failed.
type ProviderError struct {
	Op  string
	Err error
}

// Error returns a string representation of the provider error.
func (e *ProviderError) Error() string {
	return "youtube: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *ProviderError) Unwrap() error { return e.Err }

// DataAPIProvider implements Provider using YouTube Data API v3.
// All calls go through a retry loop and a shared circuit breaker; an open
// circuit surfaces as ErrProviderUnavailable so callers degrade to their
// fallback path.
type DataAPIProvider struct {
	service *ytapi.Service
	breaker *Breaker
	retry   retry.Config
	log     zerolog.Logger
}

// NewDataAPIProvider creates a Data API v3-backed provider.
func NewDataAPIProvider(ctx context.Context, apiKey string, retryCfg retry.Config, logger zerolog.Logger) (*DataAPIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube: api key required")
	}

	service, err := ytapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &DataAPIProvider{
		service: service,
		breaker: NewBreaker(BreakerConfig{IsTransientError: isTransientProviderError}),
		retry:   retryCfg,
		log:     logger,
	}, nil
}

// SearchVideos runs one search.list call with type=video.
func (p *DataAPIProvider) SearchVideos(ctx context.Context, q VideoQuery) (*ProviderPage, error) {
	var page *ProviderPage

	err := p.guard(ctx, func(ctx context.Context) error {
		call := p.service.Search.List([]string{"id", "snippet"}).
			Q(q.Query).
			Type("video").
			MaxResults(q.MaxResults).
			Order(q.Order).
			Context(ctx)

		if q.PageToken != "" {
			call = call.PageToken(q.PageToken)
		}
		if q.ChannelID != "" {
			call = call.ChannelId(q.ChannelID)
		}
		if q.License != "" {
			call = call.VideoLicense(q.License)
		}
		if q.DurationBucket != "" {
			call = call.VideoDuration(q.DurationBucket)
		}

		resp, err := call.Do()
		if err != nil {
			return err
		}
		page = videoPageFromResponse(resp)
		return nil
	})
	if err != nil {
		return nil, &ProviderError{Op: "search videos", Err: err}
	}
	return page, nil
}

// SearchChannels runs one search.list call with type=channel.
func (p *DataAPIProvider) SearchChannels(ctx context.Context, query string, maxResults int64) ([]ChannelCandidate, error) {
	var candidates []ChannelCandidate

	err := p.guard(ctx, func(ctx context.Context) error {
		call := p.service.Search.List([]string{"id", "snippet"}).
			Q(query).
			Type("channel").
			MaxResults(maxResults).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			return err
		}

		candidates = candidates[:0]
		for _, item := range resp.Items {
			if item.Id == nil || item.Id.Kind != "youtube#channel" || item.Snippet == nil {
				continue
			}
			c := ChannelCandidate{
				ID:          item.Id.ChannelId,
				Title:       item.Snippet.Title,
				Description: item.Snippet.Description,
			}
			if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
				c.Thumbnail = item.Snippet.Thumbnails.Default.Url
			}
			candidates = append(candidates, c)
		}
		return nil
	})
	if err != nil {
		return nil, &ProviderError{Op: "search channels", Err: err}
	}
	return candidates, nil
}

// VideoDetails runs one videos.list call for the given video id.
func (p *DataAPIProvider) VideoDetails(ctx context.Context, id string) (*VideoDetails, error) {
	var details *VideoDetails

	err := p.guard(ctx, func(ctx context.Context) error {
		call := p.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
			Id(id).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			return err
		}
		if len(resp.Items) == 0 {
			return ErrVideoNotFound
		}
		details = videoDetailsFromItem(resp.Items[0])
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, &ProviderError{Op: "video details", Err: err}
	}
	return details, nil
}

// guard wraps a provider call with the circuit breaker and retry loop.
func (p *DataAPIProvider) guard(ctx context.Context, fn func(context.Context) error) error {
	if err := p.breaker.Allow(); err != nil {
		p.log.Warn().Msg("provider circuit open, failing fast")
		return err
	}

	err := retry.Do(ctx, p.retry, providerErrorClassifier, fn)
	p.breaker.Record(err)
	return err
}

func videoPageFromResponse(resp *ytapi.SearchListResponse) *ProviderPage {
	page := &ProviderPage{
		NextPageToken: resp.NextPageToken,
		PrevPageToken: resp.PrevPageToken,
	}
	if resp.PageInfo != nil {
		page.TotalResults = resp.PageInfo.TotalResults
	}
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.Kind != "youtube#video" || item.Snippet == nil {
			continue
		}
		it := SearchItem{
			VideoID:      item.Id.VideoId,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelID:    item.Snippet.ChannelId,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Medium != nil {
			it.Thumbnail = item.Snippet.Thumbnails.Medium.Url
		}
		page.Items = append(page.Items, it)
	}
	return page
}

func videoDetailsFromItem(item *ytapi.Video) *VideoDetails {
	d := &VideoDetails{
		ID:           item.Id,
		ViewCount:    "0",
		LikeCount:    "0",
		CommentCount: "0",
	}
	if item.Snippet != nil {
		d.Title = item.Snippet.Title
		d.Description = item.Snippet.Description
		d.ChannelID = item.Snippet.ChannelId
		d.ChannelTitle = item.Snippet.ChannelTitle
		d.PublishedAt = item.Snippet.PublishedAt
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
			d.Thumbnail = item.Snippet.Thumbnails.High.Url
		}
	}
	if item.ContentDetails != nil {
		d.DurationISO = item.ContentDetails.Duration
	}
	if item.Statistics != nil {
		d.ViewCount = strconv.FormatUint(item.Statistics.ViewCount, 10)
		d.LikeCount = strconv.FormatUint(item.Statistics.LikeCount, 10)
		d.CommentCount = strconv.FormatUint(item.Statistics.CommentCount, 10)
	}
	return d
}

// providerErrorClassifier determines if a provider error is retryable.
func providerErrorClassifier(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrVideoNotFound) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// Quota and rate limit errors clear up on their own.
	if strings.Contains(err.Error(), "quotaExceeded") {
		return true
	}
	if strings.Contains(err.Error(), "rateLimitExceeded") {
		return true
	}
	return true
}

// isTransientProviderError reports whether an error should count against
// the circuit breaker.
func isTransientProviderError(err error) bool {
	return !errors.Is(err, ErrVideoNotFound)
}

// UnconfiguredProvider is used when no API key is set. Every call fails
// with ErrProviderUnavailable, which routes search to the mock fallback
// and metadata fetches to the extraction backend.
type UnconfiguredProvider struct{}

// SearchVideos always fails with ErrProviderUnavailable.
func (UnconfiguredProvider) SearchVideos(context.Context, VideoQuery) (*ProviderPage, error) {
	return nil, ErrProviderUnavailable
}

// SearchChannels always fails with ErrProviderUnavailable.
func (UnconfiguredProvider) SearchChannels(context.Context, string, int64) ([]ChannelCandidate, error) {
	return nil, ErrProviderUnavailable
}

// VideoDetails always fails with ErrProviderUnavailable.
func (UnconfiguredProvider) VideoDetails(context.Context, string) (*VideoDetails, error) {
	return nil, ErrProviderUnavailable
}
