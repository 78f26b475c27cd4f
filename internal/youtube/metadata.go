package youtube

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/baropoint-debug/youtube-downloader-supabase/internal/ytdlp"
)

// descriptionLimit is the truncation threshold for full metadata records.
const descriptionLimit = 200

// ErrMetadataUnavailable is returned when both the primary provider and
// the extraction backend fail to produce metadata for a video.
var ErrMetadataUnavailable = errors.New("youtube: metadata unavailable")

// Extractor is the fallback metadata source, satisfied by *ytdlp.Client.
type Extractor interface {
	Probe(ctx context.Context, url string) (*ytdlp.Metadata, error)
}

// MetadataFetcher retrieves video metadata, preferring the Data API and
// falling back to the extraction backend.
type MetadataFetcher struct {
	provider  Provider
	extractor Extractor
	log       zerolog.Logger
}

// NewMetadataFetcher creates a metadata fetcher.
func NewMetadataFetcher(provider Provider, extractor Extractor, logger zerolog.Logger) *MetadataFetcher {
	return &MetadataFetcher{provider: provider, extractor: extractor, log: logger}
}

// FetchByURL retrieves metadata for a video URL. The primary API path is
// tried when a video id can be extracted; any failure (or an unrecognized
// URL shape) falls back to the extraction backend.
func (f *MetadataFetcher) FetchByURL(ctx context.Context, url string) (*VideoRecord, error) {
	if id := ExtractVideoID(url); id != "" {
		rec, err := f.FetchByID(ctx, id)
		if err == nil {
			return rec, nil
		}
		f.log.Debug().Err(err).Str("video_id", id).Msg("primary metadata path failed, trying extractor")
	}

	meta, err := f.extractor.Probe(ctx, url)
	if err != nil {
		f.log.Warn().Err(err).Str("url", url).Msg("extractor probe failed")
		return nil, ErrMetadataUnavailable
	}
	return recordFromProbe(url, meta), nil
}

// FetchByID retrieves metadata via the primary provider only.
func (f *MetadataFetcher) FetchByID(ctx context.Context, id string) (*VideoRecord, error) {
	d, err := f.provider.VideoDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	seconds := ParseDuration(d.DurationISO)
	return &VideoRecord{
		Title:        d.Title,
		Duration:     FormatDuration(seconds),
		URL:          "https://www.youtube.com/watch?v=" + id,
		Thumbnail:    d.Thumbnail,
		Description:  truncate(d.Description, descriptionLimit),
		ChannelTitle: d.ChannelTitle,
		ChannelID:    d.ChannelID,
		ViewCount:    d.ViewCount,
		LikeCount:    d.LikeCount,
		CommentCount: d.CommentCount,
		UploadDate:   uploadDate(d.PublishedAt),
	}, nil
}

// recordFromProbe maps extraction-backend metadata onto a VideoRecord.
func recordFromProbe(url string, meta *ytdlp.Metadata) *VideoRecord {
	title := meta.Title
	if title == "" {
		title = "Unknown Title"
	}
	channel := meta.Uploader
	if channel == "" {
		channel = "Unknown Channel"
	}
	return &VideoRecord{
		Title:        title,
		Duration:     FormatDuration(int(meta.Duration)),
		URL:          url,
		Thumbnail:    meta.Thumbnail,
		Description:  truncate(meta.Description, descriptionLimit),
		ChannelTitle: channel,
		ViewCount:    strconv.FormatInt(meta.ViewCount, 10),
		LikeCount:    strconv.FormatInt(meta.LikeCount, 10),
		CommentCount: strconv.FormatInt(meta.CommentCount, 10),
		UploadDate:   normalizeUploadDate(meta.UploadDate),
	}
}

// truncate shortens s to limit runes, appending "..." only when
// truncation actually occurred.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// uploadDate reduces an RFC 3339 publish timestamp to "YYYY-MM-DD".
func uploadDate(publishedAt string) string {
	if len(publishedAt) < 10 {
		return publishedAt
	}
	return publishedAt[:10]
}

// normalizeUploadDate converts yt-dlp's "YYYYMMDD" form to "YYYY-MM-DD".
func normalizeUploadDate(d string) string {
	if len(d) != 8 {
		return d
	}
	return d[:4] + "-" + d[4:6] + "-" + d[6:]
}
