package youtube

import (
	"context"
	"errors"

	"github.com/baropoint-debug/youtube-downloader-supabase/internal/ytdlp"
)

// fakeProvider is a scriptable Provider with call counters.
type fakeProvider struct {
	searchVideos   func(ctx context.Context, q VideoQuery) (*ProviderPage, error)
	searchChannels func(ctx context.Context, query string, maxResults int64) ([]ChannelCandidate, error)
	videoDetails   func(ctx context.Context, id string) (*VideoDetails, error)

	searchVideoCalls   int
	searchChannelCalls int
	videoDetailCalls   int
}

func (f *fakeProvider) SearchVideos(ctx context.Context, q VideoQuery) (*ProviderPage, error) {
	f.searchVideoCalls++
	if f.searchVideos == nil {
		return &ProviderPage{}, nil
	}
	return f.searchVideos(ctx, q)
}

func (f *fakeProvider) SearchChannels(ctx context.Context, query string, maxResults int64) ([]ChannelCandidate, error) {
	f.searchChannelCalls++
	if f.searchChannels == nil {
		return nil, nil
	}
	return f.searchChannels(ctx, query, maxResults)
}

func (f *fakeProvider) VideoDetails(ctx context.Context, id string) (*VideoDetails, error) {
	f.videoDetailCalls++
	if f.videoDetails == nil {
		return nil, errors.New("no video details scripted")
	}
	return f.videoDetails(ctx, id)
}

// fakeExtractor is a scriptable metadata Extractor.
type fakeExtractor struct {
	probe      func(ctx context.Context, url string) (*ytdlp.Metadata, error)
	probeCalls int
}

func (f *fakeExtractor) Probe(ctx context.Context, url string) (*ytdlp.Metadata, error) {
	f.probeCalls++
	if f.probe == nil {
		return nil, errors.New("no probe scripted")
	}
	return f.probe(ctx, url)
}
