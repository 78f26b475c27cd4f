package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/baropoint-debug/youtube-downloader-supabase/internal/download"
	"github.com/baropoint-debug/youtube-downloader-supabase/internal/store"
	"github.com/baropoint-debug/youtube-downloader-supabase/internal/ytdlp"
	"github.com/baropoint-debug/youtube-downloader-supabase/internal/youtube"
)

// fakeProvider is a scriptable youtube.Provider with call counters.
type fakeProvider struct {
	searchVideos   func(q youtube.VideoQuery) (*youtube.ProviderPage, error)
	searchChannels func(query string) ([]youtube.ChannelCandidate, error)
	videoDetails   func(id string) (*youtube.VideoDetails, error)

	searchVideoCalls   int
	searchChannelCalls int
	videoDetailCalls   int
}

func (f *fakeProvider) SearchVideos(ctx context.Context, q youtube.VideoQuery) (*youtube.ProviderPage, error) {
	f.searchVideoCalls++
	if f.searchVideos == nil {
		return &youtube.ProviderPage{}, nil
	}
	return f.searchVideos(q)
}

func (f *fakeProvider) SearchChannels(ctx context.Context, query string, maxResults int64) ([]youtube.ChannelCandidate, error) {
	f.searchChannelCalls++
	if f.searchChannels == nil {
		return nil, nil
	}
	return f.searchChannels(query)
}

func (f *fakeProvider) VideoDetails(ctx context.Context, id string) (*youtube.VideoDetails, error) {
	f.videoDetailCalls++
	if f.videoDetails == nil {
		return nil, errors.New("no video details scripted")
	}
	return f.videoDetails(id)
}

// fakeExtractor satisfies download.Extractor.
type fakeExtractor struct {
	probe    func(url string) (*ytdlp.Metadata, error)
	download func(url string) error
}

func (f *fakeExtractor) Probe(ctx context.Context, url string) (*ytdlp.Metadata, error) {
	if f.probe == nil {
		return nil, errors.New("no probe scripted")
	}
	return f.probe(url)
}

func (f *fakeExtractor) Download(ctx context.Context, url, dir, format string, overwrite bool) error {
	if f.download == nil {
		return nil
	}
	return f.download(url)
}

// memStore is an in-memory store.Store for handler tests.
type memStore struct {
	connected bool
	nextID    int
	users     map[string]*store.User
	jobs      map[string]*store.DownloadJob
	favorites map[string][]store.Favorite
	history   map[string][]store.HistoryEntry
}

func newMemStore() *memStore {
	return &memStore{
		connected: true,
		users:     make(map[string]*store.User),
		jobs:      make(map[string]*store.DownloadJob),
		favorites: make(map[string][]store.Favorite),
		history:   make(map[string][]store.HistoryEntry),
	}
}

func (m *memStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memStore) Connected() bool { return m.connected }

func (m *memStore) CreateUser(ctx context.Context, email, name string) (*store.User, error) {
	if !m.connected {
		return nil, store.ErrUnavailable
	}
	u := &store.User{ID: m.id("user"), Email: email, Name: name, CreatedAt: time.Now()}
	m.users[email] = u
	return u, nil
}

func (m *memStore) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	if !m.connected {
		return nil, store.ErrUnavailable
	}
	u, ok := m.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (m *memStore) CreateDownloadJob(ctx context.Context, job *store.DownloadJob) (*store.DownloadJob, error) {
	if !m.connected {
		return nil, store.ErrUnavailable
	}
	job.ID = m.id("job")
	m.jobs[job.ID] = job
	return job, nil
}

func (m *memStore) UpdateDownloadJob(ctx context.Context, id string, upd store.JobUpdate) error {
	job, ok := m.jobs[id]
	if !ok {
		return store.ErrNotFound
	}
	job.Status = upd.Status
	job.DownloadPath = upd.DownloadPath
	job.FileSize = upd.FileSize
	job.FileFormat = upd.FileFormat
	job.ErrorMessage = upd.ErrorMessage
	job.CompletedAt = upd.CompletedAt
	return nil
}

func (m *memStore) GetDownloadJob(ctx context.Context, id string) (*store.DownloadJob, error) {
	if !m.connected {
		return nil, store.ErrUnavailable
	}
	job, ok := m.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return job, nil
}

func (m *memStore) ListUserJobs(ctx context.Context, userID string, limit, offset int) ([]store.DownloadJob, error) {
	if !m.connected {
		return nil, store.ErrUnavailable
	}
	jobs := []store.DownloadJob{}
	for _, j := range m.jobs {
		if j.UserID == userID {
			jobs = append(jobs, *j)
		}
	}
	return jobs, nil
}

func (m *memStore) CreateHistory(ctx context.Context, userID, jobID string) error {
	m.history[userID] = append(m.history[userID], store.HistoryEntry{
		ID: m.id("hist"), UserID: userID, JobID: jobID, CreatedAt: time.Now(),
	})
	return nil
}

func (m *memStore) ListUserHistory(ctx context.Context, userID string, limit, offset int) ([]store.HistoryEntry, error) {
	if !m.connected {
		return nil, store.ErrUnavailable
	}
	entries := m.history[userID]
	if entries == nil {
		entries = []store.HistoryEntry{}
	}
	return entries, nil
}

func (m *memStore) AddFavorite(ctx context.Context, fav *store.Favorite) (*store.Favorite, error) {
	if !m.connected {
		return nil, store.ErrUnavailable
	}
	fav.ID = m.id("fav")
	fav.CreatedAt = time.Now()
	m.favorites[fav.UserID] = append(m.favorites[fav.UserID], *fav)
	return fav, nil
}

func (m *memStore) ListFavorites(ctx context.Context, userID string) ([]store.Favorite, error) {
	if !m.connected {
		return nil, store.ErrUnavailable
	}
	favs := m.favorites[userID]
	if favs == nil {
		favs = []store.Favorite{}
	}
	return favs, nil
}

func (m *memStore) RemoveFavorite(ctx context.Context, userID, videoURL string) error {
	if !m.connected {
		return store.ErrUnavailable
	}
	kept := m.favorites[userID][:0]
	for _, f := range m.favorites[userID] {
		if f.VideoURL != videoURL {
			kept = append(kept, f)
		}
	}
	m.favorites[userID] = kept
	return nil
}

type testEnv struct {
	provider *fakeProvider
	store    *memStore
	handler  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	provider := &fakeProvider{}
	st := newMemStore()
	extractor := &fakeExtractor{}
	logger := zerolog.Nop()

	resolver := youtube.NewResolver(provider, logger)
	fetcher := youtube.NewMetadataFetcher(provider, extractor, logger)
	orchestrator := youtube.NewOrchestrator(provider, resolver, fetcher, logger)
	coordinator := download.NewCoordinator(extractor, fetcher, st, logger)

	srv := NewServer(Options{
		Search:         orchestrator,
		Fetcher:        fetcher,
		Provider:       provider,
		Coordinator:    coordinator,
		Store:          st,
		DownloadFolder: t.TempDir(),
		ProviderReady:  true,
		Logger:         logger,
	})

	return &testEnv{provider: provider, store: st, handler: srv.Routes()}
}

// doJSON issues a request with a JSON body and decodes the JSON response.
func (e *testEnv) doJSON(t *testing.T, method, path string, body any) (int, map[string]json.RawMessage) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &decoded))
	return rr.Code, decoded
}
