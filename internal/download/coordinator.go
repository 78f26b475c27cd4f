// Package download sequences per-URL download attempts and records job
// state in the relational store.
package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/baropoint-debug/youtube-downloader-supabase/internal/store"
	"github.com/baropoint-debug/youtube-downloader-supabase/internal/youtube"
)

// FormatPreference is the fixed yt-dlp format string: mp4 when available,
// otherwise the provider's overall best.
const FormatPreference = "best[ext=mp4]/best"

// Extractor is the download backend, satisfied by *ytdlp.Client.
type Extractor interface {
	youtube.Extractor
	Download(ctx context.Context, url, dir, format string, overwrite bool) error
}

// Fetcher supplies the metadata snapshot stored with each job.
type Fetcher interface {
	FetchByURL(ctx context.Context, url string) (*youtube.VideoRecord, error)
}

// OutcomeKind classifies a single URL's download attempt.
type OutcomeKind int

const (
	// OutcomeSuccess means the media file was transferred.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeSkipped means the destination file already existed.
	OutcomeSkipped
	// OutcomeError means the transfer failed.
	OutcomeError
)

// Outcome is the tagged result of one download attempt.
type Outcome struct {
	Kind       OutcomeKind
	Filename   string
	Reason     string
	FilePath   string
	FileSize   int64
	FileFormat string
	Err        error
}

// Request is one inbound download request.
type Request struct {
	URLs   []string
	Folder string
	UserID string
}

// FailedURL reports one URL whose download failed.
type FailedURL struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// SkippedFile reports one URL skipped because its file already existed.
type SkippedFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// Result aggregates outcomes across all requested URLs. SuccessCount
// includes skipped files; SkippedCount and SkippedFiles break them out.
type Result struct {
	SuccessCount   int           `json:"success_count"`
	SkippedCount   int           `json:"skipped_count"`
	FailedCount    int           `json:"failed_count"`
	FailedURLs     []FailedURL   `json:"failed_urls"`
	SkippedFiles   []SkippedFile `json:"skipped_files"`
	DownloadFolder string        `json:"download_folder"`
	Message        string        `json:"message"`
	JobIDs         []string      `json:"job_ids"`
}

// Coordinator runs download requests one URL at a time.
type Coordinator struct {
	extractor Extractor
	fetcher   Fetcher
	store     store.Store
	log       zerolog.Logger
}

// NewCoordinator creates a download coordinator.
func NewCoordinator(extractor Extractor, fetcher Fetcher, st store.Store, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		extractor: extractor,
		fetcher:   fetcher,
		store:     st,
		log:       logger,
	}
}

// Run processes every URL in the request sequentially and never aborts
// early on a single URL's failure. The only error returned is a folder
// that cannot be created.
func (c *Coordinator) Run(ctx context.Context, req Request) (*Result, error) {
	folder, err := EnsureFolder(req.Folder)
	if err != nil {
		return nil, fmt.Errorf("create download folder: %w", err)
	}

	res := &Result{
		FailedURLs:     []FailedURL{},
		SkippedFiles:   []SkippedFile{},
		JobIDs:         []string{},
		DownloadFolder: folder,
	}

	for _, url := range req.URLs {
		jobID := c.createJob(ctx, req.UserID, url)
		if jobID != "" {
			res.JobIDs = append(res.JobIDs, jobID)
		}

		out := c.downloadOne(ctx, url, folder)
		switch out.Kind {
		case OutcomeSuccess:
			res.SuccessCount++
			c.finishJob(ctx, req.UserID, jobID, out)
		case OutcomeSkipped:
			// Production aggregation: a skip still counts as a success.
			res.SuccessCount++
			res.SkippedCount++
			res.SkippedFiles = append(res.SkippedFiles, SkippedFile{
				URL:      url,
				Filename: out.Filename,
				Reason:   out.Reason,
			})
			c.finishJob(ctx, req.UserID, jobID, out)
		case OutcomeError:
			res.FailedCount++
			res.FailedURLs = append(res.FailedURLs, FailedURL{URL: url, Error: out.Err.Error()})
			c.failJob(ctx, jobID, out.Err)
		}
	}

	res.Message = fmt.Sprintf("%d downloaded, %d skipped, %d failed (saved to %s)",
		res.SuccessCount-res.SkippedCount, res.SkippedCount, res.FailedCount, folder)
	return res, nil
}

// downloadOne attempts a single URL. The probe-then-exists check and the
// subsequent transfer form a check-then-act race across concurrent
// requests targeting the same filename; last one in wins a skip.
func (c *Coordinator) downloadOne(ctx context.Context, url, folder string) Outcome {
	var filename, ext string
	if meta, err := c.extractor.Probe(ctx, url); err == nil {
		title := meta.Title
		if title == "" {
			title = "Unknown Title"
		}
		ext = meta.Ext
		if ext == "" {
			ext = "mp4"
		}
		filename = title + "." + ext

		path := filepath.Join(folder, filename)
		if fi, statErr := os.Stat(path); statErr == nil {
			c.log.Info().Str("file", filename).Msg("destination exists, skipping download")
			return Outcome{
				Kind:       OutcomeSkipped,
				Filename:   filename,
				Reason:     "File already exists",
				FilePath:   path,
				FileSize:   fi.Size(),
				FileFormat: ext,
			}
		}
	} else {
		// Probe failure is not fatal: attempt the transfer anyway.
		c.log.Debug().Err(err).Str("url", url).Msg("probe failed before download")
	}

	if err := c.extractor.Download(ctx, url, folder, FormatPreference, false); err != nil {
		c.log.Warn().Err(err).Str("url", url).Msg("download failed")
		return Outcome{Kind: OutcomeError, Err: err}
	}

	out := Outcome{Kind: OutcomeSuccess, Filename: filename, FileFormat: ext}
	if filename != "" {
		path := filepath.Join(folder, filename)
		if fi, err := os.Stat(path); err == nil {
			out.FilePath = path
			out.FileSize = fi.Size()
		}
	}
	return out
}

// createJob records a pending job with a metadata snapshot. Returns ""
// when no user is attached or the store is unreachable; download proceeds
// regardless.
func (c *Coordinator) createJob(ctx context.Context, userID, url string) string {
	if userID == "" || !c.store.Connected() {
		return ""
	}

	job := &store.DownloadJob{
		UserID:   userID,
		VideoURL: url,
		Status:   store.StatusPending,
	}
	if rec, err := c.fetcher.FetchByURL(ctx, url); err == nil {
		job.VideoTitle = rec.Title
		job.VideoThumbnail = rec.Thumbnail
		job.ChannelName = rec.ChannelTitle
		job.VideoDuration = rec.Duration
		job.VideoDescription = rec.Description
	}

	created, err := c.store.CreateDownloadJob(ctx, job)
	if err != nil {
		c.log.Warn().Err(err).Str("url", url).Msg("create download job failed")
		return ""
	}
	return created.ID
}

// finishJob transitions a job to completed and appends a history row.
func (c *Coordinator) finishJob(ctx context.Context, userID, jobID string, out Outcome) {
	if jobID == "" || !c.store.Connected() {
		return
	}

	now := time.Now().UTC()
	err := c.store.UpdateDownloadJob(ctx, jobID, store.JobUpdate{
		Status:       store.StatusCompleted,
		DownloadPath: out.FilePath,
		FileSize:     out.FileSize,
		FileFormat:   out.FileFormat,
		CompletedAt:  &now,
	})
	if err != nil {
		c.log.Warn().Err(err).Str("job_id", jobID).Msg("update download job failed")
		return
	}
	if err := c.store.CreateHistory(ctx, userID, jobID); err != nil {
		c.log.Warn().Err(err).Str("job_id", jobID).Msg("create history failed")
	}
}

// failJob transitions a job to failed.
func (c *Coordinator) failJob(ctx context.Context, jobID string, cause error) {
	if jobID == "" || !c.store.Connected() {
		return
	}

	now := time.Now().UTC()
	err := c.store.UpdateDownloadJob(ctx, jobID, store.JobUpdate{
		Status:       store.StatusFailed,
		ErrorMessage: cause.Error(),
		CompletedAt:  &now,
	})
	if err != nil {
		c.log.Warn().Err(err).Str("job_id", jobID).Msg("update download job failed")
	}
}
