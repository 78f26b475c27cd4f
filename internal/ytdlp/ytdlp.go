// Package ytdlp drives yt-dlp as a subprocess for metadata probing and
// media downloads.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultPath    = "yt-dlp"
	defaultTimeout = 10 * time.Minute
)

// Sentinel errors for extraction operations.
var (
	ErrNotInstalled = errors.New("ytdlp: yt-dlp not installed")
	ErrVideoGone    = errors.New("ytdlp: video not found")
)

// ExtractionError wraps a failed yt-dlp invocation.
type ExtractionError struct {
	// Op is the operation that failed ("probe" or "download").
	Op string
	// URL is the video URL the operation targeted.
	URL string
	// Err is the underlying error.
	Err error
}

// Error returns a string representation of the extraction error.
func (e *ExtractionError) Error() string {
	return "ytdlp: " + e.Op + " " + e.URL + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *ExtractionError) Unwrap() error { return e.Err }

// Metadata is the probe result for a single video.
type Metadata struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Duration     float64 `json:"duration"`
	Ext          string  `json:"ext"`
	Thumbnail    string  `json:"thumbnail"`
	Uploader     string  `json:"uploader"`
	ViewCount    int64   `json:"view_count"`
	LikeCount    int64   `json:"like_count"`
	CommentCount int64   `json:"comment_count"`
	UploadDate   string  `json:"upload_date"`
}

// Client runs yt-dlp.
type Client struct {
	// Path is the path to the yt-dlp executable. Defaults to "yt-dlp".
	Path string

	// Timeout is the maximum time to wait for yt-dlp. Defaults to 10 minutes.
	Timeout time.Duration

	// ExtraArgs are additional arguments passed to every invocation.
	ExtraArgs []string
}

// New creates a yt-dlp client. Empty path or zero timeout select defaults.
func New(path string, timeout time.Duration) *Client {
	if path == "" {
		path = defaultPath
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{Path: path, Timeout: timeout}
}

// Probe fetches metadata for a video without downloading it.
func (c *Client) Probe(ctx context.Context, url string) (*Metadata, error) {
	args := []string{"-J", "--no-warnings"}
	args = append(args, c.ExtraArgs...)
	args = append(args, url)

	stdout, err := c.run(ctx, "probe", url, args)
	if err != nil {
		return nil, err
	}

	meta, err := parseProbeOutput(stdout)
	if err != nil {
		return nil, &ExtractionError{Op: "probe", URL: url, Err: err}
	}
	return meta, nil
}

// Download fetches the media file for a video into dir, naming it from the
// provider-reported title. With overwrite false, yt-dlp skips files that
// already exist instead of replacing them.
func (c *Client) Download(ctx context.Context, url, dir, format string, overwrite bool) error {
	args := []string{
		"-o", filepath.Join(dir, "%(title)s.%(ext)s"),
		"--no-warnings",
	}
	if format != "" {
		args = append(args, "-f", format)
	}
	if !overwrite {
		args = append(args, "--no-overwrites")
	}
	args = append(args, c.ExtraArgs...)
	args = append(args, url)

	_, err := c.run(ctx, "download", url, args)
	return err
}

// run executes yt-dlp with the client's timeout and classifies failures.
func (c *Client) run(ctx context.Context, op, url string, args []string) ([]byte, error) {
	path := c.Path
	if path == "" {
		path = defaultPath
	}
	if _, err := exec.LookPath(path); err != nil {
		return nil, ErrNotInstalled
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			return nil, &ExtractionError{Op: op, URL: url, Err: context.DeadlineExceeded}
		}
		if cmdCtx.Err() == context.Canceled {
			return nil, &ExtractionError{Op: op, URL: url, Err: context.Canceled}
		}

		errMsg := stderr.String()
		if strings.Contains(errMsg, "not available") || strings.Contains(errMsg, "does not exist") {
			return nil, &ExtractionError{Op: op, URL: url, Err: ErrVideoGone}
		}
		return nil, &ExtractionError{Op: op, URL: url,
			Err: fmt.Errorf("yt-dlp failed: %w: %s", err, errMsg)}
	}

	return stdout.Bytes(), nil
}

// parseProbeOutput decodes yt-dlp -J output into Metadata.
func parseProbeOutput(data []byte) (*Metadata, error) {
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata JSON: %w", err)
	}
	if meta.ID == "" {
		return nil, fmt.Errorf("invalid metadata: missing id")
	}
	if meta.Title == "" {
		return nil, fmt.Errorf("invalid metadata: missing title")
	}
	return &meta, nil
}
