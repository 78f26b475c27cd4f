package ytdlp

import (
	"testing"
	"time"
)

func TestParseProbeOutput(t *testing.T) {
	data := []byte(`{
		"id": "abc123",
		"title": "A Video",
		"description": "about things",
		"duration": 125.0,
		"ext": "mp4",
		"uploader": "A Channel",
		"view_count": 1000,
		"like_count": 10,
		"upload_date": "20240315"
	}`)

	meta, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parseProbeOutput failed: %v", err)
	}
	if meta.ID != "abc123" {
		t.Errorf("ID = %q, want %q", meta.ID, "abc123")
	}
	if meta.Title != "A Video" {
		t.Errorf("Title = %q, want %q", meta.Title, "A Video")
	}
	if meta.Duration != 125 {
		t.Errorf("Duration = %v, want 125", meta.Duration)
	}
	if meta.UploadDate != "20240315" {
		t.Errorf("UploadDate = %q, want %q", meta.UploadDate, "20240315")
	}
}

func TestParseProbeOutputRejectsIncomplete(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "not json"},
		{"missing id", `{"title": "A Video"}`},
		{"missing title", `{"id": "abc123"}`},
	}

	for _, tt := range tests {
		if _, err := parseProbeOutput([]byte(tt.data)); err == nil {
			t.Errorf("parseProbeOutput(%s) succeeded, want error", tt.name)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	c := New("", 0)
	if c.Path != "yt-dlp" {
		t.Errorf("Path = %q, want %q", c.Path, "yt-dlp")
	}
	if c.Timeout != 10*time.Minute {
		t.Errorf("Timeout = %v, want 10m", c.Timeout)
	}

	c = New("/opt/yt-dlp", time.Minute)
	if c.Path != "/opt/yt-dlp" || c.Timeout != time.Minute {
		t.Errorf("explicit settings not kept: %+v", c)
	}
}
