package store

import "time"

// Job status values.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// User is a registered user.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DownloadJob records one download attempt together with a denormalized
// snapshot of the video's metadata at the time the job was created.
type DownloadJob struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	VideoURL         string     `json:"video_url"`
	Status           string     `json:"status"`
	VideoTitle       string     `json:"video_title,omitempty"`
	VideoThumbnail   string     `json:"video_thumbnail,omitempty"`
	ChannelName      string     `json:"channel_name,omitempty"`
	VideoDuration    string     `json:"video_duration,omitempty"`
	VideoDescription string     `json:"video_description,omitempty"`
	DownloadPath     string     `json:"download_path,omitempty"`
	FileSize         int64      `json:"file_size,omitempty"`
	FileFormat       string     `json:"file_format,omitempty"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// JobUpdate carries the fields applied when a job transitions out of the
// pending state.
type JobUpdate struct {
	Status       string
	DownloadPath string
	FileSize     int64
	FileFormat   string
	ErrorMessage string
	CompletedAt  *time.Time
}

// HistoryEntry links a user to a completed download job.
type HistoryEntry struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	JobID     string       `json:"job_id"`
	CreatedAt time.Time    `json:"created_at"`
	Job       *DownloadJob `json:"download_job,omitempty"`
}

// Favorite is a user-saved video reference.
type Favorite struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	VideoURL       string    `json:"video_url"`
	VideoTitle     string    `json:"video_title"`
	VideoThumbnail string    `json:"video_thumbnail,omitempty"`
	ChannelName    string    `json:"channel_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
