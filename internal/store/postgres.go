package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Postgres implements Store over a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewPostgres connects to the hosted Postgres backend. An empty URL yields
// a disconnected store whose operations fail with ErrUnavailable, letting
// the rest of the system run without persistence.
func NewPostgres(ctx context.Context, databaseURL string, logger zerolog.Logger) (*Postgres, error) {
	if databaseURL == "" {
		return &Postgres{log: logger}, nil
	}

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Postgres{pool: pool, log: logger}, nil
}

// Connected reports whether the store has a live pool.
func (p *Postgres) Connected() bool {
	return p != nil && p.pool != nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	if p.Connected() {
		p.pool.Close()
	}
}

// CreateUser inserts a new user.
func (p *Postgres) CreateUser(ctx context.Context, email, name string) (*User, error) {
	if !p.Connected() {
		return nil, ErrUnavailable
	}

	u := &User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	sql := "INSERT INTO users (id, email, name, created_at) VALUES ($1, $2, $3, $4)"
	if _, err := p.pool.Exec(ctx, sql, u.ID, u.Email, u.Name, u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetUserByEmail looks up a user by email address.
func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	if !p.Connected() {
		return nil, ErrUnavailable
	}

	sql := "SELECT id, email, name, created_at FROM users WHERE email = $1"
	row := p.pool.QueryRow(ctx, sql, email)

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// CreateDownloadJob inserts a job in the pending state and assigns its id.
func (p *Postgres) CreateDownloadJob(ctx context.Context, job *DownloadJob) (*DownloadJob, error) {
	if !p.Connected() {
		return nil, ErrUnavailable
	}

	job.ID = uuid.New().String()
	job.CreatedAt = time.Now().UTC()
	if job.Status == "" {
		job.Status = StatusPending
	}

	sql := `INSERT INTO download_jobs
		(id, user_id, video_url, status, video_title, video_thumbnail, channel_name,
		 video_duration, video_description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := p.pool.Exec(ctx, sql,
		job.ID, job.UserID, job.VideoURL, job.Status, job.VideoTitle, job.VideoThumbnail,
		job.ChannelName, job.VideoDuration, job.VideoDescription, job.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create download job: %w", err)
	}
	return job, nil
}

// UpdateDownloadJob applies a status transition to an existing job.
func (p *Postgres) UpdateDownloadJob(ctx context.Context, id string, upd JobUpdate) error {
	if !p.Connected() {
		return ErrUnavailable
	}

	sql := `UPDATE download_jobs
		SET status = $2, download_path = $3, file_size = $4, file_format = $5,
		    error_message = $6, completed_at = $7
		WHERE id = $1`
	tag, err := p.pool.Exec(ctx, sql, id,
		upd.Status, upd.DownloadPath, upd.FileSize, upd.FileFormat, upd.ErrorMessage, upd.CompletedAt)
	if err != nil {
		return fmt.Errorf("update download job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetDownloadJob fetches one job by id.
func (p *Postgres) GetDownloadJob(ctx context.Context, id string) (*DownloadJob, error) {
	if !p.Connected() {
		return nil, ErrUnavailable
	}

	sql := jobColumns + " FROM download_jobs WHERE id = $1"
	row := p.pool.QueryRow(ctx, sql, id)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get download job: %w", err)
	}
	return job, nil
}

// ListUserJobs returns a user's jobs, newest first.
func (p *Postgres) ListUserJobs(ctx context.Context, userID string, limit, offset int) ([]DownloadJob, error) {
	if !p.Connected() {
		return nil, ErrUnavailable
	}

	sql := jobColumns + ` FROM download_jobs
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := p.pool.Query(ctx, sql, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list user jobs: %w", err)
	}
	defer rows.Close()

	jobs := []DownloadJob{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job row: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job rows: %w", err)
	}
	return jobs, nil
}

// CreateHistory records a completed download for a user.
func (p *Postgres) CreateHistory(ctx context.Context, userID, jobID string) error {
	if !p.Connected() {
		return ErrUnavailable
	}

	sql := "INSERT INTO download_history (id, user_id, job_id, created_at) VALUES ($1, $2, $3, $4)"
	_, err := p.pool.Exec(ctx, sql, uuid.New().String(), userID, jobID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("create history: %w", err)
	}
	return nil
}

// ListUserHistory returns a user's history, newest first, with each
// entry's job joined in.
func (p *Postgres) ListUserHistory(ctx context.Context, userID string, limit, offset int) ([]HistoryEntry, error) {
	if !p.Connected() {
		return nil, ErrUnavailable
	}

	sql := `SELECT h.id, h.user_id, h.job_id, h.created_at,
		j.id, j.user_id, j.video_url, j.status, j.video_title, j.video_thumbnail,
		j.channel_name, j.video_duration, j.video_description, j.download_path,
		j.file_size, j.file_format, j.error_message, j.created_at, j.completed_at
		FROM download_history h
		JOIN download_jobs j ON j.id = h.job_id
		WHERE h.user_id = $1 ORDER BY h.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := p.pool.Query(ctx, sql, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list user history: %w", err)
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		var e HistoryEntry
		var j DownloadJob
		var fileSize *int64
		err := rows.Scan(&e.ID, &e.UserID, &e.JobID, &e.CreatedAt,
			&j.ID, &j.UserID, &j.VideoURL, &j.Status, &j.VideoTitle, &j.VideoThumbnail,
			&j.ChannelName, &j.VideoDuration, &j.VideoDescription, &j.DownloadPath,
			&fileSize, &j.FileFormat, &j.ErrorMessage, &j.CreatedAt, &j.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if fileSize != nil {
			j.FileSize = *fileSize
		}
		e.Job = &j
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return entries, nil
}

// AddFavorite saves a video to a user's favorites.
func (p *Postgres) AddFavorite(ctx context.Context, fav *Favorite) (*Favorite, error) {
	if !p.Connected() {
		return nil, ErrUnavailable
	}

	fav.ID = uuid.New().String()
	fav.CreatedAt = time.Now().UTC()

	sql := `INSERT INTO user_favorites
		(id, user_id, video_url, video_title, video_thumbnail, channel_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := p.pool.Exec(ctx, sql,
		fav.ID, fav.UserID, fav.VideoURL, fav.VideoTitle, fav.VideoThumbnail, fav.ChannelName, fav.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("add favorite: %w", err)
	}
	return fav, nil
}

// ListFavorites returns a user's favorites, newest first.
func (p *Postgres) ListFavorites(ctx context.Context, userID string) ([]Favorite, error) {
	if !p.Connected() {
		return nil, ErrUnavailable
	}

	sql := `SELECT id, user_id, video_url, video_title, video_thumbnail, channel_name, created_at
		FROM user_favorites WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := p.pool.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []Favorite{}
	for rows.Next() {
		var f Favorite
		err := rows.Scan(&f.ID, &f.UserID, &f.VideoURL, &f.VideoTitle, &f.VideoThumbnail, &f.ChannelName, &f.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan favorite row: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorite rows: %w", err)
	}
	return favorites, nil
}

// RemoveFavorite deletes a favorite by user and video URL.
func (p *Postgres) RemoveFavorite(ctx context.Context, userID, videoURL string) error {
	if !p.Connected() {
		return ErrUnavailable
	}

	sql := "DELETE FROM user_favorites WHERE user_id = $1 AND video_url = $2"
	if _, err := p.pool.Exec(ctx, sql, userID, videoURL); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

const jobColumns = `SELECT id, user_id, video_url, status, video_title, video_thumbnail,
	channel_name, video_duration, video_description, download_path,
	file_size, file_format, error_message, created_at, completed_at`

// scanJob reads one download_jobs row.
func scanJob(row pgx.Row) (*DownloadJob, error) {
	var j DownloadJob
	var fileSize *int64
	err := row.Scan(&j.ID, &j.UserID, &j.VideoURL, &j.Status, &j.VideoTitle, &j.VideoThumbnail,
		&j.ChannelName, &j.VideoDuration, &j.VideoDescription, &j.DownloadPath,
		&fileSize, &j.FileFormat, &j.ErrorMessage, &j.CreatedAt, &j.CompletedAt)
	if err != nil {
		return nil, err
	}
	if fileSize != nil {
		j.FileSize = *fileSize
	}
	return &j, nil
}
