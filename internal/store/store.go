// Package store provides access to the hosted relational backend holding
// users, download jobs, history, and favorites.
package store

import (
	"context"
	"errors"
)

// Sentinel errors for store operations.
var (
	// ErrUnavailable indicates the store is not connected.
	ErrUnavailable = errors.New("store: unavailable")
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrAlreadyExists indicates a uniqueness conflict (e.g. email).
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the thin CRUD client over the relational backend. Connected is
// a cheap gate callers check before relying on the store; a disconnected
// store degrades dependent endpoints rather than retrying.
type Store interface {
	Connected() bool

	CreateUser(ctx context.Context, email, name string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	CreateDownloadJob(ctx context.Context, job *DownloadJob) (*DownloadJob, error)
	UpdateDownloadJob(ctx context.Context, id string, upd JobUpdate) error
	GetDownloadJob(ctx context.Context, id string) (*DownloadJob, error)
	ListUserJobs(ctx context.Context, userID string, limit, offset int) ([]DownloadJob, error)

	CreateHistory(ctx context.Context, userID, jobID string) error
	ListUserHistory(ctx context.Context, userID string, limit, offset int) ([]HistoryEntry, error)

	AddFavorite(ctx context.Context, fav *Favorite) (*Favorite, error)
	ListFavorites(ctx context.Context, userID string) ([]Favorite, error)
	RemoveFavorite(ctx context.Context, userID, videoURL string) error
}
