package store

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisconnectedStore(t *testing.T) {
	p, err := NewPostgres(context.Background(), "", zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, p.Connected())

	ctx := context.Background()

	_, err = p.CreateUser(ctx, "a@example.com", "a")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = p.GetUserByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = p.CreateDownloadJob(ctx, &DownloadJob{})
	assert.ErrorIs(t, err, ErrUnavailable)

	err = p.UpdateDownloadJob(ctx, "id", JobUpdate{})
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = p.GetDownloadJob(ctx, "id")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = p.ListUserJobs(ctx, "u", 10, 0)
	assert.ErrorIs(t, err, ErrUnavailable)

	err = p.CreateHistory(ctx, "u", "j")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = p.ListUserHistory(ctx, "u", 10, 0)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = p.AddFavorite(ctx, &Favorite{})
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = p.ListFavorites(ctx, "u")
	assert.ErrorIs(t, err, ErrUnavailable)

	err = p.RemoveFavorite(ctx, "u", "url")
	assert.ErrorIs(t, err, ErrUnavailable)

	// Close on a disconnected store is a no-op.
	p.Close()
}

func TestNewPostgresRejectsBadURL(t *testing.T) {
	_, err := NewPostgres(context.Background(), "not-a-url://%zz", zerolog.Nop())
	assert.Error(t, err)
}
