package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baropoint-debug/youtube-downloader-supabase/internal/store"
	"github.com/baropoint-debug/youtube-downloader-supabase/internal/youtube"
)

// msgStoreUnavailable is the fixed message for store-gated endpoints when
// the database is unreachable.
const msgStoreUnavailable = "database connection unavailable"

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		s.writeError(w, http.StatusBadRequest, "enter an email address")
		return
	}
	if !s.store.Connected() {
		s.writeError(w, http.StatusInternalServerError, msgStoreUnavailable)
		return
	}

	_, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err == nil {
		s.writeError(w, http.StatusBadRequest, "email already registered")
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusInternalServerError, "user registration failed")
		return
	}

	name := req.Name
	if name == "" {
		name, _, _ = strings.Cut(req.Email, "@")
	}

	user, err := s.store.CreateUser(r.Context(), req.Email, name)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			s.writeError(w, http.StatusBadRequest, "email already registered")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "user registration failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
		"message": "user registered",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		s.writeError(w, http.StatusBadRequest, "enter an email address")
		return
	}
	if !s.store.Connected() {
		s.writeError(w, http.StatusInternalServerError, msgStoreUnavailable)
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "user not registered")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
		"message": "login successful",
	})
}

func (s *Server) handleUserJobs(w http.ResponseWriter, r *http.Request) {
	if !s.store.Connected() {
		s.writeError(w, http.StatusInternalServerError, msgStoreUnavailable)
		return
	}

	limit, offset := pageParams(r)
	jobs, err := s.store.ListUserJobs(r.Context(), chi.URLParam(r, "userID"), limit, offset)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "could not list download jobs")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]store.DownloadJob{"jobs": jobs})
}

func (s *Server) handleUserHistory(w http.ResponseWriter, r *http.Request) {
	if !s.store.Connected() {
		s.writeError(w, http.StatusInternalServerError, msgStoreUnavailable)
		return
	}

	limit, offset := pageParams(r)
	history, err := s.store.ListUserHistory(r.Context(), chi.URLParam(r, "userID"), limit, offset)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "could not list download history")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]store.HistoryEntry{"history": history})
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	if !s.store.Connected() {
		s.writeError(w, http.StatusInternalServerError, msgStoreUnavailable)
		return
	}

	favorites, err := s.store.ListFavorites(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "could not list favorites")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]store.Favorite{"favorites": favorites})
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Video *youtube.VideoRecord `json:"video"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Video == nil {
		s.writeError(w, http.StatusBadRequest, "video information required")
		return
	}
	if !s.store.Connected() {
		s.writeError(w, http.StatusInternalServerError, msgStoreUnavailable)
		return
	}

	fav, err := s.store.AddFavorite(r.Context(), &store.Favorite{
		UserID:         chi.URLParam(r, "userID"),
		VideoURL:       req.Video.URL,
		VideoTitle:     req.Video.Title,
		VideoThumbnail: req.Video.Thumbnail,
		ChannelName:    req.Video.ChannelTitle,
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "could not add favorite")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"favorite": fav,
		"message":  "added to favorites",
	})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VideoURL string `json:"video_url"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.VideoURL == "" {
		s.writeError(w, http.StatusBadRequest, "video url required")
		return
	}
	if !s.store.Connected() {
		s.writeError(w, http.StatusInternalServerError, msgStoreUnavailable)
		return
	}

	if err := s.store.RemoveFavorite(r.Context(), chi.URLParam(r, "userID"), req.VideoURL); err != nil {
		s.writeError(w, http.StatusInternalServerError, "could not remove favorite")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "removed from favorites",
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	if !s.store.Connected() {
		s.writeError(w, http.StatusInternalServerError, msgStoreUnavailable)
		return
	}

	job, err := s.store.GetDownloadJob(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "job not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "could not load job")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]*store.DownloadJob{"job": job})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbConnected := s.store.Connected()

	status := "degraded"
	if dbConnected && s.providerReady {
		status = "healthy"
	}

	folderExists := false
	if fi, err := os.Stat(s.downloadFolder); err == nil && fi.IsDir() {
		folderExists = true
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":          status,
		"database":        connState(dbConnected),
		"youtube_api":     connState(s.providerReady),
		"download_folder": s.downloadFolder,
		"folder_exists":   folderExists,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

func connState(up bool) string {
	if up {
		return "connected"
	}
	return "disconnected"
}

// pageParams reads limit/offset query parameters with the list defaults.
func pageParams(r *http.Request) (limit, offset int) {
	limit, offset = 50, 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
