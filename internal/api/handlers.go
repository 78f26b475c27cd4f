package api

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/baropoint-debug/youtube-downloader-supabase/internal/download"
	"github.com/baropoint-debug/youtube-downloader-supabase/internal/youtube"
)

// channelSearchMaxResults caps the autocomplete candidate list.
const channelSearchMaxResults = 10

type searchRequest struct {
	Query           string   `json:"query"`
	PageToken       string   `json:"page_token"`
	SortBy          string   `json:"sort_by"`
	MaxResults      int64    `json:"max_results"`
	ChannelFilter   string   `json:"channel_filter"`
	CreativeCommons bool     `json:"creative_commons"`
	DurationFilters []string `json:"duration_filters"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	page, err := s.search.Search(r.Context(), youtube.SearchRequest{
		Query:           req.Query,
		PageToken:       req.PageToken,
		SortBy:          req.SortBy,
		MaxResults:      req.MaxResults,
		ChannelFilter:   req.ChannelFilter,
		CreativeCommons: req.CreativeCommons,
		DurationFilters: req.DurationFilters,
	})
	if err != nil {
		if errors.Is(err, youtube.ErrEmptyQuery) {
			s.writeError(w, http.StatusBadRequest, "enter a search query or select a channel")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	s.writeJSON(w, http.StatusOK, page)
}

type downloadRequest struct {
	URLs           []string `json:"urls"`
	DownloadFolder string   `json:"download_folder"`
	UserID         string   `json:"user_id"`
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.URLs) == 0 {
		s.writeError(w, http.StatusBadRequest, "select at least one url to download")
		return
	}

	folder := req.DownloadFolder
	if folder == "" {
		folder = s.downloadFolder
	}

	res, err := s.coordinator.Run(r.Context(), download.Request{
		URLs:   req.URLs,
		Folder: folder,
		UserID: req.UserID,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleVideoInfo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		s.writeError(w, http.StatusBadRequest, "enter a video url")
		return
	}
	if !youtube.IsValidVideoURL(url) {
		s.writeError(w, http.StatusBadRequest, "not a valid youtube url")
		return
	}

	rec, err := s.fetcher.FetchByURL(r.Context(), url)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "could not retrieve video information")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]*youtube.VideoRecord{"video": rec})
}

func (s *Server) handleSearchChannels(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	empty := map[string][]youtube.RankedChannel{"channels": {}}

	query := strings.TrimSpace(req.Query)
	if utf8.RuneCountInString(query) < 2 {
		s.writeJSON(w, http.StatusOK, empty)
		return
	}

	candidates, err := s.provider.SearchChannels(r.Context(), query, channelSearchMaxResults)
	if err != nil {
		// Autocomplete degrades to no suggestions rather than an error.
		s.log.Warn().Err(err).Str("query", query).Msg("channel search failed")
		s.writeJSON(w, http.StatusOK, empty)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string][]youtube.RankedChannel{
		"channels": youtube.RankChannels(query, candidates),
	})
}

func (s *Server) handleDownloadFolders(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]download.Folder{
		"folders": download.Candidates(s.downloadFolder),
	})
}

func (s *Server) handleTestFolder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FolderPath string `json:"folder_path"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	path := strings.TrimSpace(req.FolderPath)
	if path == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "enter a folder path",
		})
		return
	}

	abs, err := download.EnsureFolder(path)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "folder error: " + err.Error(),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"folder_path": abs,
		"message":     "folder is valid",
	})
}
