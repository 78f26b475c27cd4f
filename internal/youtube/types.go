// Package youtube implements search and metadata retrieval against the
// YouTube Data API v3, with yt-dlp as the fallback metadata source.
package youtube

// VideoRecord is an immutable metadata snapshot for a single video.
// It is freshly constructed per fetch and has no identity beyond the URL.
type VideoRecord struct {
	Title        string `json:"title"`
	Duration     string `json:"duration"`
	URL          string `json:"url"`
	Thumbnail    string `json:"thumbnail"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channel_title"`
	ChannelID    string `json:"channel_id,omitempty"`
	ViewCount    string `json:"view_count"`
	LikeCount    string `json:"like_count,omitempty"`
	CommentCount string `json:"comment_count,omitempty"`
	UploadDate   string `json:"upload_date"`
}

// SearchPage is one page of search results together with the provider's
// pagination metadata. Cursors are opaque provider tokens.
type SearchPage struct {
	Results       []VideoRecord `json:"results"`
	NextPageToken string        `json:"next_page_token,omitempty"`
	PrevPageToken string        `json:"prev_page_token,omitempty"`
	TotalResults  int64         `json:"total_results"`
}

// SearchRequest carries the caller-supplied search parameters.
type SearchRequest struct {
	Query           string
	PageToken       string
	SortBy          string
	MaxResults      int64
	ChannelFilter   string
	CreativeCommons bool
	DurationFilters []string
}

// SearchItem is a raw video search result as returned by the provider,
// before hydration into a full VideoRecord.
type SearchItem struct {
	VideoID      string
	Title        string
	Description  string
	ChannelID    string
	ChannelTitle string
	Thumbnail    string
	PublishedAt  string
}

// ProviderPage is a raw provider response page.
type ProviderPage struct {
	Items         []SearchItem
	NextPageToken string
	PrevPageToken string
	TotalResults  int64
}

// VideoQuery holds the parameters for a single provider search call.
type VideoQuery struct {
	Query          string
	MaxResults     int64
	Order          string
	PageToken      string
	ChannelID      string
	License        string
	DurationBucket string
}

// VideoDetails is the raw per-video response from the provider's details
// endpoint (snippet, contentDetails, statistics).
type VideoDetails struct {
	ID           string
	Title        string
	Description  string
	DurationISO  string
	Thumbnail    string
	ChannelID    string
	ChannelTitle string
	PublishedAt  string
	ViewCount    string
	LikeCount    string
	CommentCount string
}

// ChannelCandidate is a raw channel search result.
type ChannelCandidate struct {
	ID          string
	Title       string
	Description string
	Thumbnail   string
}
