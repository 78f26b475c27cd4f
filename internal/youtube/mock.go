package youtube

import "fmt"

// mockSeeds are the fixed fields of the placeholder result set.
var mockSeeds = []VideoRecord{
	{
		Duration:     "10:30",
		URL:          "https://www.youtube.com/watch?v=sample1",
		Thumbnail:    "https://via.placeholder.com/120x90",
		ChannelTitle: "Sample Channel 1",
		ViewCount:    "1,234,567",
		LikeCount:    "12,345",
		CommentCount: "1,234",
		UploadDate:   "2024-01-15",
	},
	{
		Duration:     "5:15",
		URL:          "https://www.youtube.com/watch?v=sample2",
		Thumbnail:    "https://via.placeholder.com/120x90",
		ChannelTitle: "Sample Channel 2",
		ViewCount:    "987,654",
		LikeCount:    "8,765",
		CommentCount: "987",
		UploadDate:   "2024-01-10",
	},
	{
		Duration:     "15:45",
		URL:          "https://www.youtube.com/watch?v=sample3",
		Thumbnail:    "https://via.placeholder.com/120x90",
		ChannelTitle: "Sample Channel 3",
		ViewCount:    "2,345,678",
		LikeCount:    "23,456",
		CommentCount: "2,345",
		UploadDate:   "2024-01-20",
	},
}

// MockPage returns the deterministic placeholder result set served when
// the primary search path is unusable. Titles echo the query; there are
// no pagination cursors.
func MockPage(query string) *SearchPage {
	results := make([]VideoRecord, len(mockSeeds))
	for i, seed := range mockSeeds {
		rec := seed
		rec.Title = fmt.Sprintf("Search result %d: %s", i+1, query)
		results[i] = rec
	}
	return &SearchPage{
		Results:      results,
		TotalResults: int64(len(results)),
	}
}
