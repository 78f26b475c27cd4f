package youtube

import (
	"sort"
	"strings"
)

// RankedChannel is a channel autocomplete candidate as presented to the
// caller, with exact matches flagged and the description shortened.
type RankedChannel struct {
	ChannelID    string `json:"channel_id"`
	ChannelTitle string `json:"channel_title"`
	Description  string `json:"description"`
	Thumbnail    string `json:"thumbnail"`
	ExactMatch   bool   `json:"exact_match"`
}

// RankChannels orders candidates for autocomplete: exact case-insensitive
// title matches first, then alphabetically by title. Descriptions are
// truncated to 100 characters.
func RankChannels(query string, candidates []ChannelCandidate) []RankedChannel {
	ranked := make([]RankedChannel, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, RankedChannel{
			ChannelID:    c.ID,
			ChannelTitle: c.Title,
			Description:  truncate(c.Description, 100),
			Thumbnail:    c.Thumbnail,
			ExactMatch:   strings.EqualFold(c.Title, query),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].ExactMatch != ranked[j].ExactMatch {
			return ranked[i].ExactMatch
		}
		return ranked[i].ChannelTitle < ranked[j].ChannelTitle
	})
	return ranked
}
