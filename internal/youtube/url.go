package youtube

import (
	"net/url"
	"regexp"
	"strings"
)

// videoURLPatterns are prefix-anchored: trailing garbage after a valid
// prefix is still accepted (extra query parameters, timestamps, etc.).
var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/watch\?v=[\w-]+`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtu\.be/[\w-]+`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/embed/[\w-]+`),
}

// IsValidVideoURL reports whether s looks like a YouTube video URL in one
// of the three recognized shapes: watch, short-link, or embed.
func IsValidVideoURL(s string) bool {
	for _, re := range videoURLPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// ExtractVideoID pulls the video identifier out of a YouTube URL.
// Short links take the last path segment with any query string stripped;
// watch URLs take the first "v" parameter. Any other shape yields "".
func ExtractVideoID(raw string) string {
	if strings.Contains(raw, "youtu.be") {
		seg := raw[strings.LastIndex(raw, "/")+1:]
		if i := strings.Index(seg, "?"); i >= 0 {
			seg = seg[:i]
		}
		return seg
	}
	if strings.Contains(raw, "youtube.com") {
		u, err := url.Parse(raw)
		if err != nil {
			return ""
		}
		if u.Hostname() == "www.youtube.com" && u.Path == "/watch" {
			return u.Query().Get("v")
		}
	}
	return ""
}
