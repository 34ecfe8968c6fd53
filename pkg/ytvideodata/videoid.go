package ytvideodata

import (
	"regexp"
	"strings"
)

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https://(?:www\.|m\.|music\.)?youtube\.com/watch\?v=([_\-a-zA-Z0-9]{11}).*$`),
	regexp.MustCompile(`^https://(?:www\.|m\.)?youtube\.com/shorts/([_\-a-zA-Z0-9]{11}).*$`),
	regexp.MustCompile(`^https://(?:www\.|m\.)?youtube(?:-nocookie)?\.com/embed/([_\-a-zA-Z0-9]{11}).*$`),
	regexp.MustCompile(`^https://youtu\.be/([_\-a-zA-Z0-9]{11}).*$`),
}

var bareVideoID = regexp.MustCompile(`^[_\-a-zA-Z0-9]{11}$`)

// ConvertURLToID extracts the 11 character video id from a watch, shorts,
// embed or short link. A bare id is returned as is.
func ConvertURLToID(rawURL string) (string, bool) {
	rawURL = strings.TrimSpace(rawURL)
	if bareVideoID.MatchString(rawURL) {
		return rawURL, true
	}

	for _, exp := range videoIDPatterns {
		if match := exp.FindStringSubmatch(rawURL); len(match) > 1 {
			return match[1], true
		}
	}

	return "", false
}
