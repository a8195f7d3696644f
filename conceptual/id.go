package conceptual

import (
	"regexp"
	"strings"
)

// ChannelID identifies a channel trace.
// Depending on the source it is a channel name or the survey year the channel was drawn.
type ChannelID string

func (c ChannelID) String() string {
	return string(c)
}

func (c ChannelID) Empty() bool {
	return c == ""
}

var unsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// PathSafe returns the id sanitized for use as a single path element.
func (c ChannelID) PathSafe() string {
	s := unsafePathChars.ReplaceAllString(strings.TrimSpace(string(c)), "_")
	s = strings.Trim(s, ".")
	if s == "" {
		return "_"
	}
	return s
}
