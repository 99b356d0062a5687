package selection

import (
	"strconv"
	"time"

	"github.com/mazen160/go-random"
)

const sessionSuffixLength = 11

// NewSessionID returns a search-session id: the current time in base 36
// followed by a random alphanumeric suffix.
func NewSessionID(now time.Time) string {
	prefix := strconv.FormatInt(now.UnixMilli(), 36)
	suffix, err := random.String(sessionSuffixLength)
	if err != nil {
		// still unique per call within this process
		suffix = strconv.FormatInt(now.UnixNano(), 36)
	}
	return prefix + suffix
}
