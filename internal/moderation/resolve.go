package moderation

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	kit "modbot/internal/transport"
)

var digitsRe = regexp.MustCompile(`^\d+$`)

// Resolve turns a numeric id or an "@handle" into a user id. Every lookup
// failure, whatever its cause, reports not found.
func Resolve(ctx context.Context, raw string, lookup kit.UserLookup) (int64, bool) {
	tok := strings.TrimSpace(raw)
	switch {
	case tok == "":
		return 0, false
	case digitsRe.MatchString(tok):
		id, err := strconv.ParseInt(tok, 10, 64)
		if err != nil || id == 0 {
			return 0, false
		}
		return id, true
	case strings.HasPrefix(tok, "@"):
		if lookup == nil {
			return 0, false
		}
		u, err := lookup.LookupUser(ctx, tok)
		if err != nil || u.ID == 0 {
			return 0, false
		}
		return u.ID, true
	default:
		return 0, false
	}
}
