package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Vodeneev/tipsbot/internal/pkg/models"
)

const (
	maxLeagueLen = 200
	maxTeamLen   = 100
)

// SanitizeRecord cleans provider strings so a record always renders on one line.
func SanitizeRecord(r *models.FixtureRecord) {
	if r == nil || r.IsNotice() {
		return
	}
	r.League = sanitizeName(r.League, maxLeagueLen)
	r.Home = sanitizeName(r.Home, maxTeamLen)
	r.Away = sanitizeName(r.Away, maxTeamLen)
}

func sanitizeName(name string, limit int) string {
	// Any Unicode space or line separator becomes a space, remaining
	// C0/C1 controls are dropped.
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, name)
	sanitized = strings.Join(strings.Fields(sanitized), " ")

	if utf8.RuneCountInString(sanitized) > limit {
		sanitized = strings.TrimSpace(string([]rune(sanitized)[:limit]))
	}
	return sanitized
}
