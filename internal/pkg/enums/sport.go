package enums

import "strings"

// Sport represents supported sports types
type Sport string

const (
	Football   Sport = "football"
	Basketball Sport = "basketball"
	Hockey     Sport = "hockey"
	Tennis     Sport = "tennis"
)

// SportInfo contains additional information about a sport
type SportInfo struct {
	Name  string
	Alias string
	// OddsAPIKey is the default sport key on the-odds-api (/v4/sports/{key}/odds).
	OddsAPIKey string
}

// GetSportInfo returns sport information
func (s Sport) GetSportInfo() SportInfo {
	switch s {
	case Football:
		return SportInfo{
			Name:       "Football",
			Alias:      "football",
			OddsAPIKey: "soccer_epl",
		}
	case Basketball:
		return SportInfo{
			Name:       "Basketball",
			Alias:      "basketball",
			OddsAPIKey: "basketball_nba",
		}
	case Hockey:
		return SportInfo{
			Name:       "Hockey",
			Alias:      "hockey",
			OddsAPIKey: "icehockey_nhl",
		}
	case Tennis:
		return SportInfo{
			Name:       "Tennis",
			Alias:      "tennis",
			OddsAPIKey: "tennis_atp_paris_masters",
		}
	default:
		return SportInfo{
			Name:  "Unknown",
			Alias: "unknown",
		}
	}
}

// IsValid checks if sport is supported
func (s Sport) IsValid() bool {
	switch s {
	case Football, Basketball, Hockey, Tennis:
		return true
	default:
		return false
	}
}

// String returns string representation
func (s Sport) String() string {
	return string(s)
}

// GetAllSports returns all supported sports
func GetAllSports() []Sport {
	return []Sport{
		Football,
		Basketball,
		Hockey,
		Tennis,
	}
}

// ParseSport parses string to Sport enum. "soccer" is accepted as football.
func ParseSport(s string) (Sport, bool) {
	n := strings.ToLower(strings.TrimSpace(s))
	if n == "soccer" {
		n = string(Football)
	}
	sport := Sport(n)
	return sport, sport.IsValid()
}
