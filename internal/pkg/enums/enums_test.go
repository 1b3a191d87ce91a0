package enums

import "testing"

func TestParseMarket(t *testing.T) {
	tests := []struct {
		in   string
		want Market
		ok   bool
	}{
		{"home", HomeWin, true},
		{"1", HomeWin, true},
		{"X", Draw, true},
		{"Over 2.5", Over25, true},
		{"over_1.5_goals", Over15, true},
		{"Under 2.5", Under25, true},
		{"btts_yes", BothTeamsScore, true},
		{"Both Teams Score", BothTeamsScore, true},
		{"Both-Teams-To-Score", BothTeamsScore, true},
		{"corners over 9.5", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseMarket(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseMarket(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTotalsMarket(t *testing.T) {
	tests := []struct {
		side  string
		point float64
		want  Market
		ok    bool
	}{
		{"Over", 1.5, Over15, true},
		{"Over", 2.5, Over25, true},
		{"Under", 2.5, Under25, true},
		{"Under", 1.5, "", false},
		{"Over", 3.5, "", false},
		{"Exactly", 2.5, "", false},
	}
	for _, tt := range tests {
		got, ok := TotalsMarket(tt.side, tt.point)
		if got != tt.want || ok != tt.ok {
			t.Errorf("TotalsMarket(%q, %v) = %q, %v; want %q, %v", tt.side, tt.point, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMarketOrder(t *testing.T) {
	markets := GetAllMarkets()
	for i, m := range markets {
		if m.Order() != i {
			t.Errorf("%s.Order() = %d, want %d", m, m.Order(), i)
		}
		if !m.IsValid() {
			t.Errorf("%s should be valid", m)
		}
	}
	if Market("corners").IsValid() {
		t.Error("unknown market reported as valid")
	}
	if Market("corners").Order() != len(markets) {
		t.Error("unknown market should sort last")
	}
}

func TestParseSport(t *testing.T) {
	tests := []struct {
		in   string
		want Sport
		ok   bool
	}{
		{"football", Football, true},
		{" Soccer ", Football, true},
		{"HOCKEY", Hockey, true},
		{"tennis", Tennis, true},
		{"curling", Sport("curling"), false},
	}
	for _, tt := range tests {
		got, ok := ParseSport(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseSport(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSportInfo(t *testing.T) {
	for _, s := range GetAllSports() {
		info := s.GetSportInfo()
		if info.Name == "" || info.OddsAPIKey == "" {
			t.Errorf("%s: incomplete sport info %+v", s, info)
		}
	}
	if Sport("curling").GetSportInfo().OddsAPIKey != "" {
		t.Error("unknown sport should have no provider key")
	}
}
