package retention

import "testing"

func TestDifficultyFor(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   Tier
	}{
		{"no history", nil, Easy},
		{"low scores", []float64{50, 55}, Easy},
		{"high scores", []float64{85, 90, 88}, Hard},
		{"medium boundary", []float64{60}, Medium},
		{"hard boundary", []float64{80, 80}, Hard},
		{"just below medium", []float64{59.9}, Easy},
		{"only last five count", []float64{0, 0, 0, 90, 90, 90, 90, 90}, Hard},
		{"old highs ignored", []float64{100, 100, 40, 40, 40, 40, 40}, Easy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DifficultyFor(tt.scores); got != tt.want {
				t.Errorf("DifficultyFor(%v) = %s, want %s", tt.scores, got, tt.want)
			}
		})
	}
}

func TestTierParams(t *testing.T) {
	if p := TierParams(Easy); p.BatchSize != 3 || p.HintBoost != 1 {
		t.Errorf("easy params = %+v", p)
	}
	if p := TierParams(Medium); p.BatchSize != 4 || p.HintBoost != 0 {
		t.Errorf("medium params = %+v", p)
	}
	if p := TierParams(Hard); p.BatchSize != 5 || p.HintBoost != 0 {
		t.Errorf("hard params = %+v", p)
	}
}

func TestParseTier(t *testing.T) {
	for in, want := range map[string]Tier{"HARD": Hard, " medium ": Medium, "easy": Easy, "": Easy, "extreme": Easy} {
		if got := ParseTier(in); got != want {
			t.Errorf("ParseTier(%q) = %s, want %s", in, got, want)
		}
	}
}
