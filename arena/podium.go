package arena

import "github.com/blackrose-gg/guild-system/models"

// Podium is the top three of a concluded bracket. Third is nil until the
// third-place match concludes; it never gates the champion declaration.
type Podium struct {
	First  *models.PlayerSnapshot `json:"first"`
	Second *models.PlayerSnapshot `json:"second"`
	Third  *models.PlayerSnapshot `json:"third,omitempty"`
}

// ResolvePodium computes the podium from the current match set. It returns
// nil while the final is undecided.
func ResolvePodium(matches []*models.Match) *Podium {
	final := MatchAt(matches, MaxRound(matches), 0)
	if final == nil || final.Winner == nil {
		return nil
	}

	p := &Podium{First: final.Winner}
	if final.Player1 != nil && final.Player1.UID != final.Winner.UID {
		p.Second = final.Player1
	} else {
		p.Second = final.Player2
	}
	if tp := thirdPlaceMatch(matches); tp != nil {
		p.Third = tp.Winner
	}
	return p
}

// PickLiveMatch auto-selects the match the VS screen should show: among
// matches with both slots filled and no winner, the one closest to the final
// (highest round), tie-broken by lowest position. The VS screen deliberately
// ignores the stored broadcast pointer; only the lower-third banner honors it.
func PickLiveMatch(matches []*models.Match) *models.Match {
	var best *models.Match
	for _, m := range matches {
		if !m.Ready() {
			continue
		}
		if best == nil || m.Round > best.Round ||
			(m.Round == best.Round && m.Position < best.Position) {
			best = m
		}
	}
	return best
}
