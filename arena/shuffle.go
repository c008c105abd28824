package arena

import (
	"math/rand"
	"sort"

	"github.com/blackrose-gg/guild-system/models"
)

// Shuffle clears the entire bracket (slots and winners, third-place included)
// and reseeds round 1 with a uniform random permutation of the approved
// participants, two per match in position order. The trailing slot stays
// empty when the participant list runs out. This is a destructive full reset,
// not a swap.
func Shuffle(matches []*models.Match, approved []*models.Participant) []*models.Match {
	for _, m := range matches {
		m.Player1 = nil
		m.Player2 = nil
		m.Winner = nil
	}

	shuffled := make([]*models.Participant, len(approved))
	copy(shuffled, approved)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	round1 := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if !m.IsThirdPlace && m.Round == 1 {
			round1 = append(round1, m)
		}
	}
	sort.Slice(round1, func(i, j int) bool { return round1[i].Position < round1[j].Position })

	idx := 0
	for _, m := range round1 {
		if idx < len(shuffled) {
			m.Player1 = shuffled[idx].Snapshot()
			idx++
		}
		if idx < len(shuffled) {
			m.Player2 = shuffled[idx].Snapshot()
			idx++
		}
	}

	return matches
}
