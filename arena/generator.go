package arena

import (
	"fmt"

	"github.com/blackrose-gg/guild-system/models"
)

// ThirdPlaceRound is the reserved round value of the out-of-band third-place
// match. Numbered bracket rounds start at 1.
const ThirdPlaceRound = 0

var standardSizes = map[int]bool{4: true, 8: true, 16: true, 32: true, 64: true}

// Pairing is one manually specified matchup for a custom single-round
// skirmish bracket.
type Pairing struct {
	Player1 *models.PlayerSnapshot
	Player2 *models.PlayerSnapshot
}

// GenerateStandard produces the empty single-elimination skeleton for a
// power-of-two size: round r holds size/2^r matches at positions 0..n-1, down
// to the final, plus one third-place match at the reserved round.
func GenerateStandard(contextID string, size int) ([]*models.Match, error) {
	if !standardSizes[size] {
		return nil, fmt.Errorf("unsupported bracket size %d (want 4, 8, 16, 32 or 64)", size)
	}

	matches := make([]*models.Match, 0, size)
	for round, count := 1, size/2; count >= 1; round, count = round+1, count/2 {
		for pos := 0; pos < count; pos++ {
			matches = append(matches, &models.Match{
				ContextID: contextID,
				Round:     round,
				Position:  pos,
			})
		}
	}

	matches = append(matches, &models.Match{
		ContextID:    contextID,
		Round:        ThirdPlaceRound,
		Position:     0,
		IsThirdPlace: true,
	})

	return matches, nil
}

// GenerateCustom produces a single-round bracket from manually paired
// matchups. No upper rounds and no third-place match: custom mode is for
// informal skirmishes, not a full elimination tree.
func GenerateCustom(contextID string, pairs []Pairing) ([]*models.Match, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("cannot generate a custom bracket with zero matchups")
	}

	matches := make([]*models.Match, 0, len(pairs))
	for pos, pair := range pairs {
		matches = append(matches, &models.Match{
			ContextID: contextID,
			Round:     1,
			Position:  pos,
			Player1:   pair.Player1,
			Player2:   pair.Player2,
		})
	}
	return matches, nil
}
