package arena

import (
	"fmt"
	"testing"

	"github.com/blackrose-gg/guild-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateStandardShape(t *testing.T) {
	for _, size := range []int{4, 8, 16, 32, 64} {
		t.Run(fmt.Sprintf("size_%d", size), func(t *testing.T) {
			matches, err := GenerateStandard("ctx", size)
			require.NoError(t, err)

			var numbered, third int
			seen := make(map[[2]int]bool)
			perRound := make(map[int]int)
			for _, m := range matches {
				if m.IsThirdPlace {
					third++
					assert.Equal(t, ThirdPlaceRound, m.Round)
					continue
				}
				numbered++
				key := [2]int{m.Round, m.Position}
				assert.False(t, seen[key], "duplicate (round, position) %v", key)
				seen[key] = true
				perRound[m.Round]++
				assert.Nil(t, m.Player1)
				assert.Nil(t, m.Player2)
				assert.Nil(t, m.Winner)
			}

			assert.Equal(t, size-1, numbered, "numbered bracket must hold N-1 matches")
			assert.Equal(t, 1, third)

			for round, want := 1, size/2; want >= 1; round, want = round+1, want/2 {
				assert.Equal(t, want, perRound[round], "round %d", round)
			}
			assert.Equal(t, 1, perRound[MaxRound(matches)], "final round holds one match")
		})
	}
}

func TestGenerateStandardRejectsBadSizes(t *testing.T) {
	for _, size := range []int{0, 2, 3, 5, 6, 12, 128} {
		_, err := GenerateStandard("ctx", size)
		assert.Error(t, err, "size %d", size)
	}
}

func TestGenerateCustom(t *testing.T) {
	pairs := []Pairing{
		{Player1: snap("a"), Player2: snap("b")},
		{Player1: snap("c"), Player2: snap("d")},
		{Player1: snap("e"), Player2: snap("f")},
	}
	matches, err := GenerateCustom("ctx", pairs)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	for i, m := range matches {
		assert.Equal(t, 1, m.Round)
		assert.Equal(t, i, m.Position)
		assert.False(t, m.IsThirdPlace)
		assert.Equal(t, pairs[i].Player1.UID, m.Player1.UID)
		assert.Equal(t, pairs[i].Player2.UID, m.Player2.UID)
	}

	_, err = GenerateCustom("ctx", nil)
	assert.Error(t, err)
}

func snap(uid string) *models.PlayerSnapshot {
	return &models.PlayerSnapshot{UID: uid, DisplayName: "player " + uid}
}
