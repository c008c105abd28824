package arena

import (
	"fmt"
	"testing"

	"github.com/blackrose-gg/guild-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approvedList(n int) []*models.Participant {
	out := make([]*models.Participant, n)
	for i := range out {
		out[i] = &models.Participant{
			UID:         fmt.Sprintf("u%02d", i),
			DisplayName: fmt.Sprintf("member %d", i),
			Status:      models.ParticipantApproved,
		}
	}
	return out
}

func TestShuffleAssignsEveryoneOnce(t *testing.T) {
	matches := advanceFully(t) // decided bracket: shuffle must wipe it all

	Shuffle(matches, approvedList(8))

	occupancy := make(map[string]int)
	for _, m := range matches {
		assert.Nil(t, m.Winner, "every previously declared winner is cleared")
		if m.IsThirdPlace || m.Round != 1 {
			if m.Round != 1 {
				assert.Nil(t, m.Player1)
				assert.Nil(t, m.Player2)
			}
			continue
		}
		if m.Player1 != nil {
			occupancy[m.Player1.UID]++
		}
		if m.Player2 != nil {
			occupancy[m.Player2.UID]++
		}
	}

	require.Len(t, occupancy, 8, "all approved participants seated")
	for uid, count := range occupancy {
		assert.Equal(t, 1, count, "participant %s seated once", uid)
	}
}

func TestShuffleShortList(t *testing.T) {
	matches := newBracket(t, 8)
	Shuffle(matches, approvedList(5))

	var seated, emptySlots int
	for _, m := range matches {
		if m.IsThirdPlace || m.Round != 1 {
			continue
		}
		for _, p := range []*models.PlayerSnapshot{m.Player1, m.Player2} {
			if p != nil {
				seated++
			} else {
				emptySlots++
			}
		}
	}
	assert.Equal(t, 5, seated)
	assert.Equal(t, 3, emptySlots, "trailing slots stay empty when the list runs out")
}
