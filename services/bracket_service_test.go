package services

import (
	"testing"

	"github.com/blackrose-gg/guild-system/arena"
	"github.com/blackrose-gg/guild-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPodiumToWinners(t *testing.T) {
	p := &arena.Podium{
		First:  &models.PlayerSnapshot{UID: "a", DisplayName: "Aeris"},
		Second: &models.PlayerSnapshot{UID: "b", DisplayName: "Borin"},
		Third:  &models.PlayerSnapshot{UID: "c", DisplayName: "Cyra"},
	}

	winners := podiumToWinners(p)
	require.Len(t, winners, 3)

	byRank := map[int]models.ArenaWinner{}
	for _, w := range winners {
		byRank[w.Rank] = w
		assert.False(t, w.RecordedAt.IsZero())
	}
	assert.Equal(t, "a", byRank[1].UID)
	assert.Equal(t, "b", byRank[2].UID)
	assert.Equal(t, "c", byRank[3].UID)
}

func TestPodiumToWinnersPartial(t *testing.T) {
	// Third place undecided: only two entries are frozen.
	p := &arena.Podium{
		First:  &models.PlayerSnapshot{UID: "a"},
		Second: &models.PlayerSnapshot{UID: "b"},
	}
	winners := podiumToWinners(p)
	require.Len(t, winners, 2)

	assert.Nil(t, podiumToWinners(nil))
}

func TestMapArenaError(t *testing.T) {
	assert.ErrorIs(t, mapArenaError(arena.ErrMatchNotFound), ErrMatchNotFound)
	assert.ErrorIs(t, mapArenaError(arena.ErrMatchNotReady), ErrValidationFailed)
	assert.ErrorIs(t, mapArenaError(arena.ErrNotAPlayer), ErrValidationFailed)
	assert.ErrorIs(t, mapArenaError(arena.ErrInvalidSlot), ErrValidationFailed)
	assert.ErrorIs(t, mapArenaError(arena.ErrAlreadyAssigned), ErrValidationFailed)
}
