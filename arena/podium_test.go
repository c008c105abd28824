package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePodiumEightBracket(t *testing.T) {
	matches := advanceFully(t)
	declare(t, matches, ThirdPlaceRound, 0, "c")

	podium := ResolvePodium(matches)
	require.NotNil(t, podium)
	assert.Equal(t, "a", podium.First.UID)
	assert.Equal(t, "e", podium.Second.UID)
	assert.Equal(t, "c", podium.Third.UID)
}

func TestResolvePodiumUndecidedFinal(t *testing.T) {
	matches := newBracket(t, 4)
	declare(t, matches, 1, 0, "a")
	assert.Nil(t, ResolvePodium(matches))
}

func TestPickLiveMatchPriority(t *testing.T) {
	matches := newBracket(t, 8)

	// All of round 1 is ready: lowest position wins the tie.
	live := PickLiveMatch(matches)
	require.NotNil(t, live)
	assert.Equal(t, 1, live.Round)
	assert.Equal(t, 0, live.Position)

	// A ready semifinal outranks every round-1 match.
	declare(t, matches, 1, 2, "e")
	declare(t, matches, 1, 3, "g")
	live = PickLiveMatch(matches)
	assert.Equal(t, 2, live.Round)
	assert.Equal(t, 1, live.Position)

	// Decided matches drop out of consideration.
	declare(t, matches, 2, 1, "e")
	live = PickLiveMatch(matches)
	assert.Equal(t, 1, live.Round)
	assert.Equal(t, 0, live.Position)
}

func TestPickLiveMatchEmptyBracket(t *testing.T) {
	matches, err := GenerateStandard("ctx", 4)
	require.NoError(t, err)
	assert.Nil(t, PickLiveMatch(matches))
}
