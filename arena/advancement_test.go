package arena

import (
	"testing"

	"github.com/blackrose-gg/guild-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBracket generates a standard bracket, assigns match ids and fills round 1
// with players p1..pN in position order.
func newBracket(t *testing.T, size int) []*models.Match {
	t.Helper()
	matches, err := GenerateStandard("ctx", size)
	require.NoError(t, err)
	for i, m := range matches {
		m.ID = i + 1
	}
	idx := 1
	for round1Pos := 0; round1Pos < size/2; round1Pos++ {
		m := MatchAt(matches, 1, round1Pos)
		require.NotNil(t, m)
		m.Player1 = snap(uid(idx))
		m.Player2 = snap(uid(idx + 1))
		idx += 2
	}
	return matches
}

func uid(n int) string {
	return string(rune('a' + n - 1))
}

func declare(t *testing.T, matches []*models.Match, round, pos int, winnerUID string) bool {
	t.Helper()
	m := MatchAt(matches, round, pos)
	require.NotNil(t, m)
	_, champion, err := DeclareWinner(matches, m.ID, winnerUID)
	require.NoError(t, err)
	return champion
}

func TestDeclareWinnerSizeFourScenario(t *testing.T) {
	matches := newBracket(t, 4) // (1,0): a vs b, (1,1): c vs d

	champion := declare(t, matches, 1, 0, "a")
	assert.False(t, champion)
	champion = declare(t, matches, 1, 1, "c")
	assert.False(t, champion)

	final := MatchAt(matches, 2, 0)
	require.NotNil(t, final.Player1)
	require.NotNil(t, final.Player2)
	assert.Equal(t, "a", final.Player1.UID, "even position feeds player1")
	assert.Equal(t, "c", final.Player2.UID, "odd position feeds player2")

	tp := thirdPlaceMatch(matches)
	require.NotNil(t, tp)
	require.NotNil(t, tp.Player1)
	require.NotNil(t, tp.Player2)
	assert.Equal(t, "b", tp.Player1.UID, "semifinal pos 0 loser lands in slot 1")
	assert.Equal(t, "d", tp.Player2.UID, "semifinal pos 1 loser lands in slot 2")

	champion = declare(t, matches, 2, 0, "a")
	assert.True(t, champion, "deciding the final concludes the tournament")

	podium := ResolvePodium(matches)
	require.NotNil(t, podium)
	assert.Equal(t, "a", podium.First.UID)
	assert.Equal(t, "c", podium.Second.UID)
	assert.Nil(t, podium.Third, "third place undecided")

	champion = declare(t, matches, ThirdPlaceRound, 0, "d")
	assert.False(t, champion, "third place never signals completion")
	podium = ResolvePodium(matches)
	assert.Equal(t, "d", podium.Third.UID)
}

func TestDeclareWinnerIdempotent(t *testing.T) {
	matches := newBracket(t, 4)
	declare(t, matches, 1, 0, "a")
	declare(t, matches, 1, 0, "a")

	final := MatchAt(matches, 2, 0)
	assert.Equal(t, "a", final.Player1.UID)
	assert.Nil(t, final.Player2)
	assert.Nil(t, final.Winner, "re-confirming the same winner must not disturb downstream state")

	tp := thirdPlaceMatch(matches)
	assert.Equal(t, "b", tp.Player1.UID)
}

func TestDeclareWinnerValidation(t *testing.T) {
	matches := newBracket(t, 4)
	m := MatchAt(matches, 1, 0)

	_, _, err := DeclareWinner(matches, m.ID, "z")
	assert.ErrorIs(t, err, ErrNotAPlayer)

	final := MatchAt(matches, 2, 0)
	_, _, err = DeclareWinner(matches, final.ID, "a")
	assert.ErrorIs(t, err, ErrMatchNotReady)

	_, _, err = DeclareWinner(matches, 9999, "a")
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

// advanceFully plays an 8-bracket to completion: a, c, e, g win round 1,
// a and e win the semifinals, a wins the final.
func advanceFully(t *testing.T) []*models.Match {
	t.Helper()
	matches := newBracket(t, 8)
	for pos, w := range []string{"a", "c", "e", "g"} {
		declare(t, matches, 1, pos, w)
	}
	declare(t, matches, 2, 0, "a")
	declare(t, matches, 2, 1, "e")
	champion := declare(t, matches, 3, 0, "a")
	require.True(t, champion)
	return matches
}

func TestCascadeInvalidationOnRedeclare(t *testing.T) {
	matches := advanceFully(t)

	// b replaces a in (1,0); a's whole downstream record must be voided.
	declare(t, matches, 1, 0, "b")

	semi := MatchAt(matches, 2, 0)
	assert.Equal(t, "b", semi.Player1.UID)
	assert.Nil(t, semi.Winner, "immediate downstream winner invalidated")

	final := MatchAt(matches, 3, 0)
	assert.Nil(t, final.Player1, "stale finalist removed")
	assert.Nil(t, final.Winner, "final on the invalidated path loses its winner")
	assert.Equal(t, "e", final.Player2.UID, "untouched branch survives")

	assert.Nil(t, ResolvePodium(matches))
}

func TestRedeclareSemifinalReroutesThirdPlace(t *testing.T) {
	matches := advanceFully(t)
	tp := thirdPlaceMatch(matches)
	require.Equal(t, "c", tp.Player1.UID)
	require.Equal(t, "g", tp.Player2.UID)

	declare(t, matches, ThirdPlaceRound, 0, "g")
	require.NotNil(t, tp.Winner)

	// c now wins the semifinal instead: a becomes the loser and takes c's
	// third-place slot, the stale third-place result is invalidated.
	declare(t, matches, 2, 0, "c")
	assert.Equal(t, "a", tp.Player1.UID)
	assert.Nil(t, tp.Winner)

	final := MatchAt(matches, 3, 0)
	assert.Equal(t, "c", final.Player1.UID)
	assert.Nil(t, final.Winner)
}

func TestClearSlotIsOneWay(t *testing.T) {
	matches := newBracket(t, 4)
	declare(t, matches, 1, 0, "a")

	m := MatchAt(matches, 1, 0)
	changed, err := ClearSlot(matches, m.ID, Slot1)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Nil(t, m.Player1)
	assert.Nil(t, m.Winner)

	// Clearing does not un-advance: the final keeps the slot a already won.
	final := MatchAt(matches, 2, 0)
	assert.Equal(t, "a", final.Player1.UID)

	_, err = ClearSlot(matches, m.ID, Slot(3))
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestAssignSlotRejectsDoubleAssignment(t *testing.T) {
	matches := newBracket(t, 4)
	m := MatchAt(matches, 2, 0)

	_, err := AssignSlot(matches, m.ID, Slot1, snap("a"))
	assert.ErrorIs(t, err, ErrAlreadyAssigned, "a already sits in round 1")

	changed, err := AssignSlot(matches, m.ID, Slot1, snap("x"))
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, "x", m.Player1.UID)
	assert.Nil(t, m.Winner)
}

func TestScrubParticipant(t *testing.T) {
	matches := newBracket(t, 4)
	declare(t, matches, 1, 0, "a")

	// a occupies (1,0) as winner and the final's player1.
	changed := ScrubParticipant(matches, "a")
	assert.Len(t, changed, 2)

	m := MatchAt(matches, 1, 0)
	assert.Nil(t, m.Player1)
	assert.Nil(t, m.Winner)
	assert.Equal(t, "b", m.Player2.UID)

	final := MatchAt(matches, 2, 0)
	assert.Nil(t, final.Player1)

	assert.Empty(t, ScrubParticipant(matches, "zz"))
}
