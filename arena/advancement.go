package arena

import (
	"errors"

	"github.com/blackrose-gg/guild-system/models"
)

var (
	ErrMatchNotFound   = errors.New("match not found in bracket")
	ErrMatchNotReady   = errors.New("match does not have both players assigned")
	ErrNotAPlayer      = errors.New("declared winner is not a player of this match")
	ErrInvalidSlot     = errors.New("invalid match slot")
	ErrAlreadyAssigned = errors.New("participant already occupies a slot in this bracket")
)

// Slot addresses one of the two player positions of a match.
type Slot int

const (
	Slot1 Slot = 1
	Slot2 Slot = 2
)

// slotForPosition maps a match's position parity to the slot its winner (or
// semifinal loser) lands in one round up: even positions feed player1, odd
// positions feed player2. The mapping is fixed so both semifinals route their
// losers into a stable third-place pairing.
func slotForPosition(pos int) Slot {
	if pos%2 == 0 {
		return Slot1
	}
	return Slot2
}

func getSlot(m *models.Match, s Slot) *models.PlayerSnapshot {
	if s == Slot1 {
		return m.Player1
	}
	return m.Player2
}

func setSlot(m *models.Match, s Slot, p *models.PlayerSnapshot) {
	if s == Slot1 {
		m.Player1 = p
	} else {
		m.Player2 = p
	}
}

// FindByID returns the match with the given id, or nil.
func FindByID(matches []*models.Match, id int) *models.Match {
	for _, m := range matches {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// MatchAt returns the non-third-place match at (round, position), or nil.
func MatchAt(matches []*models.Match, round, position int) *models.Match {
	for _, m := range matches {
		if !m.IsThirdPlace && m.Round == round && m.Position == position {
			return m
		}
	}
	return nil
}

// MaxRound returns the highest round among non-third-place matches, zero for
// an empty bracket.
func MaxRound(matches []*models.Match) int {
	max := 0
	for _, m := range matches {
		if !m.IsThirdPlace && m.Round > max {
			max = m.Round
		}
	}
	return max
}

func thirdPlaceMatch(matches []*models.Match) *models.Match {
	for _, m := range matches {
		if m.IsThirdPlace {
			return m
		}
	}
	return nil
}

type changeSet struct {
	order []*models.Match
	seen  map[*models.Match]bool
}

func newChangeSet() *changeSet {
	return &changeSet{seen: make(map[*models.Match]bool)}
}

func (c *changeSet) add(m *models.Match) {
	if !c.seen[m] {
		c.seen[m] = true
		c.order = append(c.order, m)
	}
}

// DeclareWinner records the winner of a match and computes every resulting
// bracket mutation: advancement into the next round's slot, semifinal loser
// routing into the third-place match, and transitive invalidation of any
// downstream results the displaced participant had produced. It returns the
// mutated matches (to be written in one batch) and whether the declaration
// concluded the tournament.
func DeclareWinner(matches []*models.Match, matchID int, winnerUID string) ([]*models.Match, bool, error) {
	m := FindByID(matches, matchID)
	if m == nil {
		return nil, false, ErrMatchNotFound
	}
	if m.Player1 == nil || m.Player2 == nil {
		return nil, false, ErrMatchNotReady
	}

	var winner, loser *models.PlayerSnapshot
	switch winnerUID {
	case m.Player1.UID:
		winner, loser = m.Player1, m.Player2
	case m.Player2.UID:
		winner, loser = m.Player2, m.Player1
	default:
		return nil, false, ErrNotAPlayer
	}

	changed := newChangeSet()
	m.Winner = winner
	changed.add(m)

	// Third-place results are informational only and advance nowhere.
	if m.IsThirdPlace {
		return changed.order, false, nil
	}

	maxRound := MaxRound(matches)

	if m.Round == maxRound-1 {
		if tp := thirdPlaceMatch(matches); tp != nil && loser != nil {
			writeSlot(tp, slotForPosition(m.Position), loser, changed)
		}
	}

	next := MatchAt(matches, m.Round+1, m.Position/2)
	if next != nil {
		displaced := getSlot(next, slotForPosition(m.Position))
		writeSlot(next, slotForPosition(m.Position), winner, changed)
		if displaced != nil && displaced.UID != winner.UID {
			invalidateDownstream(matches, next, displaced.UID, changed)
		}
		return changed.order, false, nil
	}

	// No downstream match at the computed coordinate: the final has been
	// decided.
	return changed.order, m.Round == maxRound, nil
}

// writeSlot assigns a participant into a match slot. Re-confirming the same
// occupant only refreshes the snapshot; replacing a different one invalidates
// the match's own result, which must be re-declared.
func writeSlot(m *models.Match, s Slot, p *models.PlayerSnapshot, changed *changeSet) {
	prev := getSlot(m, s)
	setSlot(m, s, p)
	if prev == nil || prev.UID != p.UID {
		m.Winner = nil
	}
	changed.add(m)
}

// invalidateDownstream walks the advancement path above the given match and
// undoes everything the displaced participant had earned: wherever the stale
// uid still occupies the expected upstream slot, the slot and that match's
// winner are cleared, transitively until the chain breaks.
func invalidateDownstream(matches []*models.Match, from *models.Match, staleUID string, changed *changeSet) {
	cur := from
	for {
		parent := MatchAt(matches, cur.Round+1, cur.Position/2)
		if parent == nil {
			return
		}
		s := slotForPosition(cur.Position)
		occupant := getSlot(parent, s)
		if occupant == nil || occupant.UID != staleUID {
			return
		}
		setSlot(parent, s, nil)
		parent.Winner = nil
		changed.add(parent)
		cur = parent
	}
}

// ClearSlot empties a player slot and resets the match to undecided. It does
// not walk forward to un-advance anything previously pushed downstream; that
// asymmetry matches the editor's manual-override semantics.
func ClearSlot(matches []*models.Match, matchID int, s Slot) ([]*models.Match, error) {
	if s != Slot1 && s != Slot2 {
		return nil, ErrInvalidSlot
	}
	m := FindByID(matches, matchID)
	if m == nil {
		return nil, ErrMatchNotFound
	}
	setSlot(m, s, nil)
	m.Winner = nil
	return []*models.Match{m}, nil
}

// AssignSlot places a participant into a slot by drag-and-drop. A participant
// already occupying any player slot in the bracket cannot be assigned twice.
func AssignSlot(matches []*models.Match, matchID int, s Slot, p *models.PlayerSnapshot) ([]*models.Match, error) {
	if s != Slot1 && s != Slot2 {
		return nil, ErrInvalidSlot
	}
	m := FindByID(matches, matchID)
	if m == nil {
		return nil, ErrMatchNotFound
	}
	for _, other := range matches {
		if (other.Player1 != nil && other.Player1.UID == p.UID) ||
			(other.Player2 != nil && other.Player2.UID == p.UID) {
			return nil, ErrAlreadyAssigned
		}
	}
	setSlot(m, s, p)
	m.Winner = nil
	return []*models.Match{m}, nil
}

// ScrubParticipant removes a departing participant from every slot they
// occupy, resetting the affected matches to undecided. Used when an approved
// member leaves voluntarily.
func ScrubParticipant(matches []*models.Match, uid string) []*models.Match {
	changed := newChangeSet()
	for _, m := range matches {
		touched := false
		if m.Player1 != nil && m.Player1.UID == uid {
			m.Player1 = nil
			touched = true
		}
		if m.Player2 != nil && m.Player2.UID == uid {
			m.Player2 = nil
			touched = true
		}
		if touched || (m.Winner != nil && m.Winner.UID == uid) {
			m.Winner = nil
			changed.add(m)
		}
	}
	return changed.order
}
