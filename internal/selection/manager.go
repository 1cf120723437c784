package selection

import (
	"net/http"
	"slices"

	"github.com/nekogravitycat/hotel-booking-backend/internal/pkg/apperror"
)

var ErrSlotOutOfRange = apperror.New(http.StatusBadRequest, "room slot does not exist")

// ChosenRoom records the room picked for one requested slot.
type ChosenRoom struct {
	Index  int
	RoomID string
}

// Manager tracks which room is chosen for each slot of the current search
// result. There is at most one chosen room per slot.
// Manager is not safe for concurrent use.
type Manager struct {
	slots  int
	active int
	chosen []ChosenRoom
}

func NewManager() *Manager {
	return &Manager{}
}

// Reset starts a new selection for a result with the given number of slots.
func (m *Manager) Reset(slots int) {
	m.slots = slots
	m.active = 0
	m.chosen = nil
}

// Select chooses roomID for slot, replacing any earlier choice for it.
func (m *Manager) Select(slot int, roomID string) error {
	if slot < 0 || slot >= m.slots {
		return ErrSlotOutOfRange
	}
	for i := range m.chosen {
		if m.chosen[i].Index == slot {
			m.chosen[i].RoomID = roomID
			return nil
		}
	}
	m.chosen = append(m.chosen, ChosenRoom{Index: slot, RoomID: roomID})
	return nil
}

// Remove drops the choice of roomID for slot. It reports whether anything
// was removed.
func (m *Manager) Remove(slot int, roomID string) bool {
	before := len(m.chosen)
	m.chosen = slices.DeleteFunc(m.chosen, func(c ChosenRoom) bool {
		return c.Index == slot && c.RoomID == roomID
	})
	return len(m.chosen) != before
}

// SetActive switches the slot whose candidates are being shown.
func (m *Manager) SetActive(slot int) error {
	if slot < 0 || slot >= m.slots {
		return ErrSlotOutOfRange
	}
	m.active = slot
	return nil
}

func (m *Manager) Active() int {
	return m.active
}

func (m *Manager) Slots() int {
	return m.slots
}

// Chosen returns a copy of the choices in the order they were made.
func (m *Manager) Chosen() []ChosenRoom {
	return slices.Clone(m.chosen)
}

// Sorted returns a copy of the choices ordered by slot index.
func (m *Manager) Sorted() []ChosenRoom {
	out := slices.Clone(m.chosen)
	slices.SortFunc(out, func(a, b ChosenRoom) int {
		return a.Index - b.Index
	})
	return out
}
