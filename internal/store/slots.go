package store

import "strings"

const DefaultPrefix = "mediConsult_"

// Slot is a key relative to the store prefix.
type Slot string

const (
	SlotUsers      Slot = "users"
	SlotAdminCreds Slot = "adminCreds"
	SlotSettings   Slot = "settings"
	SlotOrders     Slot = "orders"
	SlotPriceList  Slot = "priceList"
	SlotHistory    Slot = "history"
)

const (
	kindProfile   = "profile"
	kindLastCount = "lastCount"
	kindSession   = "session"
)

func ProfileSlot(userID string) Slot      { return Slot(kindProfile + "_" + userID) }
func LastCountSlot(patientID string) Slot { return Slot(kindLastCount + "_" + patientID) }
func SessionSlot(sessionID string) Slot   { return Slot(kindSession + "_" + sessionID) }

// Kind strips the per-entity suffix, so every profile_<id> slot shares the
// migrations registered for "profile".
func (s Slot) Kind() string {
	if i := strings.IndexByte(string(s), '_'); i > 0 {
		return string(s[:i])
	}
	return string(s)
}
