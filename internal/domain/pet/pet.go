// Package pet defines the companion entities that grant passive bonuses.
// This package is PURE and must NOT import any infrastructure packages.
//
// ARCHITECTURAL RULE: a pet's behavior is code, not data. The snapshot only
// persists identity and display fields; the bonus function is re-resolved
// from the catalog below on every load. A behavior coming from storage is
// never trusted.
package pet

import "github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/stats"

// ID identifies a known companion.
type ID string

const (
	IDBihurri ID = "bihurri"
	IDMishi   ID = "mishi"
)

// BonusEffect maps the current base ledger to a passive adjustment.
// Effects must derive their contribution from the base every time they run;
// they must never accumulate across calls.
type BonusEffect func(base stats.PlayerStats) stats.Delta

// Pet represents an owned companion.
type Pet struct {
	ID        ID     `json:"id"`
	Nombre    string `json:"nombre"`
	Tipo      string `json:"tipo"`
	SpriteURL string `json:"spriteUrl"`
	BonusText string `json:"bonusText"`
	IsActive  bool   `json:"isActive"`

	// Not serialized. Resolved from the catalog by ID.
	Bonus BonusEffect `json:"-"`
}

// catalog is the closed set of known companions and their behavior.
var catalog = map[ID]Pet{
	IDBihurri: {
		ID:        IDBihurri,
		Nombre:    "Bihurri",
		Tipo:      "Entrenador",
		SpriteURL: "/sprites/pet-bihurri-sprite.png",
		BonusText: "+1 Mente (Pasivo)",
		IsActive:  true,
		Bonus: func(base stats.PlayerStats) stats.Delta {
			return stats.Delta{Mente: 1}
		},
	},
	IDMishi: {
		ID:        IDMishi,
		Nombre:    "Mishi",
		Tipo:      "Gato Místico",
		SpriteURL: "/sprites/pet-mishi-sprite.png",
		BonusText: "Aumenta eficiencia (temporal)",
		IsActive:  false,
		// Mishi's bonus is a timed effect, not a passive one. It contributes
		// nothing to the passive composition.
		Bonus: func(base stats.PlayerStats) stats.Delta {
			return stats.Delta{}
		},
	},
}

// DefaultRoster returns the companions a fresh game starts with, behavior
// attached, in a stable order.
func DefaultRoster() []Pet {
	return []Pet{catalog[IDBihurri], catalog[IDMishi]}
}

// Resolve attaches the cataloged behavior and display fields to a pet
// recovered from storage, keeping the persisted isActive flag. Unknown
// IDs keep their stored display fields and get a no-op bonus.
func Resolve(stored Pet) Pet {
	def, known := catalog[stored.ID]
	if !known {
		stored.Bonus = func(stats.PlayerStats) stats.Delta { return stats.Delta{} }
		return stored
	}
	out := def
	out.IsActive = stored.IsActive
	return out
}

// ComposeBonus sums the passive contributions of every active pet against
// the given base ledger. Calling it twice with the same base yields the
// same delta: composition is idempotent.
func ComposeBonus(base stats.PlayerStats, pets []Pet) stats.Delta {
	var total stats.Delta
	for _, p := range pets {
		if !p.IsActive || p.Bonus == nil {
			continue
		}
		total.Add(p.Bonus(base))
	}
	return total
}
