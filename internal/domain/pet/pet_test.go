package pet

import (
	"testing"

	"github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/stats"
)

func TestDefaultRoster(t *testing.T) {
	roster := DefaultRoster()
	if len(roster) != 2 {
		t.Fatalf("Expected 2 companions in the default roster, got %d", len(roster))
	}

	bihurri := roster[0]
	if bihurri.ID != IDBihurri || !bihurri.IsActive {
		t.Errorf("Expected bihurri active by default, got %s active=%v", bihurri.ID, bihurri.IsActive)
	}
	if bihurri.Bonus == nil {
		t.Error("Expected bihurri to carry its behavior")
	}

	mishi := roster[1]
	if mishi.ID != IDMishi || mishi.IsActive {
		t.Errorf("Expected mishi inactive by default, got %s active=%v", mishi.ID, mishi.IsActive)
	}
}

func TestComposeBonusIsIdempotent(t *testing.T) {
	base := stats.Defaults()
	roster := DefaultRoster()

	first := ComposeBonus(base, roster)
	second := ComposeBonus(base, roster)

	if first != second {
		t.Errorf("Expected identical deltas on repeated composition, got %+v then %+v", first, second)
	}
	if first.Mente != 1 {
		t.Errorf("Expected +1 mente from active bihurri, got %d", first.Mente)
	}
}

func TestComposeBonusSkipsInactivePets(t *testing.T) {
	base := stats.Defaults()
	roster := DefaultRoster()
	roster[0].IsActive = false

	delta := ComposeBonus(base, roster)
	if delta != (stats.Delta{}) {
		t.Errorf("Expected zero delta with every pet inactive, got %+v", delta)
	}
}

func TestResolveKeepsStoredActivation(t *testing.T) {
	stored := Pet{ID: IDBihurri, IsActive: false}
	resolved := Resolve(stored)

	if resolved.IsActive {
		t.Error("Expected the persisted isActive flag to survive resolution")
	}
	if resolved.Nombre != "Bihurri" {
		t.Errorf("Expected display fields restored from the catalog, got %q", resolved.Nombre)
	}
	if resolved.Bonus == nil {
		t.Fatal("Expected behavior re-attached from the catalog")
	}
	if d := resolved.Bonus(stats.Defaults()); d.Mente != 1 {
		t.Errorf("Expected cataloged bonus of +1 mente, got %+v", d)
	}
}

func TestResolveUnknownPet(t *testing.T) {
	stored := Pet{ID: "fantasma", Nombre: "Fantasma", IsActive: true}
	resolved := Resolve(stored)

	if resolved.Nombre != "Fantasma" {
		t.Errorf("Expected unknown pet to keep its stored display fields, got %q", resolved.Nombre)
	}
	if resolved.Bonus == nil {
		t.Fatal("Expected unknown pet to receive a no-op bonus")
	}
	if d := resolved.Bonus(stats.Defaults()); d != (stats.Delta{}) {
		t.Errorf("Expected no-op bonus for unknown pet, got %+v", d)
	}
}
