package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/pet"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/stats"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/events"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/platform/logger"
)

func newTestEngine() *Engine {
	return NewEngine(events.NewEventLog(nil), logger.NewLogger(), 10)
}

// seedEngine installs a base ledger built by mutate over the defaults.
func seedEngine(mutate func(*stats.PlayerStats)) *Engine {
	e := newTestEngine()
	base := stats.Defaults()
	mutate(&base)
	e.RestoreState(GameState{
		PlayerStats: base,
		Pets:        pet.DefaultRoster(),
		GameLog:     []string{},
	})
	return e
}

func TestTrainRejectedWithoutOro(t *testing.T) {
	e := newTestEngine()
	before := e.Snapshot().PlayerStats

	res := e.TrainStat(stats.KeyFuerza, 0)

	if res.OK {
		t.Fatal("Expected training to be rejected with 0 oro")
	}
	if res.Shortfall != 6 {
		t.Errorf("Expected shortfall of 6 oro for a fresh fuerza session, got %d", res.Shortfall)
	}
	after := e.Snapshot().PlayerStats
	if after != before {
		t.Errorf("Expected no mutation on rejection, got %+v -> %+v", before, after)
	}
}

func TestTrainFuerzaSpendsOro(t *testing.T) {
	e := seedEngine(func(s *stats.PlayerStats) { s.Oro = 100 })

	res := e.TrainStat(stats.KeyFuerza, 0)
	if !res.OK {
		t.Fatalf("Expected training to succeed with 100 oro: %s", res.Message)
	}

	s := e.Snapshot().PlayerStats
	if s.Fuerza != 2 {
		t.Errorf("Expected fuerza 2 after one session, got %d", s.Fuerza)
	}
	if s.Oro != 94 {
		t.Errorf("Expected 94 oro after paying 6, got %d", s.Oro)
	}
}

func TestTrainIncreaseScalesWithDerivedMente(t *testing.T) {
	// Base mente 24, bihurri active: derived mente 25, so one fuerza
	// session yields floor(1 * 25 / 10) = 2.
	e := seedEngine(func(s *stats.PlayerStats) {
		s.Oro = 100
		s.Mente = 24
	})

	res := e.TrainStat(stats.KeyFuerza, 0)
	if !res.OK {
		t.Fatalf("Expected training to succeed: %s", res.Message)
	}
	if got := e.Snapshot().PlayerStats.Fuerza; got != 3 {
		t.Errorf("Expected fuerza 3 with derived mente 25, got %d", got)
	}
}

func TestVelocidadNeverDropsBelowFloor(t *testing.T) {
	e := seedEngine(func(s *stats.PlayerStats) {
		s.Oro = 1000000
		s.Velocidad = 80
	})

	// The -50 session would land at 30; the clamp keeps it at the floor.
	if res := e.TrainStat(stats.KeyVelocidad, 0); !res.OK {
		t.Fatalf("Expected velocidad training to succeed: %s", res.Message)
	}
	if got := e.Snapshot().PlayerStats.Velocidad; got != stats.VelocidadFloor {
		t.Errorf("Expected velocidad clamped at %d, got %d", stats.VelocidadFloor, got)
	}

	// Training at the floor keeps it there.
	e.TrainStat(stats.KeyVelocidad, 0)
	if got := e.Snapshot().PlayerStats.Velocidad; got != stats.VelocidadFloor {
		t.Errorf("Expected velocidad to stay at %d, got %d", stats.VelocidadFloor, got)
	}
}

func TestAlimentacionCapRefusalIsFree(t *testing.T) {
	e := seedEngine(func(s *stats.PlayerStats) {
		s.Oro = 1000
		s.Alimentacion = stats.AlimentacionCap
	})

	res := e.TrainStat(stats.KeyAlimentacion, 0)
	if res.OK {
		t.Fatal("Expected training at the alimentacion cap to be refused")
	}
	if res.Notice.Title != "Límite Alcanzado" {
		t.Errorf("Expected the cap notice, got %+v", res.Notice)
	}
	if got := e.Snapshot().PlayerStats.Oro; got != 1000 {
		t.Errorf("Expected the refusal to be free, oro went from 1000 to %d", got)
	}
}

func TestNegativeTrainingAmountRejected(t *testing.T) {
	e := seedEngine(func(s *stats.PlayerStats) { s.Oro = 1000 })
	before := e.Snapshot().PlayerStats

	// A hostile client can put any amount on the wire; a negative one
	// must never decrement an attribute or drive it below zero.
	if res := e.TrainStat(stats.KeyAngulo, -5); res.OK {
		t.Error("Expected a negative angulo amount to be rejected")
	}
	if res := e.TrainStat(stats.KeyAlimentacion, -3); res.OK {
		t.Error("Expected a negative alimentacion amount to be rejected")
	}
	if res := e.TrainStat(stats.KeyFuerza, -100); res.OK {
		t.Error("Expected a negative fuerza amount to be rejected")
	}

	after := e.Snapshot().PlayerStats
	if after != before {
		t.Errorf("Expected no mutation from rejected amounts, got %+v -> %+v", before, after)
	}
	if after.Angulo < 0 || after.Alimentacion < 0 {
		t.Errorf("Ledger went negative: angulo=%d alimentacion=%d", after.Angulo, after.Alimentacion)
	}
}

func TestPositiveVelocidadAmountRejected(t *testing.T) {
	// Velocidad is a delay: training shrinks it. A positive amount would
	// be a decrement in disguise for the player, so it is refused too.
	e := seedEngine(func(s *stats.PlayerStats) { s.Oro = 1000000 })

	if res := e.TrainStat(stats.KeyVelocidad, 100); res.OK {
		t.Error("Expected a positive velocidad amount to be rejected")
	}
	if got := e.Snapshot().PlayerStats.Velocidad; got != 1000 {
		t.Errorf("Expected velocidad untouched at 1000, got %d", got)
	}

	// The canonical negative session still works.
	if res := e.TrainStat(stats.KeyVelocidad, -50); !res.OK {
		t.Errorf("Expected the -50 session to succeed: %s", res.Message)
	}
	if got := e.Snapshot().PlayerStats.Velocidad; got != 950 {
		t.Errorf("Expected velocidad 950 after one session, got %d", got)
	}
}

func TestUntrainableStatRejected(t *testing.T) {
	e := seedEngine(func(s *stats.PlayerStats) { s.Oro = 1000 })

	if res := e.TrainStat(stats.KeyOro, 0); res.OK {
		t.Error("Expected training oro to be rejected")
	}
}

func TestMeditateGainsFromBaseMente(t *testing.T) {
	// Base mente 5, derived 6 through bihurri. The gain comes from the
	// base: 5/5 + 1 = 2.
	e := seedEngine(func(s *stats.PlayerStats) { s.Mente = 5 })

	res := e.Meditate()
	if !res.OK {
		t.Fatalf("Expected meditation to succeed: %s", res.Message)
	}
	if got := e.PersistentState().PlayerStats.Mente; got != 7 {
		t.Errorf("Expected base mente 7 after meditation, got %d", got)
	}
	if got := e.Snapshot().PlayerStats.Mente; got != 8 {
		t.Errorf("Expected derived mente 8 after meditation, got %d", got)
	}
}

func TestImproveBlade(t *testing.T) {
	e := seedEngine(func(s *stats.PlayerStats) { s.Oro = 100 })

	res := e.ImproveBlade()
	if !res.OK {
		t.Fatalf("Expected blade improvement to succeed: %s", res.Message)
	}

	s := e.Snapshot().PlayerStats
	if s.Filo != 2 {
		t.Errorf("Expected filo 2, got %d", s.Filo)
	}
	if s.Oro != 70 {
		t.Errorf("Expected 70 oro after paying 30, got %d", s.Oro)
	}
	if s.Exp != 2 {
		t.Errorf("Expected 2 exp from the first improvement, got %d", s.Exp)
	}
}

func TestBuyMaterialValidatesSlot(t *testing.T) {
	e := seedEngine(func(s *stats.PlayerStats) { s.Oro = 1000 })

	if res := e.BuyMaterial(stats.KeyFuerza); res.OK {
		t.Error("Expected buying a non-material slot to be rejected")
	}

	res := e.BuyMaterial(stats.KeyMaterialCabeza)
	if !res.OK {
		t.Fatalf("Expected material purchase to succeed: %s", res.Message)
	}
	s := e.Snapshot().PlayerStats
	if s.MaterialCabeza != 2 {
		t.Errorf("Expected materialCabeza 2, got %d", s.MaterialCabeza)
	}
	if s.Oro != 850 {
		t.Errorf("Expected 850 oro after paying 150, got %d", s.Oro)
	}
}

func TestChopWoodAlwaysYields(t *testing.T) {
	e := newTestEngine()

	res := e.ChopWood()
	if !res.OK {
		t.Fatalf("Expected chopping to succeed: %s", res.Message)
	}
	if res.OroGained != 1 || res.ExpGained != 1 {
		t.Errorf("Expected the weakest chop to yield 1/1, got %d/%d", res.OroGained, res.ExpGained)
	}
	if got := e.Snapshot().PlayerStats.Oro; got != 1 {
		t.Errorf("Expected 1 oro in the ledger, got %d", got)
	}
}

func TestChopWoodScalesWithGear(t *testing.T) {
	e := seedEngine(func(s *stats.PlayerStats) {
		s.Fuerza = 10
		s.Angulo = 1
		s.MaterialCabeza = 1
		s.Filo = 1
	})

	// 10 * 1.01 * 1 * 1 = 10.1 -> 5 oro, 1 exp
	res := e.ChopWood()
	if res.OroGained != 5 || res.ExpGained != 1 {
		t.Errorf("Expected 5 oro and 1 exp, got %d/%d", res.OroGained, res.ExpGained)
	}
}

func TestPetToggleShiftsDerivedViewOnly(t *testing.T) {
	e := newTestEngine()
	baseMente := e.PersistentState().PlayerStats.Mente

	if got := e.Snapshot().PlayerStats.Mente; got != baseMente+1 {
		t.Fatalf("Expected derived mente %d with bihurri active, got %d", baseMente+1, got)
	}

	if res := e.SetPetActive(pet.IDBihurri, false); !res.OK {
		t.Fatalf("Expected pet toggle to succeed: %s", res.Message)
	}
	if got := e.Snapshot().PlayerStats.Mente; got != baseMente {
		t.Errorf("Expected derived mente back to %d with bihurri resting, got %d", baseMente, got)
	}
	if got := e.PersistentState().PlayerStats.Mente; got != baseMente {
		t.Errorf("Expected base mente untouched by toggling, got %d", got)
	}

	e.SetPetActive(pet.IDBihurri, true)
	if got := e.Snapshot().PlayerStats.Mente; got != baseMente+1 {
		t.Errorf("Expected derived mente %d after reactivation, got %d", baseMente+1, got)
	}
}

func TestUnknownPetRejected(t *testing.T) {
	e := newTestEngine()
	if res := e.SetPetActive("fantasma", true); res.OK {
		t.Error("Expected toggling an unknown pet to be rejected")
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	e := seedEngine(func(s *stats.PlayerStats) {
		s.Oro = 500
		s.Fuerza = 12
		s.Mente = 7
	})
	e.ChopWood()
	e.TrainStat(stats.KeyFuerza, 0)

	persisted := e.PersistentState()

	restored := newTestEngine()
	restored.RestoreState(persisted)

	if got := restored.PersistentState().PlayerStats; got != persisted.PlayerStats {
		t.Errorf("Expected base ledger to survive a round trip, got %+v want %+v", got, persisted.PlayerStats)
	}
	if got, want := restored.Snapshot().PlayerStats, e.Snapshot().PlayerStats; got != want {
		t.Errorf("Expected derived view to match after restore, got %+v want %+v", got, want)
	}
}

func TestRejectionEmitsEvent(t *testing.T) {
	e := newTestEngine()
	e.TrainStat(stats.KeyFuerza, 0)

	rejections := e.GetEventLog().GetByType(events.EventTypeActionRejected)
	if len(rejections) != 1 {
		t.Fatalf("Expected 1 rejection event, got %d", len(rejections))
	}
	if rejections[0].Stat != string(stats.KeyFuerza) {
		t.Errorf("Expected the rejection to name fuerza, got %q", rejections[0].Stat)
	}
}

func TestGameLogStaysBounded(t *testing.T) {
	e := newTestEngine()
	for i := 0; i < 50; i++ {
		e.ChopWood()
	}
	if got := len(e.Snapshot().GameLog); got != 10 {
		t.Errorf("Expected the journal bounded to 10 lines, got %d", got)
	}
}

func TestMarkSavedAndSaveFailed(t *testing.T) {
	e := newTestEngine()

	at := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	e.MarkSaved(at)
	if got := e.Snapshot().LastSaveTime; got != at.UnixMilli() {
		t.Errorf("Expected last save time %d, got %d", at.UnixMilli(), got)
	}

	e.MarkSaveFailed(errors.New("disk full"))
	failures := e.GetEventLog().GetByType(events.EventTypeSaveFailed)
	if len(failures) != 1 {
		t.Errorf("Expected 1 save failure event, got %d", len(failures))
	}
	// A failed save never rolls back the last successful timestamp.
	if got := e.Snapshot().LastSaveTime; got != at.UnixMilli() {
		t.Errorf("Expected last save time untouched by the failure, got %d", got)
	}
}
