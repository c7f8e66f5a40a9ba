package rules

import (
	"testing"

	"github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/stats"
)

func TestTrainingCostCurve(t *testing.T) {
	// Fresh attribute at 1 costs 6, the documented entry price
	if got := TrainingCost(1); got != 6 {
		t.Errorf("Expected training cost 6 for value 1, got %d", got)
	}

	// Costs must grow monotonically with the attribute value
	prev := TrainingCost(1)
	for v := 2; v <= 100; v++ {
		cost := TrainingCost(v)
		if cost < prev {
			t.Errorf("Training cost dropped from %d to %d at value %d", prev, cost, v)
		}
		prev = cost
	}
}

func TestBladeCost(t *testing.T) {
	if got := BladeCost(1); got != 30 {
		t.Errorf("Expected first blade improvement to cost 30, got %d", got)
	}
	if got := BladeCost(4); got != 100 {
		t.Errorf("Expected blade cost 100 at filo 4, got %d", got)
	}
}

func TestMaterialCost(t *testing.T) {
	if got := MaterialCost(1); got != 150 {
		t.Errorf("Expected first material upgrade to cost 150, got %d", got)
	}
	if got := MaterialCost(3); got != 550 {
		t.Errorf("Expected material cost 550 at level 3, got %d", got)
	}
}

func TestTrainingIncreaseScalesWithMente(t *testing.T) {
	// Fuerza gain scales with mental aptitude
	if got := TrainingIncrease(stats.KeyFuerza, 1, 10); got != 1 {
		t.Errorf("Expected fuerza increase 1 with mente 10, got %d", got)
	}
	if got := TrainingIncrease(stats.KeyFuerza, 1, 25); got != 2 {
		t.Errorf("Expected fuerza increase 2 with mente 25, got %d", got)
	}

	// Low mente never produces a zero session
	if got := TrainingIncrease(stats.KeyResistencia, 1, 3); got != 1 {
		t.Errorf("Expected minimum increase of 1 with low mente, got %d", got)
	}

	// Non-physical attributes gain the requested amount verbatim
	if got := TrainingIncrease(stats.KeyAngulo, 1, 50); got != 1 {
		t.Errorf("Expected angulo increase to ignore mente, got %d", got)
	}
	if got := TrainingIncrease(stats.KeyVelocidad, VelocidadTrainAmount, 50); got != -50 {
		t.Errorf("Expected velocidad delta to pass through, got %d", got)
	}
}

func TestMeditationIncrease(t *testing.T) {
	if got := MeditationIncrease(1); got != 1 {
		t.Errorf("Expected meditation gain 1 at mente 1, got %d", got)
	}
	if got := MeditationIncrease(5); got != 2 {
		t.Errorf("Expected meditation gain 2 at mente 5, got %d", got)
	}
	if got := MeditationIncrease(12); got != 3 {
		t.Errorf("Expected meditation gain 3 at mente 12, got %d", got)
	}
}

func TestClampVelocidad(t *testing.T) {
	if got := ClampVelocidad(30); got != stats.VelocidadFloor {
		t.Errorf("Expected velocidad clamped to %d, got %d", stats.VelocidadFloor, got)
	}
	if got := ClampVelocidad(1000); got != 1000 {
		t.Errorf("Expected velocidad 1000 untouched, got %d", got)
	}
	if got := ClampVelocidad(stats.VelocidadFloor); got != stats.VelocidadFloor {
		t.Errorf("Expected velocidad at the floor untouched, got %d", got)
	}
}

func TestTrainingExp(t *testing.T) {
	// Velocidad training is rewarded by what it cost
	if got := TrainingExp(stats.KeyVelocidad, 20, -50); got != 10 {
		t.Errorf("Expected velocidad exp 10 from cost 20, got %d", got)
	}

	// Everything else is rewarded by the magnitude of the gain
	if got := TrainingExp(stats.KeyFuerza, 100, 5); got != 2 {
		t.Errorf("Expected fuerza exp 2 from increase 5, got %d", got)
	}
}

func TestBladeExp(t *testing.T) {
	if got := BladeExp(1); got != 2 {
		t.Errorf("Expected blade exp 2 at filo 1, got %d", got)
	}
	if got := BladeExp(7); got != 14 {
		t.Errorf("Expected blade exp 14 at filo 7, got %d", got)
	}
}

func TestChopEffective(t *testing.T) {
	s := stats.Defaults()
	s.Fuerza = 10
	s.Angulo = 1
	s.MaterialCabeza = 1
	s.Filo = 1

	// 10 * 1.01 * 1 * 1.1^0 = 10.1
	got := ChopEffective(s)
	if got < 10.0999 || got > 10.1001 {
		t.Errorf("Expected chop effectiveness 10.1, got %f", got)
	}
}

func TestChopYield(t *testing.T) {
	oro, exp := ChopYield(10.1)
	if oro != 5 {
		t.Errorf("Expected 5 oro from effectiveness 10.1, got %d", oro)
	}
	if exp != 1 {
		t.Errorf("Expected 1 exp from effectiveness 10.1, got %d", exp)
	}

	// Even a hopeless chop produces something
	oro, exp = ChopYield(0.3)
	if oro != 1 || exp != 1 {
		t.Errorf("Expected minimum yield of 1/1, got %d/%d", oro, exp)
	}
}
