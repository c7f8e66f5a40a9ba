// Package rules contains the pure calculation logic for game progression.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import (
	"math"

	"github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/stats"
)

// VelocidadTrainAmount is the delta a velocidad training session requests:
// the delay between repetitions shrinks by 50 ms per session.
const VelocidadTrainAmount = -50

// TrainingCost computes the oro price of one training session for an
// attribute currently at value v: floor(v^1.1 + 5).
func TrainingCost(v int) int {
	return int(math.Floor(math.Pow(float64(v), 1.1) + 5))
}

// BladeCost computes the oro price of the next blade improvement:
// floor(filo^1.5 * 10 + 20).
func BladeCost(filo int) int {
	return int(math.Floor(math.Pow(float64(filo), 1.5)*10 + 20))
}

// MaterialCost computes the oro price of the next material level for either
// slot: floor(level^2 * 50 + 100).
func MaterialCost(level int) int {
	return int(math.Floor(math.Pow(float64(level), 2)*50 + 100))
}

// TrainingIncrease computes the effective attribute gain of a training
// session. Fuerza and resistencia scale with mental aptitude; everything
// else gains the requested amount verbatim.
func TrainingIncrease(key stats.StatKey, amount, mente int) int {
	if key == stats.KeyFuerza || key == stats.KeyResistencia {
		inc := int(math.Floor(float64(amount) * float64(mente) / 10))
		if inc < 1 {
			inc = 1
		}
		return inc
	}
	return amount
}

// MeditationIncrease computes the mente gain of a meditation session from
// the BASE mente value, with any passive pet contribution removed first.
func MeditationIncrease(baseMente int) int {
	inc := baseMente/5 + 1
	if inc < 1 {
		inc = 1
	}
	return inc
}

// ClampVelocidad enforces the delay floor: velocidad can shrink but never
// drops below 50 ms.
func ClampVelocidad(v int) int {
	if v < stats.VelocidadFloor {
		return stats.VelocidadFloor
	}
	return v
}

// TrainingExp computes the experience granted by a training session.
// Velocidad training is rewarded by cost, every other attribute by the
// magnitude of its increase.
func TrainingExp(key stats.StatKey, cost, increase int) int {
	if key == stats.KeyVelocidad {
		return cost / 2
	}
	if increase < 0 {
		increase = -increase
	}
	return increase / 2
}

// BladeExp computes the experience granted by a blade improvement, from the
// filo level BEFORE the improvement.
func BladeExp(filoBefore int) int {
	return filoBefore * 2
}

// ChopEffective computes the productivity of one chop from the derived
// ledger: fuerza * (1 + angulo/100) * materialCabeza * 1.1^(filo-1).
func ChopEffective(s stats.PlayerStats) float64 {
	return float64(s.Fuerza) *
		(1 + float64(s.Angulo)/100) *
		float64(s.MaterialCabeza) *
		math.Pow(1.1, float64(s.Filo-1))
}

// ChopYield converts chop productivity into oro and experience gains.
// Both are at least 1: even the weakest chop produces something.
func ChopYield(effective float64) (oro, exp int) {
	oro = int(math.Floor(effective / 2))
	if oro < 1 {
		oro = 1
	}
	exp = int(math.Floor(effective / 10))
	if exp < 1 {
		exp = 1
	}
	return oro, exp
}
