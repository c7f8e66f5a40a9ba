// Package engine contains the progression core of Haizkolari Idle.
//
// ARCHITECTURAL RULE: every mutating action is one atomic unit. The engine
// validates, prices, applies and recomposes under a single lock; no caller
// ever observes a partially applied update.
package engine

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/pet"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/rules"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/stats"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/events"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/platform/metrics"
)

// statLabel returns the user-facing name for an attribute or slot.
func statLabel(key stats.StatKey) string {
	switch key {
	case stats.KeyMaterialCabeza:
		return "Material de Cabeza"
	case stats.KeyMaterialMango:
		return "Material de Mango"
	default:
		return string(key)
	}
}

func oro(n int) string {
	return humanize.Comma(int64(n))
}

// reject finishes a failed action: one log line, one destructive notice,
// one rejection event, no state mutation. Caller must hold e.mu.
func (e *Engine) reject(key stats.StatKey, title, line, description string, shortfall int) Result {
	e.gameLog.Append(line)
	e.eventLog.Append(e.makeEvent(events.EventTypeActionRejected, key, line, nil))
	e.logger.Event(string(events.EventTypeActionRejected), string(key), line)
	metrics.Get().RecordAction(string(events.EventTypeActionRejected), true)

	res := Result{
		Message:   line,
		Shortfall: shortfall,
		Notice:    Notice{Title: title, Description: description, Variant: "destructive"},
	}
	e.notify(res.Notice)
	return res
}

// succeed finishes an applied action. Recomposition is done by the caller.
func (e *Engine) succeed(t events.EventType, key stats.StatKey, title, line, description string, payload interface{}) Result {
	e.gameLog.Append(line)
	e.eventLog.Append(e.makeEvent(t, key, line, payload))
	e.logger.Event(string(t), string(key), line)
	metrics.Get().RecordAction(string(t), false)

	res := Result{
		OK:      true,
		Message: line,
		Notice:  Notice{Title: title, Description: description, Variant: "default"},
	}
	e.notify(res.Notice)
	return res
}

// TrainStat runs one training session on a trainable attribute. A zero
// amount requests the default for the attribute (1, or -50 for velocidad).
func (e *Engine) TrainStat(key stats.StatKey, amount int) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !stats.IsTrainable(key) {
		line := fmt.Sprintf("No se puede entrenar %s.", statLabel(key))
		return e.reject(key, "Acción Inválida", line, line, 0)
	}

	if amount == 0 {
		amount = 1
		if key == stats.KeyVelocidad {
			amount = rules.VelocidadTrainAmount
		}
	}

	// Training only moves an attribute in its own direction: velocidad
	// shrinks (it is a delay), everything else grows. Amounts from the
	// wire are untrusted.
	wrongDirection := amount < 0
	if key == stats.KeyVelocidad {
		wrongDirection = amount > 0
	}
	if wrongDirection {
		line := fmt.Sprintf("Cantidad inválida para entrenar %s.", statLabel(key))
		return e.reject(key, "Acción Inválida", line, line, 0)
	}

	// Cap check comes before affordability: the refusal is independent of oro.
	if key == stats.KeyAlimentacion && e.base.Alimentacion >= stats.AlimentacionCap {
		line := fmt.Sprintf("Alimentación ya está al límite (%d).", stats.AlimentacionCap)
		return e.reject(key, "Límite Alcanzado", line, line, 0)
	}

	cost := rules.TrainingCost(e.view.Get(key))
	if e.base.Oro < cost {
		line := fmt.Sprintf("No tienes suficiente oro para entrenar %s. Necesitas %s oro.", statLabel(key), oro(cost))
		desc := fmt.Sprintf("Necesitas %s oro para entrenar %s.", oro(cost), statLabel(key))
		return e.reject(key, "Sin Oro", line, desc, cost-e.base.Oro)
	}

	increase := rules.TrainingIncrease(key, amount, e.view.Mente)

	newValue := e.base.Get(key) + increase
	switch key {
	case stats.KeyVelocidad:
		newValue = rules.ClampVelocidad(newValue)
	case stats.KeyAlimentacion:
		if newValue > stats.AlimentacionCap {
			newValue = stats.AlimentacionCap
		}
	}

	e.base.Set(key, newValue)
	e.base.Oro -= cost
	e.base.Exp += rules.TrainingExp(key, cost, increase)
	e.recompose()

	sign := ""
	if increase > 0 {
		sign = "+"
	}
	line := fmt.Sprintf("Entrenado %s! (%s%d %s, -%s oro)", statLabel(key), sign, increase, statLabel(key), oro(cost))
	desc := fmt.Sprintf("%s%d %s!", sign, increase, statLabel(key))
	return e.succeed(events.EventTypeTrain, key, "Entrenamiento Completo", line, desc, TrainPayload{
		Stat:     string(key),
		Increase: increase,
		Cost:     cost,
	})
}

// Meditate raises mente from its base value. The passive pet contribution
// is excluded from the gain calculation and re-derived afterwards, so it
// is never counted twice.
func (e *Engine) Meditate() Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	increase := rules.MeditationIncrease(e.base.Mente)
	e.base.Mente += increase
	e.base.Exp += increase
	e.recompose()

	line := fmt.Sprintf("Meditación profunda. (+%d Mente base)", increase)
	desc := fmt.Sprintf("Mente ahora es %d.", e.view.Mente)
	return e.succeed(events.EventTypeMeditate, stats.KeyMente, "Meditación", line, desc, TrainPayload{
		Stat:     string(stats.KeyMente),
		Increase: increase,
	})
}

// ImproveBlade raises filo by one level.
func (e *Engine) ImproveBlade() Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	cost := rules.BladeCost(e.view.Filo)
	if e.base.Oro < cost {
		line := fmt.Sprintf("No tienes suficiente oro para mejorar el filo. Necesitas %s oro.", oro(cost))
		desc := fmt.Sprintf("Necesitas %s oro para mejorar el filo.", oro(cost))
		return e.reject(stats.KeyFilo, "Sin Oro", line, desc, cost-e.base.Oro)
	}

	filoBefore := e.base.Filo
	e.base.Filo++
	e.base.Oro -= cost
	e.base.Exp += rules.BladeExp(filoBefore)
	e.recompose()

	line := fmt.Sprintf("Filo mejorado! (+1 Filo, -%s oro)", oro(cost))
	desc := fmt.Sprintf("Nuevo nivel de filo: %d", e.base.Filo)
	return e.succeed(events.EventTypeImproveBlade, stats.KeyFilo, "Filo Mejorado", line, desc, TrainPayload{
		Stat:     string(stats.KeyFilo),
		Increase: 1,
		Cost:     cost,
	})
}

// BuyMaterial raises one of the two material slots by one level.
func (e *Engine) BuyMaterial(slot stats.StatKey) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if slot != stats.KeyMaterialCabeza && slot != stats.KeyMaterialMango {
		line := fmt.Sprintf("No existe el material %s.", slot)
		return e.reject(slot, "Acción Inválida", line, line, 0)
	}

	level := e.view.Get(slot)
	cost := rules.MaterialCost(level)
	if e.base.Oro < cost {
		line := fmt.Sprintf("No tienes suficiente oro para comprar %s. Necesitas %s oro.", statLabel(slot), oro(cost))
		desc := fmt.Sprintf("Necesitas %s oro para comprar %s.", oro(cost), statLabel(slot))
		return e.reject(slot, "Sin Oro", line, desc, cost-e.base.Oro)
	}

	e.base.Set(slot, level+1)
	e.base.Oro -= cost
	e.recompose()

	line := fmt.Sprintf("%s comprado! (+1 Nivel, -%s oro)", statLabel(slot), oro(cost))
	desc := fmt.Sprintf("Nuevo nivel de %s: %d", statLabel(slot), level+1)
	return e.succeed(events.EventTypeBuyMaterial, slot, statLabel(slot)+" Comprado!", line, desc, TrainPayload{
		Stat:     string(slot),
		Increase: 1,
		Cost:     cost,
	})
}

// ChopWood performs one productive chop, converting the derived ledger
// into oro and experience.
func (e *Engine) ChopWood() Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	effective := rules.ChopEffective(e.view)
	oroGained, expGained := rules.ChopYield(effective)

	e.base.Oro += oroGained
	e.base.Exp += expGained
	e.recompose()

	line := fmt.Sprintf("Madera cortada! (+%s oro, +%d EXP)", oro(oroGained), expGained)
	desc := fmt.Sprintf("+%s oro, +%d EXP", oro(oroGained), expGained)
	res := e.succeed(events.EventTypeChopWood, "", "Madera Cortada", line, desc, ChopPayload{
		Effective: effective,
		OroGained: oroGained,
		ExpGained: expGained,
	})
	res.OroGained = oroGained
	res.ExpGained = expGained
	return res
}

// SetPetActive toggles a companion and recomposes the passive bonuses.
func (e *Engine) SetPetActive(id pet.ID, active bool) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.pets {
		if e.pets[i].ID != id {
			continue
		}
		e.pets[i].IsActive = active
		e.recompose()

		verb := "descansando"
		if active {
			verb = "activado"
		}
		line := fmt.Sprintf("%s %s.", e.pets[i].Nombre, verb)
		return e.succeed(events.EventTypePetToggled, stats.StatKey(id), "Mascota", line, line, nil)
	}

	line := fmt.Sprintf("No conoces a la mascota %s.", id)
	return e.reject(stats.StatKey(id), "Acción Inválida", line, line, 0)
}
