// Package stats defines the player's attribute ledger for Haizkolari Idle.
// This package is PURE and must NOT import any infrastructure packages.
package stats

// StatKey identifies one attribute of the ledger.
type StatKey string

const (
	KeyFuerza         StatKey = "fuerza"
	KeyResistencia    StatKey = "resistencia"
	KeyMente          StatKey = "mente"
	KeyAlimentacion   StatKey = "alimentacion"
	KeyAngulo         StatKey = "angulo"
	KeyPosicion       StatKey = "posicion"
	KeyVelocidad      StatKey = "velocidad"
	KeyMaterialCabeza StatKey = "materialCabeza"
	KeyMaterialMango  StatKey = "materialMango"
	KeyFilo           StatKey = "filo"
	KeyOro            StatKey = "oro"
	KeyExp            StatKey = "exp"
)

// Hard limits of the ledger.
const (
	AlimentacionCap = 8  // training refused at the cap
	VelocidadFloor  = 50 // minimum delay between repetitions, in ms
)

// PlayerStats is the live ledger of attribute values. Values stored here
// are BASE values: passive pet bonuses are derived on top, never written back.
type PlayerStats struct {
	Resistencia    int `json:"resistencia"`    // repeticiones base
	Fuerza         int `json:"fuerza"`         // daño base
	Mente          int `json:"mente"`          // multiplicador de experiencia
	Alimentacion   int `json:"alimentacion"`   // reduce tiempo de recuperación (límite 8)
	Angulo         int `json:"angulo"`         // multiplicador de fuerza
	Posicion       int `json:"posicion"`       // multiplicador de resistencia
	Velocidad      int `json:"velocidad"`      // ms entre repeticiones (suelo 50)
	MaterialCabeza int `json:"materialCabeza"` // multiplicador infinito de fuerza
	MaterialMango  int `json:"materialMango"`  // multiplicador infinito de resistencia
	Filo           int `json:"filo"`           // exponente de fuerza

	Oro int `json:"oro"` // moneda, nunca negativa
	Exp int `json:"exp"` // experiencia, nunca decrece
}

// Defaults returns the starting ledger for a fresh game.
func Defaults() PlayerStats {
	return PlayerStats{
		Resistencia:    1,
		Fuerza:         1,
		Mente:          1,
		Alimentacion:   0,
		Angulo:         1,
		Posicion:       1,
		Velocidad:      1000, // ms per action
		MaterialCabeza: 1,
		MaterialMango:  1,
		Filo:           1,
		Oro:            0,
		Exp:            0,
	}
}

// TrainableKeys lists the attributes that can be raised through training.
// Oro and Exp are bookkeeping fields, not trainable.
func TrainableKeys() []StatKey {
	return []StatKey{
		KeyFuerza, KeyResistencia, KeyMente, KeyAlimentacion,
		KeyAngulo, KeyPosicion, KeyVelocidad,
	}
}

// IsTrainable reports whether key can be targeted by a training action.
func IsTrainable(key StatKey) bool {
	for _, k := range TrainableKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the current value of the attribute, or 0 for an unknown key.
func (s PlayerStats) Get(key StatKey) int {
	switch key {
	case KeyFuerza:
		return s.Fuerza
	case KeyResistencia:
		return s.Resistencia
	case KeyMente:
		return s.Mente
	case KeyAlimentacion:
		return s.Alimentacion
	case KeyAngulo:
		return s.Angulo
	case KeyPosicion:
		return s.Posicion
	case KeyVelocidad:
		return s.Velocidad
	case KeyMaterialCabeza:
		return s.MaterialCabeza
	case KeyMaterialMango:
		return s.MaterialMango
	case KeyFilo:
		return s.Filo
	case KeyOro:
		return s.Oro
	case KeyExp:
		return s.Exp
	}
	return 0
}

// Set overwrites the value of the attribute. Unknown keys are ignored.
func (s *PlayerStats) Set(key StatKey, value int) {
	switch key {
	case KeyFuerza:
		s.Fuerza = value
	case KeyResistencia:
		s.Resistencia = value
	case KeyMente:
		s.Mente = value
	case KeyAlimentacion:
		s.Alimentacion = value
	case KeyAngulo:
		s.Angulo = value
	case KeyPosicion:
		s.Posicion = value
	case KeyVelocidad:
		s.Velocidad = value
	case KeyMaterialCabeza:
		s.MaterialCabeza = value
	case KeyMaterialMango:
		s.MaterialMango = value
	case KeyFilo:
		s.Filo = value
	case KeyOro:
		s.Oro = value
	case KeyExp:
		s.Exp = value
	}
}

// Delta is a sparse adjustment over the ledger, used by pet bonuses.
// Zero fields mean "no change".
type Delta struct {
	Fuerza      int
	Resistencia int
	Mente       int
	Angulo      int
	Posicion    int
}

// Plus returns the ledger with the delta applied. The receiver is not mutated.
func (s PlayerStats) Plus(d Delta) PlayerStats {
	out := s
	out.Fuerza += d.Fuerza
	out.Resistencia += d.Resistencia
	out.Mente += d.Mente
	out.Angulo += d.Angulo
	out.Posicion += d.Posicion
	return out
}

// Add accumulates another delta into d.
func (d *Delta) Add(other Delta) {
	d.Fuerza += other.Fuerza
	d.Resistencia += other.Resistencia
	d.Mente += other.Mente
	d.Angulo += other.Angulo
	d.Posicion += other.Posicion
}
