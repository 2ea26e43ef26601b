package pets

import (
	"math"

	"pet-market-engine/internal/platform/apperr"
)

// IsDead: ya marcada como muerta, o now > last_fed + total_saturation_time.
// Una vez Dead no hay vuelta atrás aunque now sea menor.
func (p Pet) IsDead(now uint64) bool {
	if p.LifeState == LifeDead {
		return true
	}
	return now > addSat(p.LastFed, p.TotalSaturationTime)
}

// CanBeFed: last_fed + allowed_feed_timespan < now < last_fed + total_saturation_time.
func (p Pet) CanBeFed(now uint64) bool {
	return now > addSat(p.LastFed, p.AllowedFeedTimespan) &&
		now < addSat(p.LastFed, p.TotalSaturationTime)
}

// Feed valida primero la muerte y después la ventana.
// Si now cae fuera de la saturación pero el registro todavía dice alive,
// devuelve la mascota ya marcada Dead junto con ErrAlreadyDead para que el
// caller la persista.
func (p Pet) Feed(now uint64) (Pet, error) {
	if p.LifeState == LifeDead {
		return p, apperr.Wrap(apperr.ErrAlreadyDead, "pet %d", p.ID)
	}
	if p.IsDead(now) {
		p.LifeState = LifeDead
		return p, apperr.Wrap(apperr.ErrAlreadyDead, "pet %d starved at %d", p.ID, addSat(p.LastFed, p.TotalSaturationTime))
	}
	if !p.CanBeFed(now) {
		return p, apperr.Wrap(apperr.ErrNotFeedingTime, "pet %d can be fed after %d", p.ID, addSat(p.LastFed, p.AllowedFeedTimespan))
	}
	p.LastFed = now
	return p, nil
}

// Starved indica que la saturación se agotó: now >= last_fed + total_saturation_time.
// En el instante exacto del límite la ventana ya cerró (CanBeFed es false)
// aunque IsDead todavía no dispara.
func (p Pet) Starved(now uint64) bool {
	return p.LifeState == LifeDead || now >= addSat(p.LastFed, p.TotalSaturationTime)
}

// Observe devuelve la mascota con LifeState calculado para now (sin persistir).
// Las queries clasifican con Starved: una mascota sin saturación restante no
// puede volver a comer, así que se reporta Dead.
func (p Pet) Observe(now uint64) Pet {
	if p.Starved(now) {
		p.LifeState = LifeDead
	}
	return p
}

// Saturation es el porcentaje (0-100) de saturación restante en now.
func (p Pet) Saturation(now uint64) uint64 {
	if p.IsDead(now) || p.TotalSaturationTime == 0 {
		return 0
	}
	if now <= p.LastFed {
		return 100
	}
	elapsed := now - p.LastFed
	if elapsed >= p.TotalSaturationTime {
		return 0
	}
	// elapsed*100 puede desbordar u64 con duraciones enormes
	var used uint64
	if elapsed <= math.MaxUint64/100 {
		used = elapsed * 100 / p.TotalSaturationTime
	} else {
		used = elapsed / (p.TotalSaturationTime / 100)
	}
	if used > 100 {
		return 0
	}
	return 100 - used
}

func addSat(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
