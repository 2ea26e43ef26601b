package pets

import "pet-market-engine/internal/host"

// LifeState es la clasificación cacheada de una mascota.
// La muerte se calcula al leer; sólo se persiste cuando un feed la observa.
type LifeState string

const (
	LifeAlive LifeState = "alive"
	LifeDead  LifeState = "dead"
)

// Pet es un registro de la lista de su owner. Nunca se borra.
type Pet struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`

	// Timestamps y duraciones en segundos de block time.
	LastFed             uint64 `json:"last_fed"`
	AllowedFeedTimespan uint64 `json:"allowed_feed_timespan"`
	TotalSaturationTime uint64 `json:"total_saturation_time"`

	LifeState LifeState `json:"life_state"`
}

// State es la config singleton del contrato Pet.
type State struct {
	AcceptedToken host.ContractRef `json:"accepted_token"`
	Admin         string           `json:"admin"`
	ViewingKey    string           `json:"viewing_key"`
}
