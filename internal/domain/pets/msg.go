package pets

import (
	"pet-market-engine/internal/host"
	"pet-market-engine/internal/platform/amount"
)

type InitMsg struct {
	AcceptedToken host.ContractRef `json:"accepted_token"`
	Admin         *string          `json:"admin,omitempty"`
	ViewingKey    string           `json:"viewing_key"`
}

// HandleMsg es una unión: exactamente un campo seteado.
type HandleMsg struct {
	Receive   *ReceiveMsg   `json:"receive,omitempty"`
	CreatePet *CreatePetMsg `json:"create_pet,omitempty"`
}

// ReceiveMsg es el callback del token aceptado al recibir una transferencia.
// Msg viaja en base64 y decodifica a FeedPayload.
type ReceiveMsg struct {
	Sender string         `json:"sender"`
	From   string         `json:"from"`
	Amount amount.Uint128 `json:"amount"`
	Msg    []byte         `json:"msg,omitempty"`
}

type CreatePetMsg struct {
	Name                string `json:"name"`
	AllowedFeedTimespan uint64 `json:"allowed_feed_timespan"`
	TotalSaturationTime uint64 `json:"total_saturation_time"`
}

type FeedPayload struct {
	Feed *FeedMsg `json:"feed,omitempty"`
}

type FeedMsg struct {
	PetID uint64 `json:"pet_id"`
}

type QueryMsg struct {
	LastFed       *PetQuery  `json:"last_fed,omitempty"`
	Pet           *PetQuery  `json:"pet,omitempty"`
	Pets          *PetsQuery `json:"pets,omitempty"`
	AcceptedToken *struct{}  `json:"accepted_token,omitempty"`
}

type PetQuery struct {
	ID    uint64 `json:"id"`
	Owner string `json:"owner"`
}

type PetsQuery struct {
	Owner    string  `json:"owner"`
	Page     *uint32 `json:"page,omitempty"`
	PageSize *uint32 `json:"page_size,omitempty"`
}

const (
	defaultPage     uint32 = 0
	defaultPageSize uint32 = 30
)

// Respuestas

type CreatePetAnswer struct {
	Name string `json:"name"`
	ID   uint64 `json:"id"`
}

type FeedAnswer struct {
	PetID   uint64 `json:"pet_id"`
	LastFed uint64 `json:"last_fed"`
}

type HandleAnswer struct {
	CreatePet *CreatePetAnswer `json:"create_pet,omitempty"`
	Feed      *FeedAnswer      `json:"feed,omitempty"`
}

type LastFedResponse struct {
	Timestamp uint64 `json:"timestamp"`
}

type PetResponse struct {
	Pet
	Saturation uint64 `json:"saturation"`
}

type PetsResponse struct {
	Pets  []PetResponse `json:"pets"`
	Total uint64        `json:"total"`
}

type AcceptedTokenResponse struct {
	Address  string `json:"address"`
	CodeHash string `json:"code_hash"`
}

func (m HandleMsg) validate() error {
	return host.ExactlyOne("handle", m.Receive != nil, m.CreatePet != nil)
}

func (m QueryMsg) validate() error {
	return host.ExactlyOne("query", m.LastFed != nil, m.Pet != nil, m.Pets != nil, m.AcceptedToken != nil)
}
