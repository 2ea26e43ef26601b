package market

import (
	"pet-market-engine/internal/host"
	"pet-market-engine/internal/platform/amount"
)

// DefaultDenom es la moneda nativa aceptada si init no indica otra.
const DefaultDenom = "uscrt"

// State es la config singleton del Market. TotalRaised sólo crece.
type State struct {
	AcceptedDenom   string           `json:"accepted_denom"`
	TokenContract   host.ContractRef `json:"token_contract"`
	ExchangeRate    amount.Uint128   `json:"exchange_rate"`
	Admin           string           `json:"admin"`
	ContractAddress string           `json:"contract_address"`
	TotalRaised     amount.Uint128   `json:"total_raised"`
	ViewingKey      string           `json:"viewing_key,omitempty"`
}

// Deposit es el recibo de una compra, uno por buy_food exitoso.
type Deposit struct {
	Amount    amount.Uint128 `json:"amount"`
	Minted    amount.Uint128 `json:"minted"`
	BlockTime uint64         `json:"block_time"`
}
