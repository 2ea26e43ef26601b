package market

import (
	"pet-market-engine/internal/host"
	"pet-market-engine/internal/platform/amount"
)

type InitMsg struct {
	TokenContract host.ContractRef `json:"token_contract"`
	ExchangeRate  amount.Uint128   `json:"exchange_rate"`
	AcceptedDenom string           `json:"accepted_denom,omitempty"`
	Admin         *string          `json:"admin,omitempty"`
	ViewingKey    string           `json:"viewing_key,omitempty"`
}

type HandleMsg struct {
	BuyFood *struct{} `json:"buy_food,omitempty"`
}

type QueryMsg struct {
	Config      *struct{}      `json:"config,omitempty"`
	TotalRaised *struct{}      `json:"total_raised,omitempty"`
	Deposits    *DepositsQuery `json:"deposits,omitempty"`
}

type DepositsQuery struct {
	Depositor string  `json:"depositor"`
	Page      *uint32 `json:"page,omitempty"`
	PageSize  *uint32 `json:"page_size,omitempty"`
}

const (
	defaultPage     uint32 = 0
	defaultPageSize uint32 = 30
)

type BuyFoodAnswer struct {
	Deposited amount.Uint128 `json:"deposited"`
	Minted    amount.Uint128 `json:"minted"`
}

type HandleAnswer struct {
	BuyFood *BuyFoodAnswer `json:"buy_food,omitempty"`
}

type ConfigResponse struct {
	AcceptedDenom string           `json:"accepted_denom"`
	TokenContract host.ContractRef `json:"token_contract"`
	ExchangeRate  amount.Uint128   `json:"exchange_rate"`
	Admin         string           `json:"admin"`
}

type TotalRaisedResponse struct {
	Amount amount.Uint128 `json:"amount"`
}

type DepositsResponse struct {
	Deposits []Deposit `json:"deposits"`
	Total    uint64    `json:"total"`
}

func (m HandleMsg) validate() error {
	return host.ExactlyOne("handle", m.BuyFood != nil)
}

func (m QueryMsg) validate() error {
	return host.ExactlyOne("query", m.Config != nil, m.TotalRaised != nil, m.Deposits != nil)
}
