package market

import (
	"pet-market-engine/internal/host"
	"pet-market-engine/internal/platform/amount"
	"pet-market-engine/internal/platform/apperr"
)

// DepositTotal valida los fondos adjuntos y devuelve su suma.
// Cualquier moneda distinta de denom invalida el depósito entero.
func DepositTotal(funds []host.Coin, denom string) (amount.Uint128, error) {
	total := amount.Zero()
	for _, c := range funds {
		if c.Denom != denom {
			return amount.Zero(), apperr.Wrap(apperr.ErrInvalidDenomination, "only %s is accepted, got %q", denom, c.Denom)
		}
		next, err := total.Add(c.Amount)
		if err != nil {
			return amount.Zero(), err
		}
		total = next
	}
	if total.IsZero() {
		return amount.Zero(), apperr.Wrap(apperr.ErrEmptyDeposit, "no %s attached", denom)
	}
	return total, nil
}

// Credit suma el depósito a total_raised y calcula lo que se mintea.
// No toca st si alguna operación desborda.
func (st State) Credit(total amount.Uint128) (State, amount.Uint128, error) {
	raised, err := st.TotalRaised.Add(total)
	if err != nil {
		return st, amount.Zero(), err
	}
	mint, err := total.Mul(st.ExchangeRate)
	if err != nil {
		return st, amount.Zero(), err
	}
	st.TotalRaised = raised
	return st, mint, nil
}
