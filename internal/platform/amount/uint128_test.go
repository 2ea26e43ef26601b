package amount_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-market-engine/internal/platform/amount"
	"pet-market-engine/internal/platform/apperr"
)

const maxU128 = "340282366920938463463374607431768211455"

func TestParse(t *testing.T) {
	u, err := amount.Parse(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, "42", u.String())

	u, err = amount.Parse(maxU128)
	require.NoError(t, err)
	assert.Equal(t, maxU128, u.String())

	_, err = amount.Parse("340282366920938463463374607431768211456")
	assert.ErrorIs(t, err, apperr.ErrOverflow)

	for _, bad := range []string{"", "-1", "1.5", "abc"} {
		_, err := amount.Parse(bad)
		assert.ErrorIs(t, err, apperr.ErrInvalidInput, "input %q", bad)
	}
}

func TestArithmetic(t *testing.T) {
	a := amount.FromUint64(1_000_000_000_000_000_000)

	p, err := a.Mul(a)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000000000000000000000", p.String())

	s, err := amount.Zero().Add(amount.FromUint64(5))
	require.NoError(t, err)
	assert.True(t, s.Equal(amount.FromUint64(5)))

	_, err = amount.MustParse(maxU128).Add(amount.FromUint64(1))
	assert.ErrorIs(t, err, apperr.ErrOverflow)

	_, err = amount.MustParse(maxU128).Mul(amount.FromUint64(2))
	assert.ErrorIs(t, err, apperr.ErrOverflow)

	assert.True(t, amount.Zero().IsZero())
	assert.Equal(t, -1, amount.FromUint64(1).Cmp(amount.FromUint64(2)))
}

func TestJSON_DecimalString(t *testing.T) {
	b, err := json.Marshal(struct {
		A amount.Uint128 `json:"a"`
	}{A: amount.FromUint64(1000)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"1000"}`, string(b))

	var out struct {
		A amount.Uint128 `json:"a"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"77"}`), &out))
	assert.Equal(t, "77", out.A.String())

	assert.Error(t, json.Unmarshal([]byte(`{"a":77}`), &out))
}
