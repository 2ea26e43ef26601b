package cli

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-market-engine/internal/platform/apperr"
)

type cliEnv struct {
	db  string
	cfg string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	return cliEnv{db: filepath.Join(dir, "state.db"), cfg: filepath.Join(dir, "missing.yaml")}
}

func (e cliEnv) run(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(append(args, "--db", e.db, "--config", e.cfg))
	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out), "output: %s", buf.String())
	return out, nil
}

func TestCLI_PetLifecycleAcrossInvocations(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "init", "pet", "--sender", "secret1admin",
		`{"accepted_token":{"address":"secret1food","code_hash":"abc"},"viewing_key":"vk"}`)
	require.NoError(t, err)
	effects, ok := out["effects"].([]any)
	require.True(t, ok)
	assert.Len(t, effects, 2)

	out, err = env.run(t, "handle", "pet", "--sender", "secret1alice", "--time", "1000",
		`{"create_pet":{"name":"Zorro","allowed_feed_timespan":3600,"total_saturation_time":14200}}`)
	require.NoError(t, err)
	created := out["data"].(map[string]any)["create_pet"].(map[string]any)
	assert.Equal(t, "Zorro", created["name"])
	assert.EqualValues(t, 1, created["id"])

	payload := base64.StdEncoding.EncodeToString([]byte(`{"feed":{"pet_id":1}}`))
	_, err = env.run(t, "handle", "pet", "--sender", "secret1food", "--time", "12000",
		`{"receive":{"sender":"secret1alice","from":"secret1alice","amount":"1","msg":"`+payload+`"}}`)
	require.NoError(t, err)

	out, err = env.run(t, "query", "pet", "--time", "12001", `{"last_fed":{"id":1,"owner":"secret1alice"}}`)
	require.NoError(t, err)
	assert.EqualValues(t, 12000, out["data"].(map[string]any)["timestamp"])
}

func TestCLI_MarketBuyFood(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "init", "market", "--sender", "secret1admin",
		`{"token_contract":{"address":"secret1food","code_hash":"abc"},"exchange_rate":"100"}`)
	require.NoError(t, err)

	out, err := env.run(t, "handle", "market", "--sender", "secret1bob", "--funds", "3uscrt,2uscrt", `{"buy_food":{}}`)
	require.NoError(t, err)
	answer := out["data"].(map[string]any)["buy_food"].(map[string]any)
	assert.Equal(t, "5", answer["deposited"])
	assert.Equal(t, "500", answer["minted"])

	out, err = env.run(t, "query", "market", `{"total_raised":{}}`)
	require.NoError(t, err)
	assert.Equal(t, "5", out["data"].(map[string]any)["amount"])
}

func TestCLI_BlockTimeNeverGoesBackAcrossInvocations(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "init", "pet", "--sender", "secret1admin", "--time", "1",
		`{"accepted_token":{"address":"secret1food","code_hash":"abc"},"viewing_key":"vk"}`)
	require.NoError(t, err)

	// Zorro se muere de hambre en 10+14200.
	_, err = env.run(t, "handle", "pet", "--sender", "secret1alice", "--time", "10",
		`{"create_pet":{"name":"Zorro","allowed_feed_timespan":3600,"total_saturation_time":14200}}`)
	require.NoError(t, err)
	_, err = env.run(t, "handle", "pet", "--sender", "secret1bob", "--time", "50000",
		`{"create_pet":{"name":"Rex","allowed_feed_timespan":3600,"total_saturation_time":14200}}`)
	require.NoError(t, err)

	// Un feed pedido en 5000 corre en 50000: Zorro ya está muerto.
	payload := base64.StdEncoding.EncodeToString([]byte(`{"feed":{"pet_id":1}}`))
	_, err = env.run(t, "handle", "pet", "--sender", "secret1food", "--time", "5000",
		`{"receive":{"sender":"secret1alice","from":"secret1alice","amount":"1","msg":"`+payload+`"}}`)
	assert.ErrorIs(t, err, apperr.ErrAlreadyDead)

	out, err := env.run(t, "query", "pet", "--time", "5000", `{"pet":{"id":1,"owner":"secret1alice"}}`)
	require.NoError(t, err)
	pet := out["data"].(map[string]any)
	assert.Equal(t, "dead", pet["life_state"])
	assert.EqualValues(t, 10, pet["last_fed"])
}

func TestCLI_RejectedCallKeepsState(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "init", "market", "--sender", "secret1admin",
		`{"token_contract":{"address":"secret1food","code_hash":"abc"},"exchange_rate":"1"}`)
	require.NoError(t, err)

	_, err = env.run(t, "handle", "market", "--sender", "secret1bob", "--funds", "3uatom", `{"buy_food":{}}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInvalidDenomination)

	out, err := env.run(t, "query", "market", `{"total_raised":{}}`)
	require.NoError(t, err)
	assert.Equal(t, "0", out["data"].(map[string]any)["amount"])
}

func TestCLI_ArgumentErrors(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "handle", "pet", `{"create_pet":{}}`)
	assert.ErrorContains(t, err, "--sender is required")

	_, err = env.run(t, "query", "pet", `{not json`)
	assert.ErrorContains(t, err, "not valid JSON")

	_, err = env.run(t, "query", "pet")
	assert.Error(t, err)
}

func TestParseCoins(t *testing.T) {
	coins, err := ParseCoins(" 100uscrt, 5ibc/ABC ")
	require.NoError(t, err)
	require.Len(t, coins, 2)
	assert.Equal(t, "uscrt", coins[0].Denom)
	assert.Equal(t, "100", coins[0].Amount.String())
	assert.Equal(t, "ibc/ABC", coins[1].Denom)

	coins, err = ParseCoins("")
	require.NoError(t, err)
	assert.Nil(t, coins)

	_, err = ParseCoins("uscrt100")
	assert.Error(t, err)
}
