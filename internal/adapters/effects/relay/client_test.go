package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-market-engine/internal/host"
	"pet-market-engine/internal/platform/amount"
)

func TestClient_Publish(t *testing.T) {
	var got publishRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, publishPath, r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "call-1", r.Header.Get("Idempotency-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(publishResponse{Accepted: len(got.Effects)})
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	require.NoError(t, err)
	require.True(t, c.IsConfigured())

	mint := amount.FromUint64(100)
	err = c.Publish(context.Background(), "market", "call-1", []host.Effect{{
		Kind:      host.EffectMint,
		Target:    host.ContractRef{Address: "secret1food", CodeHash: "H"},
		Recipient: "alice",
		Amount:    &mint,
	}})
	require.NoError(t, err)

	assert.Equal(t, "market", got.Contract)
	require.Len(t, got.Effects, 1)
	assert.Equal(t, "100", got.Effects[0].Amount.String())
}

func TestClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "good" {
			http.Error(w, "nope", http.StatusUnauthorized)
			return
		}
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	effects := []host.Effect{{Kind: host.EffectSetViewingKey, ViewingKey: "vk"}}

	bad, err := NewClient(Config{BaseURL: srv.URL, APIKey: "bad"})
	require.NoError(t, err)
	assert.ErrorIs(t, bad.Publish(context.Background(), "pet", "c", effects), ErrRelayUnauthorized)

	good, err := NewClient(Config{BaseURL: srv.URL, APIKey: "good"})
	require.NoError(t, err)
	assert.ErrorIs(t, good.Publish(context.Background(), "pet", "c", effects), ErrRelayUpstream)

	empty, err := NewClient(Config{})
	require.NoError(t, err)
	assert.False(t, empty.IsConfigured())
	assert.ErrorIs(t, empty.Publish(context.Background(), "pet", "c", effects), ErrRelayNotConfigured)

	_, err = NewClient(Config{BaseURL: "::not a url"})
	assert.Error(t, err)
}
