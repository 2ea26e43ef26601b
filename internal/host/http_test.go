package host

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-market-engine/internal/middleware"
	"pet-market-engine/internal/platform/apperr"
	"pet-market-engine/internal/ports/auth"
)

func serve(h http.HandlerFunc, body, sender, blockTime string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if sender != "" {
		req = req.WithContext(middleware.WithClaims(req.Context(), auth.Claims{Address: sender}))
	}
	if blockTime != "" {
		req.Header.Set(BlockTimeHeader, blockTime)
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestCallHandler_HandleAndQuery(t *testing.T) {
	e, c := newTestExecutor(t, nil)

	rr := serve(HandleHandler(e, "counter"), `{"msg":{"op":"inc"}}`, "secret1alice", "2000")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var out struct {
		Data    int      `json:"data"`
		Effects []Effect `json:"effects"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Data)
	assert.Len(t, out.Effects, 1)
	assert.Equal(t, uint64(2000), c.lastEnv.BlockTime)
	assert.Equal(t, "secret1alice", c.lastEnv.Sender)

	rr = serve(QueryHandler(e, "counter"), `{"msg":{}}`, "", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"data":1,"effects":[]}`, rr.Body.String())
}

func TestCallHandler_RequestErrors(t *testing.T) {
	e, _ := newTestExecutor(t, nil)

	cases := []struct {
		name      string
		h         http.HandlerFunc
		body      string
		sender    string
		blockTime string
		want      int
	}{
		{"no caller", HandleHandler(e, "counter"), `{"msg":{"op":"inc"}}`, "", "", http.StatusUnauthorized},
		{"bad json", HandleHandler(e, "counter"), `{`, "secret1a", "", http.StatusBadRequest},
		{"unknown field", HandleHandler(e, "counter"), `{"msg":{},"x":1}`, "secret1a", "", http.StatusBadRequest},
		{"missing msg", HandleHandler(e, "counter"), `{}`, "secret1a", "", http.StatusBadRequest},
		{"funds on query", QueryHandler(e, "counter"), `{"msg":{},"funds":[{"denom":"uscrt","amount":"1"}]}`, "", "", http.StatusBadRequest},
		{"bad block time", HandleHandler(e, "counter"), `{"msg":{"op":"inc"}}`, "secret1a", "-5", http.StatusBadRequest},
		{"rejected call", HandleHandler(e, "counter"), `{"msg":{"op":"fail"}}`, "secret1a", "", http.StatusBadRequest},
		{"dead", HandleHandler(e, "counter"), `{"msg":{"op":"keep"}}`, "secret1a", "", http.StatusConflict},
		{"unknown contract", QueryHandler(e, "nope"), `{"msg":{}}`, "", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(tc.h, tc.body, tc.sender, tc.blockTime)
			assert.Equal(t, tc.want, rr.Code, rr.Body.String())
		})
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		apperr.ErrUnauthorized:        http.StatusForbidden,
		apperr.ErrNotFound:            http.StatusNotFound,
		apperr.ErrAlreadyDead:         http.StatusConflict,
		apperr.ErrInvalidInput:        http.StatusBadRequest,
		apperr.ErrInvalidDenomination: http.StatusBadRequest,
		apperr.ErrEmptyDeposit:        http.StatusBadRequest,
		apperr.ErrNotFeedingTime:      http.StatusBadRequest,
		apperr.ErrOverflow:            http.StatusBadRequest,
		apperr.ErrSerialization:       http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, StatusFor(apperr.Wrap(err, "ctx")), err.Error())
	}
	assert.Equal(t, http.StatusConflict, StatusFor(apperr.KeepWrites(apperr.ErrAlreadyDead)))
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, apperr.Wrap(apperr.ErrSerialization, "secret detail"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "secret detail")
}
