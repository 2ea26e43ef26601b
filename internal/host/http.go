package host

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"pet-market-engine/internal/middleware"
	"pet-market-engine/internal/platform/apperr"
)

// BlockTimeHeader permite fijar el block time (unix segundos) de una llamada.
const BlockTimeHeader = "X-Block-Time"

const maxBodyBytes = 1 << 20

// CallRequest es el body común de init/handle/query.
type CallRequest struct {
	Msg   json.RawMessage `json:"msg" swaggertype:"object"`
	Funds []Coin          `json:"funds,omitempty"`
}

type CallResponse struct {
	Data    any      `json:"data"`
	Effects []Effect `json:"effects"`
}

type entry int

const (
	entryInit entry = iota
	entryHandle
	entryQuery
)

func InitHandler(exec *Executor, contract string) http.HandlerFunc {
	return callHandler(exec, contract, entryInit)
}

func HandleHandler(exec *Executor, contract string) http.HandlerFunc {
	return callHandler(exec, contract, entryHandle)
}

func QueryHandler(exec *Executor, contract string) http.HandlerFunc {
	return callHandler(exec, contract, entryQuery)
}

func callHandler(exec *Executor, contract string, e entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		sender := strings.TrimSpace(claims.Address)
		if e != entryQuery && (!ok || sender == "") {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req CallRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if len(req.Msg) == 0 {
			http.Error(w, "msg is required", http.StatusBadRequest)
			return
		}
		if e == entryQuery && len(req.Funds) > 0 {
			http.Error(w, "queries do not accept funds", http.StatusBadRequest)
			return
		}

		call := Call{Sender: sender, Funds: req.Funds, Msg: req.Msg}
		if v := strings.TrimSpace(r.Header.Get(BlockTimeHeader)); v != "" {
			t, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				http.Error(w, "X-Block-Time must be unix seconds", http.StatusBadRequest)
				return
			}
			call.BlockTime = &t
		}

		var out CallResponse
		switch e {
		case entryQuery:
			data, err := exec.Query(r.Context(), contract, call)
			if err != nil {
				writeError(w, err)
				return
			}
			out = CallResponse{Data: data, Effects: []Effect{}}
		default:
			run := exec.Handle
			if e == entryInit {
				run = exec.Init
			}
			resp, err := run(r.Context(), contract, call)
			if err != nil {
				writeError(w, err)
				return
			}
			out = CallResponse{Data: resp.Data, Effects: resp.Effects}
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// StatusFor traduce la taxonomía de errores a HTTP.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrAlreadyDead):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrInvalidInput),
		errors.Is(err, apperr.ErrInvalidDenomination),
		errors.Is(err, apperr.ErrEmptyDeposit),
		errors.Is(err, apperr.ErrNotFeedingTime),
		errors.Is(err, apperr.ErrOverflow):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		http.Error(w, "internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
