package host

import (
	"bytes"
	"encoding/json"

	"pet-market-engine/internal/platform/apperr"
)

// DecodeMsg decodifica un mensaje entrante en v rechazando campos desconocidos.
// Cualquier falla es ErrInvalidInput: el payload viene del caller.
func DecodeMsg(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return apperr.Wrap(apperr.ErrInvalidInput, "empty msg")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Wrap(apperr.ErrInvalidInput, "decode msg: %v", err)
	}
	if dec.More() {
		return apperr.Wrap(apperr.ErrInvalidInput, "trailing data after msg")
	}
	return nil
}

// ExactlyOne valida que una unión de mensajes traiga una sola variante.
func ExactlyOne(kind string, set ...bool) error {
	n := 0
	for _, s := range set {
		if s {
			n++
		}
	}
	if n != 1 {
		return apperr.Wrap(apperr.ErrInvalidInput, "%s msg must carry exactly one variant (got %d)", kind, n)
	}
	return nil
}
