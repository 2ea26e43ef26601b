package middleware

import (
	"context"
	"net/http"
	"strings"

	"pet-market-engine/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// DebugSenderHeader lleva la dirección del caller cuando no hay verifier.
const DebugSenderHeader = "X-Debug-User-ID"

// AuthContext resuelve la dirección que firma la llamada (el sender de
// init/handle) y la deja en el contexto.
//
// Sin verifier el sender viaja en claro en DebugSenderHeader. Con verifier
// sólo cuenta el Bearer token y el header de debug se ignora.
// Un request sin caller resoluble sigue de largo: las queries no lo
// necesitan y host responde 401 en init/handle.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, ok := resolveCaller(r, verifier); ok {
				r = r.WithContext(WithClaims(r.Context(), c))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func resolveCaller(r *http.Request, verifier auth.AuthVerifier) (auth.Claims, bool) {
	if verifier == nil {
		addr := strings.TrimSpace(r.Header.Get(DebugSenderHeader))
		return auth.Claims{Address: addr}, addr != ""
	}

	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return auth.Claims{}, false
	}
	c, err := verifier.Verify(r.Context(), token)
	if err != nil || strings.TrimSpace(c.Address) == "" {
		return auth.Claims{}, false
	}
	return c, true
}

// WithClaims deja el caller en ctx; los tests de handlers lo usan directo.
func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// GetClaims devuelve el caller resuelto por AuthContext.
func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	return c, ok
}

// bearerToken extrae el token de "Bearer <token>" (esquema sin distinguir mayúsculas).
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
