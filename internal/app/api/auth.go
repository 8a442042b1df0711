package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
)

// Auth verifies bearer tokens minted by the external auth service and
// resolves them into an Actor. Token issuing and sessions stay outside the
// core; only the HMAC secret is shared.
type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth { return &Auth{secret: []byte(secret)} }

type actorKey struct{}

// Token builds a signed token for the given actor. The auth service does
// this in production; tests and the local dev loop use it directly.
func (a *Auth) Token(actor domain.Actor) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  actor.ID.String(),
		"role": string(actor.Role),
	})
	return t.SignedString(a.secret)
}

func (a *Auth) actorFromToken(raw string) (domain.Actor, bool) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Actor{}, false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Actor{}, false
	}
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return domain.Actor{}, false
	}
	roleClaim, _ := claims["role"].(string)
	role, ok := domain.ParseRole(roleClaim)
	if !ok {
		return domain.Actor{}, false
	}
	return domain.Actor{ID: id, Role: role}, true
}

// Middleware rejects requests without a valid bearer token and stores the
// resolved actor in the request context.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		actor, ok := a.actorFromToken(raw)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, actor)))
	})
}

// ActorFrom extracts the authenticated actor placed by Middleware.
func ActorFrom(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}
