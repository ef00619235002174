package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"agrofund/internal/domain"
	"agrofund/internal/repository"
	"agrofund/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const identityKey contextKey = "agrofund_identity"

// Claims are the fields read from the auth provider's access token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the verified caller. Role is empty until the profile row exists.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

func (i *Identity) Actor() service.Actor {
	return service.Actor{ID: i.UserID, Role: i.Role}
}

func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Authenticator verifies HS256 bearer tokens and resolves the caller's role
// from the profiles table.
type Authenticator struct {
	secret   []byte
	profiles repository.ProfilesRepository
	logger   *zap.Logger
}

func NewAuthenticator(secret string, profiles repository.ProfilesRepository, logger *zap.Logger) *Authenticator {
	return &Authenticator{secret: []byte(secret), profiles: profiles, logger: logger}
}

func (a *Authenticator) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("token is not valid")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// Authenticate rejects requests without a valid bearer token with HTTP 401.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			writeJSON(w, http.StatusUnauthorized, Fail("authentication required"))
			return
		}

		claims, err := a.parse(strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				writeJSON(w, http.StatusUnauthorized, failWithCode(ResultTokenExpired, "token expired"))
				return
			}
			a.logger.Debug("Rejected bearer token", zap.Error(err))
			writeJSON(w, http.StatusUnauthorized, Fail("invalid token"))
			return
		}

		id := &Identity{UserID: claims.Subject, Email: claims.Email}
		p, err := a.profiles.GetProfile(r.Context(), claims.Subject)
		switch {
		case err == nil:
			id.Role = p.Role
			if id.Email == "" {
				id.Email = p.Email
			}
		case errors.Is(err, domain.ErrNotFound):
			// signup in progress; only profile creation is reachable
		default:
			a.logger.Error("Profile lookup failed", zap.String("user_id", claims.Subject), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("failed to load profile"))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireProfile blocks callers that have not created their profile yet.
func RequireProfile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())
		if id == nil {
			writeJSON(w, http.StatusUnauthorized, Fail("authentication required"))
			return
		}
		if id.Role == "" {
			writeJSON(w, http.StatusForbidden, failWithCode(ResultForbidden, "profile not found; complete signup first"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole allows only the listed profile roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromContext(r.Context())
			if id == nil {
				writeJSON(w, http.StatusUnauthorized, Fail("authentication required"))
				return
			}
			for _, role := range roles {
				if id.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSON(w, http.StatusForbidden, failWithCode(ResultForbidden, "insufficient permissions"))
		})
	}
}

func actorFrom(r *http.Request) service.Actor {
	if id := IdentityFromContext(r.Context()); id != nil {
		return id.Actor()
	}
	return service.Actor{}
}
