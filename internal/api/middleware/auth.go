package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

const (
	msgMissingToken = "отсутствует заголовок Authorization"
	msgInvalidToken = "недействительный токен"
	msgAdminOnly    = "операция доступна только администратору"
)

type actorKey struct{}

// Claims полезная нагрузка токена сотрудника
type Claims struct {
	Role        string  `json:"role"`
	LocationIDs []int64 `json:"location_ids"`
	jwt.RegisteredClaims
}

// WithActor кладёт сотрудника в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext достаёт сотрудника, положенного Auth
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}

// Auth проверяет Bearer токен (HS256) и кладёт domain.Actor в контекст запроса
func Auth(secret []byte, log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			actor, err := ParseToken(parts[1], secret)
			if err != nil {
				log.Warn("%s %s - rejected token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// ParseToken проверяет подпись и срок действия токена и собирает сотрудника из claims
func ParseToken(tokenString string, secret []byte) (domain.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Actor{}, err
	}
	if !token.Valid {
		return domain.Actor{}, errors.New("token is not valid")
	}

	if claims.Subject == "" {
		return domain.Actor{}, errors.New("token has no subject")
	}

	role := domain.Role(claims.Role)
	if !role.IsValid() {
		return domain.Actor{}, errors.New("token has unknown role")
	}

	return domain.Actor{
		UserID:      claims.Subject,
		Role:        role,
		LocationIDs: claims.LocationIDs,
	}, nil
}

// RequireAdmin пропускает только администраторов. Ставится после Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}
		if !actor.IsAdmin() {
			handlers.RespondForbidden(w, msgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}
