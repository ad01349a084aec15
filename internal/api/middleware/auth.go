package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-TrainingBooking/internal/api/handlers"
)

const (
	HeaderUserID = "X-User-ID"

	tokenLeeway = 5 * time.Second
)

type contextKey string

const userIDKey contextKey = "telegram_user_id"

var (
	ErrMissingCredentials = errors.New("middleware.auth: missing credentials")
	ErrInvalidUserID      = errors.New("middleware.auth: invalid user id")
	ErrInvalidToken       = errors.New("middleware.auth: invalid token")
)

// Claims полезная нагрузка токена
type Claims struct {
	TelegramID int64 `json:"telegramId"`
	jwt.RegisteredClaims
}

// IssueToken подписывает HS256 токен для telegram id
func IssueToken(secret string, telegramID int64, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		TelegramID: telegramID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(telegramID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Auth определяет telegram id пользователя.
// Bearer-токен проверяется, только если задан secret; иначе используется X-User-ID.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			telegramID, err := resolveUser(r, secret)
			if err != nil {
				handlers.RespondUnauthorized(w, "")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, telegramID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID telegram id, положенный Auth в контекст
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// WithUserID кладет telegram id в контекст (для тестов и внутренних вызовов)
func WithUserID(ctx context.Context, telegramID int64) context.Context {
	return context.WithValue(ctx, userIDKey, telegramID)
}

func resolveUser(r *http.Request, secret string) (int64, error) {
	if auth := r.Header.Get("Authorization"); auth != "" && secret != "" {
		parts := strings.Fields(auth)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return 0, ErrInvalidToken
		}
		return parseToken(parts[1], secret)
	}

	raw := r.Header.Get(HeaderUserID)
	if raw == "" {
		return 0, ErrMissingCredentials
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidUserID, raw)
	}
	return id, nil
}

func parseToken(tokenStr, secret string) (int64, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	}, jwt.WithLeeway(tokenLeeway), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.TelegramID <= 0 {
		return 0, fmt.Errorf("%w: no telegramId claim", ErrInvalidToken)
	}
	return claims.TelegramID, nil
}
