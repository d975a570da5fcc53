package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/fsdevblog/billsplit/internal/service/tokens"
	"github.com/gin-gonic/gin"
)

var ErrTokenNotExist = errors.New("token not exist")

const (
	CurrentUserIDKey    = "currentUserID"
	CurrentSessionIDKey = "currentSessionID"
)

// Authenticator проверяет токен и живость его сессии.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*tokens.UserClaims, error)
}

// bearerToken извлекает токен из заголовка Authorization. Если токен не передан, вернется ошибка
// ErrTokenNotExist.
func bearerToken(c *gin.Context) (string, error) {
	token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !found || token == "" {
		return "", ErrTokenNotExist
	}
	return token, nil
}

// AuthRequired проверяет, что запрос авторизован. Записывает в контекст id юзера (CurrentUserIDKey)
// и id сессии (CurrentSessionIDKey).
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, authErr := auth.Authenticate(c, token)
		if authErr != nil {
			if domain.KindOf(authErr) != domain.KindUnauthorized {
				_ = c.AbortWithError(http.StatusInternalServerError, authErr).SetType(gin.ErrorTypePrivate)
				return
			}
			_ = c.Error(authErr).SetType(gin.ErrorTypePrivate)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(CurrentUserIDKey, claims.ID)
		c.Set(CurrentSessionIDKey, claims.SessionID)
		c.Next()
	}
}
