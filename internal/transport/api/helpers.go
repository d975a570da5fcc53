package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fsdevblog/billsplit/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID устанавливается в
// middlewares.AuthRequired. В случае, если значения в контексте нет или ошибка утверждения типа -
// вернется 0.
func getUserIDFromContext(c *gin.Context) int64 {
	userIDStr, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return 0
	}
	userID, ok := userIDStr.(int64)
	if !ok {
		return 0
	}
	return userID
}

func getSessionIDFromContext(c *gin.Context) string {
	return c.GetString(middlewares.CurrentSessionIDKey)
}

// pathID разбирает положительный числовой параметр пути. При ошибке запрос уже прерван с 400.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		_ = c.AbortWithError(http.StatusBadRequest, errors.New("invalid "+name)).SetType(gin.ErrorTypePublic)
		return 0, false
	}
	return id, true
}

// bindJSON разбирает тело запроса. Ошибки правил валидации отдаются с 422 и перечнем полей.
func bindJSON(c *gin.Context, params any) bool {
	if bindErr := c.ShouldBindJSON(params); bindErr != nil {
		var valErrs validator.ValidationErrors
		if errors.As(bindErr, &valErrs) {
			fields := make(map[string]string, len(valErrs))
			for _, fe := range valErrs {
				fields[fe.Namespace()] = fe.Tag()
			}
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "validation", "fields": fields})
			return false
		}
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return false
	}
	return true
}

// abortWithServiceError передает ошибку сервиса в middlewares.Errors, который выберет статус по ее виду.
func abortWithServiceError(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypePrivate)
	c.Abort()
}
