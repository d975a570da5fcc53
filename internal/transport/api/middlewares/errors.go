package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/gin-gonic/gin"
)

func statusErrorText(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not found"
	case http.StatusUnprocessableEntity:
		return "unprocessable entity"
	case http.StatusConflict:
		return "conflict"
	default:
		return "internal server error"
	}
}

// StatusOf http статус для вида бизнес-ошибки.
func StatusOf(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInsufficientFunds:
		return http.StatusPaymentRequired
	case domain.KindDeadlineExpired:
		return http.StatusGone
	case domain.KindDatabase:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Errors отдает клиенту первую ошибку запроса. Бизнес-ошибки сервисов (*domain.Error) сами определяют статус
// ответа, поэтому обработчики передают их через c.Error без установки статуса. В режиме разработки к ответу добавляется полная цепочка ошибки со стеком.
func Errors(devMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// тело уже отдано обработчиком
		if len(c.Errors) == 0 || c.Writer.Size() > 0 {
			return
		}

		// обрабатываем только первую ошибку
		firstErr := c.Errors[0]

		var domainErr *domain.Error
		if errors.As(firstErr.Err, &domainErr) {
			body := gin.H{"error": domainErr.Kind.String(), "message": domainErr.Message}
			if domainErr.Kind == domain.KindDatabase {
				// детали хранилища клиенту не нужны
				body["message"] = statusErrorText(http.StatusInternalServerError)
			}
			if devMode {
				body["detail"] = fmt.Sprintf("%+v", domainErr)
			}
			c.AbortWithStatusJSON(StatusOf(domainErr.Kind), body)
			return
		}

		var msg string
		if firstErr.IsType(gin.ErrorTypePublic) {
			msg = firstErr.Error()
		} else {
			msg = statusErrorText(c.Writer.Status())
		}

		accept := c.GetHeader("Accept")
		contentType := c.GetHeader("Content-Type")
		switch {
		case strings.Contains(accept, "application/json"),
			strings.Contains(contentType, "application/json"):
			c.JSON(c.Writer.Status(), gin.H{"error": msg})
		default:
			c.String(c.Writer.Status(), msg)
		}
		c.Abort()
	}
}
