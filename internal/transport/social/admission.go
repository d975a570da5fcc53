// Package social проверяет допуск юзера к счету через внешний социальный сервис.
package social

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/billsplit/internal/transport/social/client"
	"github.com/sirupsen/logrus"
)

const (
	defaultAPITimeout       = 5 * time.Second
	defaultMaxAttempts uint = 3
)

// Admission решает, может ли юзер присоединиться к счету: он должен быть другом хоста или приглашенным.
type Admission struct {
	client      Client
	l           *logrus.Entry
	maxAttempts uint
}

func New(apiBaseURL string, l *logrus.Logger) *Admission {
	return NewWithClient(client.New(apiBaseURL), l)
}

func NewWithClient(c Client, l *logrus.Logger) *Admission {
	return &Admission{
		client: c,
		l: l.WithFields(logrus.Fields{
			"component": "social",
			"module":    "admission",
		}),
		maxAttempts: defaultMaxAttempts,
	}
}

// SetMaxAttempts устанавливает кол-во попыток запроса при ответе 429.
func (a *Admission) SetMaxAttempts(attempts uint) *Admission {
	if attempts > 0 {
		a.maxAttempts = attempts
	}
	return a
}

// CanJoin делает запрос в социальный сервис. В случае получения ошибки 429 ждет время из заголовка
// ответа и повторяет запрос, но не больше maxAttempts раз.
func (a *Admission) CanJoin(ctx context.Context, hostID, userID, billID int64) (bool, error) {
	l := a.l.WithFields(logrus.Fields{
		"hostID": hostID,
		"userID": userID,
		"billID": billID,
	})

	var attempt uint
	for {
		attempt++
		reqCtx, cancel := context.WithTimeout(ctx, defaultAPITimeout)
		relations, err := a.client.GetRelations(reqCtx, hostID, userID, billID)
		cancel()

		if err == nil {
			allowed := relations.Friends || relations.Invited
			l.WithField("allowed", allowed).Debug("admission checked")
			return allowed, nil
		}

		var tooManyReq *client.TooManyRequestError
		if !errors.As(err, &tooManyReq) || attempt >= a.maxAttempts {
			l.WithError(err).WithField("attempt", attempt).Error("admission check failed")
			return false, fmt.Errorf("admission check: %w", err)
		}

		l.WithField("retryAfter", tooManyReq.RetryAfter).Warn("rate limited, retrying")
		select {
		case <-ctx.Done():
			return false, fmt.Errorf("admission check: %w", ctx.Err())
		case <-time.After(tooManyReq.RetryAfter):
		}
	}
}
