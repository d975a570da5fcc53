package service

import (
	"errors"

	"github.com/fsdevblog/billsplit/internal/domain"
)

// translateRepoErr переводит ошибку репозитория в бизнес-ошибку. Бизнес-ошибки возвращаются как есть.
func translateRepoErr(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var e *domain.Error
	if errors.As(err, &e) {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		return domain.NewError(domain.KindNotFound, err, format, args...)
	case errors.Is(err, domain.ErrDuplicateKey):
		return domain.NewError(domain.KindConflict, err, format, args...)
	default:
		return domain.NewDatabaseError(err, format, args...)
	}
}
