package uow

import (
	"errors"
	"fmt"
)

var (
	ErrRepositoryNotRegistered     = errors.New("[uow] repository not registered")
	ErrRepositoryAlreadyRegistered = errors.New("[uow] repository already registered")
	ErrInvalidRepositoryType       = errors.New("[uow] invalid repository type")
	ErrNilFactory                  = errors.New("[uow] nil repository factory")
)

// repositoryError дополняет sentinel ошибку именем репозитория. errors.Is по sentinel продолжает работать.
func repositoryError(sentinel error, name RepositoryName) error {
	return fmt.Errorf("%w: %q", sentinel, name)
}
