package domain

import (
	"errors"
	"fmt"
	"io"

	pkgerrors "github.com/pkg/errors"
)

// Ошибки слоя репозитория.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrConstraint     = errors.New("constraint violation")
	ErrUnknown        = errors.New("unknown error")
)

// ErrorKind закрытый набор видов бизнес-ошибок. Транспорт сопоставляет их со статусами через switch.
type ErrorKind uint8

const (
	KindValidation ErrorKind = iota + 1
	KindUnauthorized
	KindConflict
	KindNotFound
	KindInsufficientFunds
	KindDeadlineExpired
	KindDatabase
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindUnauthorized:
		return "UnauthorizedError"
	case KindConflict:
		return "ConflictError"
	case KindNotFound:
		return "NotFoundError"
	case KindInsufficientFunds:
		return "InsufficientFundsError"
	case KindDeadlineExpired:
		return "DeadlineExpiredError"
	case KindDatabase:
		return "DatabaseError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// Error бизнес-ошибка с видом и человекочитаемым сообщением. Err - исходная причина, наружу не отдается.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Err.Error())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Format для %+v печатает исходную причину вместе со стеком, если он был сохранен.
func (e *Error) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') && e.Err != nil {
		_, _ = fmt.Fprintf(s, "%s: %s: %+v", e.Kind, e.Message, e.Err)
		return
	}
	_, _ = io.WriteString(s, e.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать ошибки по виду: errors.Is(err, &Error{Kind: KindConflict}).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

func NewError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NewValidationError(format string, args ...any) *Error {
	return NewError(KindValidation, nil, format, args...)
}

func NewUnauthorizedError(format string, args ...any) *Error {
	return NewError(KindUnauthorized, nil, format, args...)
}

func NewConflictError(format string, args ...any) *Error {
	return NewError(KindConflict, nil, format, args...)
}

func NewNotFoundError(format string, args ...any) *Error {
	return NewError(KindNotFound, nil, format, args...)
}

func NewInsufficientFundsError(format string, args ...any) *Error {
	return NewError(KindInsufficientFunds, nil, format, args...)
}

func NewDeadlineExpiredError(format string, args ...any) *Error {
	return NewError(KindDeadlineExpired, nil, format, args...)
}

// NewDatabaseError оборачивает ошибку хранилища, сохраняя стек вызова для режима разработки.
func NewDatabaseError(err error, format string, args ...any) *Error {
	return NewError(KindDatabase, pkgerrors.WithStack(err), format, args...)
}

// Образцы для errors.Is.
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds}
	ErrDeadlineExpired   = &Error{Kind: KindDeadlineExpired}
	ErrDatabase          = &Error{Kind: KindDatabase}
)

// KindOf возвращает вид ошибки. Ошибки без вида считаются KindDatabase.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindDatabase
}
