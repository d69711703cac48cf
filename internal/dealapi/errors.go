package dealapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound          = errors.New("не найдено")
	ErrValidation        = errors.New("некорректный запрос")
	ErrConflict          = errors.New("конфликт версий")
	ErrTransport         = errors.New("ошибка транспорта")
	ErrMalformedResponse = errors.New("некорректный ответ сервера")
)

// APIError is a failed call to the deal backend. Err is one of the
// package sentinels, so callers match with errors.Is.
type APIError struct {
	Method    string
	Path      string
	Status    int
	Code      string
	Message   string
	RequestID string
	Err       error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Err.Error()
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, msg)
	}
	return fmt.Sprintf("%s %s: %s (status=%d)", e.Method, e.Path, msg, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return ErrValidation
	case status == http.StatusConflict || status == http.StatusPreconditionFailed || status == http.StatusForbidden:
		return ErrConflict
	default:
		return ErrTransport
	}
}

// IsNotFound is a shorthand used by read paths that degrade to "absent".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
