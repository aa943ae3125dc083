package failure

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Failure is an error the caller can act on. Code is the HTTP status it maps to.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (f *Failure) Error() string {
	return f.Message
}

// NotFound is returned for missing entities and for entities the caller may not see.
func NotFound(format string, args ...any) error {
	return newFailure(http.StatusNotFound, format, args...)
}

// InvalidRequest is returned for bad input and illegal state transitions.
func InvalidRequest(format string, args ...any) error {
	return newFailure(http.StatusBadRequest, format, args...)
}

// Conflict is returned when a unique field is already taken.
func Conflict(format string, args ...any) error {
	return newFailure(http.StatusConflict, format, args...)
}

func newFailure(code int, format string, args ...any) error {
	return pkgerrors.WithStack(&Failure{Code: code, Message: fmt.Sprintf(format, args...)})
}

// GetCode returns the HTTP status for err. Anything that is not a Failure is a 500.
func GetCode(err error) int {
	var f *Failure
	if errors.As(err, &f) {
		return f.Code
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return err != nil && GetCode(err) == http.StatusNotFound
}

func IsInvalidRequest(err error) bool {
	return err != nil && GetCode(err) == http.StatusBadRequest
}

func IsConflict(err error) bool {
	return err != nil && GetCode(err) == http.StatusConflict
}
