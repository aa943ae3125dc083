package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/failure"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decode reads a JSON body into dst and validates its tags.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return failure.InvalidRequest("failed to decode request body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		return failure.InvalidRequest("%s", validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// actingUser reads the caller id from the user header.
func (s *HTTPServer) actingUser(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(s.cfg.UserHeader))
	if raw == "" {
		return 0, failure.InvalidRequest("missing %s header", s.cfg.UserHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, failure.InvalidRequest("invalid %s header: %s", s.cfg.UserHeader, raw)
	}
	return id, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, failure.InvalidRequest("invalid %s: %s", name, raw)
	}
	return id, nil
}
