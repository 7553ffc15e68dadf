// Package apperr is the typed error vocabulary shared by services and the
// HTTP layer. Services return *Error; httpkit turns the Kind into a status
// and a machine-readable code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind doubles as the "code" field of error responses.
type Kind string

const (
	KindUnknown           Kind = ""
	KindValidation        Kind = "validation_failed"
	KindNotFound          Kind = "not_found"
	KindInsufficientScore Kind = "insufficient_score"
	KindUnavailable       Kind = "unavailable"
)

var statusByKind = map[Kind]int{
	KindValidation:        http.StatusBadRequest,
	KindNotFound:          http.StatusNotFound,
	KindInsufficientScore: http.StatusForbidden,
	KindUnavailable:       http.StatusServiceUnavailable,
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
	Details any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the kind to a response status; unknown kinds are 500.
func (e *Error) HTTPStatus() int {
	if status, ok := statusByKind[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap keeps err for logs and errors.Is; only message reaches the client.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

// ScoreDetails travels with KindInsufficientScore so the site can show how
// far the visitor is from unlocking a resource.
type ScoreDetails struct {
	RequiredScore int `json:"requiredScore"`
	CurrentScore  int `json:"currentScore"`
}

func InsufficientScore(required, current int) *Error {
	msg := fmt.Sprintf(
		"This premium resource requires a lead score of %d. Your current score is %d. Try engaging more with our content!",
		required, current,
	)
	return New(KindInsufficientScore, msg).WithDetails(ScoreDetails{RequiredScore: required, CurrentScore: current})
}

// GetKind finds the first *Error in the chain.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
