package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Kind classifies client-caused failures. Anything that is not an *Error is
// a server fault.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidInput
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a rejected request. Message is safe to return to the caller.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf returns the Kind of err, or 0 when err is not a service rejection.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

const (
	msgEmailNotValid = "EMAIL IS NOT VALID!"
	msgNameNotValid  = "NAME IS NOT VALID!"
	msgEmailTaken    = "EMAIL IS ALREADY TAKEN!"
)

func notFoundByID(entity string, id any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s NOT EXIST! ID: %v", entity, id)}
}

func notFoundByEmail(entity, email string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s NOT EXIST! E-MAIL: %s", entity, email)}
}

func alreadyExists(entity, key, value string) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf("%s ALREADY EXIST! %s: %s", entity, key, value)}
}

func invalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

func conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// reject logs a rejection once, where it is detected, and returns it.
func reject(log zerolog.Logger, e *Error) error {
	log.Error().Str("kind", e.Kind.String()).Msg(e.Message)
	return e
}

// fault logs a storage failure once and wraps it with the operation name.
func fault(log zerolog.Logger, op string, err error) error {
	log.Error().Err(err).Str("op", op).Msg("storage failure")
	return fmt.Errorf("%s: %w", op, err)
}

// settle finishes a transactional operation: rejections were already logged
// inside the transaction, anything else is a fault.
func settle(log zerolog.Logger, op string, err error) error {
	if err == nil || KindOf(err) != 0 {
		return err
	}
	return fault(log, op, err)
}
