package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrNoActiveSession     = errors.New("no active session")
	ErrActiveSessionExists = errors.New("active session already exists")
	ErrDependency          = errors.New("entry is still referenced")
	ErrConflict            = errors.New("conflict")
)

type ErrorKind string

const (
	KindInvalid    ErrorKind = "invalid"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindDependency ErrorKind = "dependency"
	KindInternal   ErrorKind = "internal"
)

// Kind classifies err for user-facing reporting. Anything unrecognised is internal.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindInvalid
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoActiveSession):
		return KindNotFound
	case errors.Is(err, ErrActiveSessionExists), errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrDependency):
		return KindDependency
	default:
		return KindInternal
	}
}

// Recoverable reports whether err is a domain failure the caller can show as a message.
func Recoverable(err error) bool {
	k := Kind(err)
	return k != "" && k != KindInternal
}

// Message renders err for the user. The session lifecycle conflicts keep
// their fixed wording; everything else falls back to err.Error().
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrActiveSessionExists):
		return "進行中のセッションが既に存在します。"
	case errors.Is(err, ErrNoActiveSession):
		return "進行中のセッションがありません。"
	default:
		return err.Error()
	}
}
