// Package apperr defines the error taxonomy shared by the auth, service and
// store layers. Only the api layer translates a Kind into a transport status.
package apperr

import "errors"

// Kind classifies a failure independently of the transport.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidCredentials
	KindUnauthenticated
	KindForbidden
	KindConflict
	KindNotFound
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// Error carries a Kind and a message that is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Stable, client-visible failures.
var (
	ErrIncorrectLogin     = New(KindInvalidCredentials, "Incorrect email or password")
	ErrInvalidCredentials = New(KindInvalidCredentials, "Could not validate credentials")
	ErrUnauthenticated    = New(KindUnauthenticated, "Could not validate credentials")
	ErrNotAuthenticated   = New(KindUnauthenticated, "Not authenticated")
	ErrForbidden          = New(KindForbidden, "You do not have permission to update this user")
	ErrUsernameExists     = New(KindConflict, "Username already exists")
	ErrEmailExists        = New(KindConflict, "Email already exists")
	ErrAccountNotFound    = New(KindNotFound, "User not found")
	ErrTaskNotFound       = New(KindNotFound, "Task not found.")
)

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-visible message of err, or a generic one for
// failures that did not originate in this taxonomy.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}
