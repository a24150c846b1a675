package errs

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("you do not have permission to perform this action")
	ErrInvalidArgument    = errors.New("at least one of date_begin or date_end must be specified")
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
)

const (
	MsgDateOrder   = "End date must be later, than begin date"
	MsgOverlap     = "Room Reservation with the same Room number already exists in date range"
	MsgNegative    = "Price cannot be negative"
	MsgUserExists  = "A user with that username already exists."
	MsgRoomExists  = "Room with this Room number already exists."
	MsgNoSuchRoom  = "Invalid room number - object does not exist."
	MsgBadDate     = "Date has wrong format."
	MsgInvalidJSON = "Invalid request body."
)

// ValidationError is a field-scoped rejection: every entry of Fields names an input field and its message.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// NewValidationError flags every field in fields with msg.
func NewValidationError(msg string, fields ...string) *ValidationError {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f] = msg
	}
	return &ValidationError{Message: "validation error", Fields: m}
}

func IsValidation(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}
