package schedule

// ErrorKind identifies a validation failure. Kinds are stable strings;
// clients may switch on them.
type ErrorKind string

const (
	ErrOutOfRange         ErrorKind = "out_of_range"
	ErrEmptyRecipientList ErrorKind = "empty_recipient_list"
	ErrMissingRecipientID ErrorKind = "missing_recipient_id"
	ErrNonPositiveAmount  ErrorKind = "non_positive_amount"
	ErrAmountExceedsLimit ErrorKind = "amount_exceeds_limit"
	ErrDuplicateRecipient ErrorKind = "duplicate_recipient"
	ErrInvalidTransition  ErrorKind = "invalid_transition"
)

// ValidationError is a validation failure returned as data. Invalid input
// comes from user-facing forms and is routine, so it is never a panic.
type ValidationError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ValidationError) Error() string {
	return string(e.Kind) + ": " + e.Message
}
