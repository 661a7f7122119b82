package holdings

import "errors"

const _genericMessage = "Something went Wrong"

type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidURL
	KindInvalidResponse
	KindDecoding
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindInvalidResponse:
		return "invalid_response"
	case KindDecoding:
		return "decoding_error"
	case KindNetwork:
		return "network_error"
	default:
		return "unknown"
	}
}

// Error classifies a failed fetch. Two errors of the same Kind match under
// errors.Is regardless of the wrapped cause.
type Error struct {
	Kind Kind
	Err  error
}

var (
	ErrInvalidURL      = &Error{Kind: KindInvalidURL}
	ErrInvalidResponse = &Error{Kind: KindInvalidResponse}
	ErrDecoding        = &Error{Kind: KindDecoding}
	ErrNetwork         = &Error{Kind: KindNetwork}
)

// Error is the user-facing message: the cause's text for network failures,
// a fixed generic text otherwise.
func (e *Error) Error() string {
	if e.Kind == KindNetwork && e.Err != nil {
		return e.Err.Error()
	}
	return _genericMessage
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf reports the classification of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
