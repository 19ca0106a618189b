package errcode

// Code is a stable error identifier shared across the monitoring stack.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// ConfigError: bad descriptor set, capacity exceeded, address collision.
	ConfigError Code = "config_error"
	// BusError: no ACK, no presence pulse, malformed response.
	BusError Code = "bus_error"
	// ValidationError: decoded value outside physical plausibility.
	ValidationError Code = "validation_error"
	// NotReady: busy/uncalibrated status observed; retryable.
	NotReady Code = "not_ready"
	// Unsupported: operation or sink type not implemented.
	Unsupported Code = "unsupported"
	// NotFound: no device answered (e.g. missing presence pulse).
	NotFound Code = "not_found"

	Error Code = "error" // generic fallback
)

// E wraps a Code with context and an optional cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap builds an *E keeping the cause for errors.Unwrap chains.
func Wrap(c Code, op string, err error) *E {
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, walking wrapped causes,
// defaulting to Error for foreign errors and OK for nil.
func Of(err error) Code {
	for err != nil {
		if c, ok := err.(Code); ok {
			return c
		}
		type coder interface{ Code() Code }
		if x, ok := err.(coder); ok {
			return x.Code()
		}
		type unwrapper interface{ Unwrap() error }
		u, ok := err.(unwrapper)
		if !ok {
			return Error
		}
		err = u.Unwrap()
	}
	return OK
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, c Code) bool {
	if err == nil {
		return c == OK
	}
	return Of(err) == c
}
