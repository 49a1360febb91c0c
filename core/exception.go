package core

// ExceptionCode classifies evaluation exceptions.
type ExceptionCode uint8

// Exception codes. Evaluation is total: exceptions are reported, never
// raised as panics or errors.
const (
	// ExcNone indicates a normal evaluation.
	ExcNone ExceptionCode = iota

	// ExcUnknownOperation indicates an opcode outside the defined set.
	// The primary result is all-zero.
	ExcUnknownOperation

	// ExcUnsupportedOperation indicates a known opcode whose required
	// feature is disabled for this configuration. The primary result is
	// all-zero.
	ExcUnsupportedOperation

	// ExcDivideByZero indicates DIV or MOD with a zero divisor. The
	// primary result is the all-ones sentinel and the secondary is zero.
	ExcDivideByZero
)

// String returns the canonical name of the exception code.
func (c ExceptionCode) String() string {
	switch c {
	case ExcNone:
		return "none"
	case ExcUnknownOperation:
		return "unknown_operation"
	case ExcUnsupportedOperation:
		return "unsupported_operation"
	case ExcDivideByZero:
		return "divide_by_zero"
	default:
		return "invalid"
	}
}

// Exception reports whether an evaluation raised an exceptional condition.
type Exception struct {
	// Occurred is true when Code is not ExcNone.
	Occurred bool

	// Code identifies the condition.
	Code ExceptionCode
}

func newException(code ExceptionCode) Exception {
	return Exception{Occurred: code != ExcNone, Code: code}
}
