package bc1

import "errors"

// ErrorCode classifies boundary-layer errors. The codec core itself is total and never fails.
type ErrorCode uint32

const (
	// Success means no error.
	Success ErrorCode = 0

	// ErrBadParam reports a nil or otherwise unusable argument.
	ErrBadParam ErrorCode = 1

	// ErrBadBlockSize reports a source or destination buffer of the wrong length.
	ErrBadBlockSize ErrorCode = 2

	// ErrBadMode reports an unknown approximation mode.
	ErrBadMode ErrorCode = 3

	// ErrBadLevel reports a quality level outside [0, MaxLevel].
	ErrBadLevel ErrorCode = 4

	// ErrBadDimensions reports non-positive or inconsistent image dimensions.
	ErrBadDimensions ErrorCode = 5
)

// ErrorString returns the symbolic name of code, or "" for unknown codes.
func ErrorString(code ErrorCode) string {
	switch code {
	case Success:
		return "BC1_SUCCESS"
	case ErrBadParam:
		return "BC1_ERR_BAD_PARAM"
	case ErrBadBlockSize:
		return "BC1_ERR_BAD_BLOCK_SIZE"
	case ErrBadMode:
		return "BC1_ERR_BAD_MODE"
	case ErrBadLevel:
		return "BC1_ERR_BAD_LEVEL"
	case ErrBadDimensions:
		return "BC1_ERR_BAD_DIMENSIONS"
	default:
		return ""
	}
}

// Error is a typed error that carries an ErrorCode.
type Error struct {
	Code ErrorCode
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg != "" {
		return e.Msg
	}
	if s := ErrorString(e.Code); s != "" {
		return "bc1: " + s
	}
	return "bc1: error"
}

// ErrorCodeOf returns the error code carried by err, or Success for nil.
//
// For non-*Error errors it returns ErrBadParam.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrBadParam
}

func newError(code ErrorCode, msg string) error {
	return &Error{Code: code, Msg: msg}
}
