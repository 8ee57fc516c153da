// Package errors attaches a numeric Code to errors, so that callers can
// tell a wrong password from a broken record or a failed broadcast
// without matching messages. Stacks are recorded by github.com/pkg/errors.
package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

type Code int

// CodeSegment is the width of one code group.
const CodeSegment = 1000

const (
	CodeGeneral Code = (iota + 1) * CodeSegment
	CodeAddress
	CodeWallet
	CodeTransaction
	CodeRPC
	CodeCritical
)

const (
	Success      Code = 0
	UnknownError Code = CodeGeneral + iota
	IllegalArgumentError
	UnsupportedError
	InvalidStateError
	NotFoundError
	InvalidNetworkError
	TimeoutError
)

// Address codec failures.
const (
	InvalidEncodingError Code = CodeAddress + iota
	ChecksumMismatchError
	InvalidLengthError
	InvalidPrefixError
)

// Password and wallet record failures.
const (
	WeakPasswordError Code = CodeWallet + iota
	WrongPasswordError
	CorruptRecordError
	MissingPrivateKeyError
	KeyDerivationError
)

// Signing and validation failures.
const (
	NoPrivateKeyError Code = CodeTransaction + iota
	EmptyContractSetError
	MalformedBytesError
	BroadcastFailError
)

// Ledger RPC failures.
const (
	RPCTransportError Code = CodeRPC + iota
	RPCServerError
	RPCMalformedResponseError
)

const (
	CriticalUnknownError Code = CodeCritical + iota
	CriticalIOError
	CriticalFormatError
)

var codeNames = map[Code]string{
	Success:                   "Success",
	UnknownError:              "UnknownError",
	IllegalArgumentError:      "IllegalArgument",
	UnsupportedError:          "Unsupported",
	InvalidStateError:         "InvalidState",
	NotFoundError:             "NotFound",
	InvalidNetworkError:       "InvalidNetwork",
	TimeoutError:              "Timeout",
	InvalidEncodingError:      "InvalidEncoding",
	ChecksumMismatchError:     "ChecksumMismatch",
	InvalidLengthError:        "InvalidLength",
	InvalidPrefixError:        "InvalidPrefix",
	WeakPasswordError:         "WeakPassword",
	WrongPasswordError:        "WrongPassword",
	CorruptRecordError:        "CorruptRecord",
	MissingPrivateKeyError:    "MissingPrivateKey",
	KeyDerivationError:        "KeyDerivationError",
	NoPrivateKeyError:         "NoPrivateKey",
	EmptyContractSetError:     "EmptyContractSet",
	MalformedBytesError:       "MalformedBytes",
	BroadcastFailError:        "BroadcastFail",
	RPCTransportError:         "RPCTransport",
	RPCServerError:            "RPCServer",
	RPCMalformedResponseError: "RPCMalformedResponse",
	CriticalUnknownError:      "CriticalUnknown",
	CriticalIOError:           "CriticalIO",
	CriticalFormatError:       "CriticalFormat",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Sentinel errors carrying only a code. Errors built from the same code
// match them with Is.
var (
	ErrNoPrivateKey     = NoPrivateKeyError.Base()
	ErrEmptyContractSet = EmptyContractSetError.Base()

	ErrWrongPassword     = WrongPasswordError.Base()
	ErrCorruptRecord     = CorruptRecordError.Base()
	ErrMissingPrivateKey = MissingPrivateKeyError.Base()
)

func IsCriticalCode(c Code) bool {
	return c >= CodeCritical && c < CodeCritical+CodeSegment
}

func IsCritical(e error) bool {
	return IsCriticalCode(CodeOf(e))
}

// Base returns an error of code c whose message is the code name.
func (c Code) Base() error {
	return NewBase(c, c.String())
}

func (c Code) New(msg string) error {
	return Errorc(c, msg)
}

func (c Code) Errorf(f string, args ...interface{}) error {
	return Errorcf(c, f, args...)
}

func (c Code) Wrap(e error, msg string) error {
	return Wrapc(e, c, msg)
}

func (c Code) Wrapf(e error, f string, args ...interface{}) error {
	return Wrapcf(e, c, f, args...)
}

func (c Code) Equals(e error) bool {
	return e != nil && CodeOf(e) == c
}

// New makes an error with a stack and without a code.
func New(msg string) error {
	return errors.New(msg)
}

func Errorf(f string, args ...interface{}) error {
	return errors.Errorf(f, args...)
}

func WithStack(e error) error {
	return errors.WithStack(e)
}

// baseError has a code and a message but no stack, for package level
// sentinels.
type baseError struct {
	code Code
	msg  string
}

func NewBase(code Code, msg string) error {
	return &baseError{code, msg}
}

func (e *baseError) Error() string {
	return e.msg
}

func (e *baseError) ErrorCode() Code {
	return e.code
}

func (e *baseError) Format(f fmt.State, c rune) {
	fmt.Fprintf(f, "E%04d:%s", e.code, e.msg)
}

// codedError carries a code, a message with its stack, and optionally the
// error it wraps.
type codedError struct {
	code   Code
	msg    error
	origin error
}

func (e *codedError) Error() string {
	return e.msg.Error()
}

func (e *codedError) ErrorCode() Code {
	return e.code
}

func (e *codedError) Unwrap() error {
	if e.origin != nil {
		return e.origin
	}
	return e.msg
}

// Is matches a baseError sentinel of the same code.
func (e *codedError) Is(target error) bool {
	be, ok := target.(*baseError)
	return ok && be.code == e.code
}

func (e *codedError) Format(f fmt.State, c rune) {
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "E%04d:%+v", e.code, e.msg)
		if e.origin != nil {
			fmt.Fprintf(f, "\nWrapping %+v", e.origin)
		}
		return
	}
	fmt.Fprintf(f, "E%04d:%s", e.code, e.msg.Error())
}

func Errorc(code Code, msg string) error {
	return &codedError{code: code, msg: errors.New(msg)}
}

func Errorcf(code Code, f string, args ...interface{}) error {
	return &codedError{code: code, msg: errors.Errorf(f, args...)}
}

func Wrapc(e error, code Code, msg string) error {
	return &codedError{code: code, msg: errors.New(msg), origin: e}
}

func Wrapcf(e error, code Code, f string, args ...interface{}) error {
	return &codedError{code: code, msg: errors.Errorf(f, args...), origin: e}
}

// WithCode gives err the code. The message of err is kept.
func WithCode(err error, code Code) error {
	if err == nil {
		return nil
	}
	if _, ok := CoderOf(err); ok {
		return Wrapc(err, code, err.Error())
	}
	return &codedError{code: code, msg: err}
}

// messageError adds context to an error and keeps its code.
type messageError struct {
	msg    error
	origin error
}

func (e *messageError) Error() string {
	return e.msg.Error()
}

func (e *messageError) Unwrap() error {
	return e.origin
}

func (e *messageError) Format(f fmt.State, c rune) {
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "%+v\nWrapping %+v", e.msg, e.origin)
		return
	}
	fmt.Fprint(f, e.msg.Error())
}

func Wrap(e error, msg string) error {
	return &messageError{msg: errors.New(msg), origin: e}
}

func Wrapf(e error, f string, args ...interface{}) error {
	return &messageError{msg: errors.Errorf(f, args...), origin: e}
}

type ErrorCoder interface {
	error
	ErrorCode() Code
}

// CoderOf returns the outermost error in the chain of e that has a code.
func CoderOf(e error) (ErrorCoder, bool) {
	for ; e != nil; e = Unwrap(e) {
		if coder, ok := e.(ErrorCoder); ok {
			return coder, true
		}
	}
	return nil, false
}

func CodeOf(e error) Code {
	if e == nil {
		return Success
	}
	if coder, ok := CoderOf(e); ok {
		return coder.ErrorCode()
	}
	return UnknownError
}

func Unwrap(err error) error {
	switch obj := err.(type) {
	case interface{ Unwrap() error }:
		return obj.Unwrap()
	case interface{ Cause() error }:
		return obj.Cause()
	default:
		return nil
	}
}

// Is reports whether target is in the chain of err.
func Is(err, target error) bool {
	if target == nil {
		return err == nil
	}
	canCompare := reflect.TypeOf(target).Comparable()
	for ; err != nil; err = Unwrap(err) {
		if canCompare && err == target {
			return true
		}
		if x, ok := err.(interface{ Is(error) bool }); ok && x.Is(target) {
			return true
		}
	}
	return false
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func ToString(e error) string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%v", e)
}
