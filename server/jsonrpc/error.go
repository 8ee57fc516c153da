package jsonrpc

import (
	"fmt"
)

const (
	ErrorCodeParse          ErrorCode = -32700
	ErrorCodeInvalidRequest ErrorCode = -32600
	ErrorCodeMethodNotFound ErrorCode = -32601
	ErrorCodeInvalidParams  ErrorCode = -32602
	ErrorCodeInternal       ErrorCode = -32603

	// ErrorCodeServer is returned when the ledger rejects a well-formed
	// request, for example an unknown account.
	ErrorCodeServer ErrorCode = -32000
)

type ErrorCode int

func (c ErrorCode) New(msg string) *Error {
	return &Error{Code: c, Message: msg}
}

func (c ErrorCode) Errorf(f string, args ...interface{}) *Error {
	return &Error{Code: c, Message: fmt.Sprintf(f, args...)}
}

// Wrap converts err into an Error, attaching its detail as data when
// debug is set.
func (c ErrorCode) Wrap(err error, debug bool) *Error {
	if je, ok := err.(*Error); ok {
		return je
	}
	e := &Error{Code: c, Message: err.Error()}
	if debug {
		e.Data = fmt.Sprintf("%+v", err)
	}
	return e
}

type Error struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error implements error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc: code: %d, message: %s, data: %+v", e.Code, e.Message, e.Data)
}

func message(def string, msg []string) string {
	if len(msg) > 0 && msg[0] != "" {
		return msg[0]
	}
	return def
}

func ErrParse(msg ...string) *Error {
	return ErrorCodeParse.New(message("Parse error", msg))
}

func ErrInvalidRequest(msg ...string) *Error {
	return ErrorCodeInvalidRequest.New(message("Invalid Request", msg))
}

func ErrMethodNotFound(msg ...string) *Error {
	return ErrorCodeMethodNotFound.New(message("Method not found", msg))
}

func ErrInvalidParams(msg ...string) *Error {
	return ErrorCodeInvalidParams.New(message("Invalid params", msg))
}

func ErrInternal(msg ...string) *Error {
	return ErrorCodeInternal.New(message("Internal error", msg))
}
