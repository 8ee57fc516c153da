// Package jsonrpc holds the JSON-RPC 2.0 envelope and the ledger method
// set spoken between the wallet and a node. The server side is an echo
// handler dispatching to registered methods.
package jsonrpc

import (
	"encoding/json"
	"reflect"

	"github.com/labstack/echo/v4"
)

const Version = "2.0"

type Request struct {
	Version string          `json:"jsonrpc" validate:"required,version"`
	Method  string          `json:"method" validate:"required"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id" validate:"optional,id"`
}

type Response struct {
	Version string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      interface{}     `json:"id,omitempty"`
}

// Context is the echo context of the HTTP request carrying the call.
type Context struct {
	echo.Context
}

// Params is the undecoded params member of a request.
type Params struct {
	raw       json.RawMessage
	validator echo.Validator
}

func (p *Params) IsEmpty() bool {
	return len(p.raw) == 0 || string(p.raw) == "null"
}

// Convert decodes the params into the struct pointed by v and validates
// it. Failures are reported as invalid params.
func (p *Params) Convert(v interface{}) error {
	if p.IsEmpty() {
		return ErrInvalidParams("params are missing")
	}
	if rv := reflect.ValueOf(v); rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrInternal("params target must be a non-nil pointer")
	}
	if err := json.Unmarshal(p.raw, v); err != nil {
		return ErrInvalidParams(err.Error())
	}
	if p.validator != nil {
		if err := p.validator.Validate(v); err != nil {
			return ErrInvalidParams(err.Error())
		}
	}
	return nil
}
