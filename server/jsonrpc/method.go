package jsonrpc

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
)

// LimitOfBatch is the largest batch served.
const LimitOfBatch = 32

// Handler serves one method. An *Error returned is sent as is, any other
// error becomes an internal error.
type Handler func(ctx *Context, params *Params) (result interface{}, err error)

type MethodRepository struct {
	lock    sync.RWMutex
	methods map[string]Handler

	// Debug attaches the detail of internal errors to responses.
	Debug bool
}

func NewMethodRepository() *MethodRepository {
	return &MethodRepository{methods: map[string]Handler{}}
}

func (mr *MethodRepository) RegisterMethod(method string, handler Handler) {
	if method == "" || handler == nil {
		return
	}
	mr.lock.Lock()
	defer mr.lock.Unlock()
	mr.methods[method] = handler
}

func (mr *MethodRepository) GetMethod(method string) Handler {
	mr.lock.RLock()
	defer mr.lock.RUnlock()
	return mr.methods[method]
}

func failure(id interface{}, err *Error) *Response {
	return &Response{Version: Version, ID: id, Error: err}
}

func (mr *MethodRepository) call(ctx *Context, raw json.RawMessage) *Response {
	req := new(Request)
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		return failure(nil, ErrParse(err.Error()))
	}
	if err := ctx.Validate(req); err != nil {
		return failure(req.ID, ErrInvalidRequest(err.Error()))
	}
	handler := mr.GetMethod(req.Method)
	if handler == nil {
		return failure(req.ID, ErrMethodNotFound())
	}

	result, err := handler(ctx, &Params{raw: req.Params, validator: ctx.Echo().Validator})
	if err == nil {
		var bs []byte
		if bs, err = json.Marshal(result); err == nil {
			return &Response{Version: Version, ID: req.ID, Result: bs}
		}
	}
	return failure(req.ID, ErrorCodeInternal.Wrap(err, mr.Debug))
}

func (mr *MethodRepository) callBatch(ctx *Context, raws []json.RawMessage) []*Response {
	rs := make([]*Response, len(raws))
	var wg sync.WaitGroup
	for i := range raws {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rs[i] = mr.call(ctx, raws[i])
		}(i)
	}
	wg.Wait()
	return rs
}

// Handle serves a single request or a batch of them. Batch members are
// served concurrently and answered in order.
func (mr *MethodRepository) Handle(c echo.Context) error {
	ctx := &Context{Context: c}
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, failure(nil, ErrParse(err.Error())))
	}
	raw = bytes.TrimSpace(raw)

	if len(raw) == 0 || raw[0] != '[' {
		resp := mr.call(ctx, raw)
		if resp.Error != nil && resp.Error.Code != ErrorCodeServer {
			return c.JSON(http.StatusBadRequest, resp)
		}
		return c.JSON(http.StatusOK, resp)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(raw, &raws); err != nil || len(raws) == 0 {
		return c.JSON(http.StatusBadRequest, failure(nil, ErrInvalidRequest()))
	}
	if len(raws) > LimitOfBatch {
		return c.JSON(http.StatusServiceUnavailable, failure(nil, ErrInvalidRequest("too many requests")))
	}
	return c.JSON(http.StatusOK, mr.callBatch(ctx, raws))
}
