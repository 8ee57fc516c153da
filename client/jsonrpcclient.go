package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofrs/uuid"

	"github.com/tronwallet/walletgo/common/errors"
	"github.com/tronwallet/walletgo/server/jsonrpc"
)

const DefaultTimeout = 10 * time.Second

type JsonRpcClient struct {
	hc           *http.Client
	Endpoint     string
	CustomHeader map[string]string
}

func NewJsonRpcClient(hc *http.Client, endpoint string) *JsonRpcClient {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &JsonRpcClient{hc: hc, Endpoint: endpoint}
}

func (c *JsonRpcClient) _do(req *http.Request) (*http.Response, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.TimeoutError.Wrapf(err, "request to %s", c.Endpoint)
		}
		return nil, errors.RPCTransportError.Wrapf(err, "request to %s", c.Endpoint)
	}
	return resp, nil
}

// Do sends one request and decodes its result into respPtr. A response
// carrying a JSON-RPC error is returned as RPCServerError wrapping the
// *jsonrpc.Error.
func (c *JsonRpcClient) Do(ctx context.Context, method string, reqPtr, respPtr interface{}) (*jsonrpc.Response, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, errors.CriticalIOError.Wrap(err, "fail to generate request id")
	}
	jrReq := &jsonrpc.Request{
		ID:      id.String(),
		Version: jsonrpc.Version,
		Method:  method,
	}
	if reqPtr != nil {
		b, err := json.Marshal(reqPtr)
		if err != nil {
			return nil, errors.IllegalArgumentError.Wrapf(err, "encode params of %s", method)
		}
		jrReq.Params = b
	}
	reqB, err := json.Marshal(jrReq)
	if err != nil {
		return nil, errors.IllegalArgumentError.Wrapf(err, "encode request %s", method)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(reqB))
	if err != nil {
		return nil, errors.IllegalArgumentError.Wrapf(err, "endpoint %q", c.Endpoint)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range c.CustomHeader {
		req.Header.Set(k, v)
	}

	resp, err := c._do(req)
	if err != nil {
		return nil, err
	}
	jrResp, err := decodeResponseBody(resp, respPtr)
	if err != nil {
		if jrResp != nil && jrResp.Error != nil {
			return jrResp, errors.RPCServerError.Wrapf(jrResp.Error,
				"%s: %s", method, jrResp.Error.Message)
		}
		return jrResp, errors.RPCMalformedResponseError.Wrapf(err,
			"%s http-status(%s)", method, resp.Status)
	}
	return jrResp, nil
}

func decodeResponseBody(resp *http.Response, respPtr interface{}) (*jsonrpc.Response, error) {
	defer resp.Body.Close()
	jrResp := new(jsonrpc.Response)
	if err := json.NewDecoder(resp.Body).Decode(jrResp); err != nil {
		return nil, err
	}
	if jrResp.Error != nil {
		return jrResp, jrResp.Error
	}
	if resp.StatusCode != http.StatusOK {
		return jrResp, errors.Errorf("http-status(%s) is not StatusOK", resp.Status)
	}
	if respPtr != nil {
		if err := json.Unmarshal(jrResp.Result, respPtr); err != nil {
			return jrResp, err
		}
	}
	return jrResp, nil
}

// ServerErrorOf returns the JSON-RPC error carried by err, if any.
func ServerErrorOf(err error) (*jsonrpc.Error, bool) {
	var je *jsonrpc.Error
	if errors.As(err, &je) {
		return je, true
	}
	return nil, false
}
