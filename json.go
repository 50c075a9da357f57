// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kanboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/rpc/v2/json2"
)

const (
	// Version is the JSON-RPC protocol version sent with every request.
	Version = "2.0"

	// RequestID is the id of every request. Each call is a single blocking
	// round trip, so responses never need to be told apart.
	RequestID = 1
)

// Request is the JSON-RPC envelope sent to the server.
type Request struct {
	ID      int    `json:"id"`
	Version string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  Params `json:"params"`
}

// NewRequest builds the envelope for method. A nil params is sent as {}.
func NewRequest(method string, params Params) Request {
	if params == nil {
		params = Params{}
	}
	return Request{ID: RequestID, Version: Version, Method: method, Params: params}
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// AuthHeaderValue returns the value of the credentials header. The default
// header carries HTTP Basic credentials; a custom header gets the bare
// base64 string.
func AuthHeaderValue(header, username, password string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	if header == DefaultAuthHeader {
		return "Basic " + encoded
	}
	return encoded
}

// CleanlyCloseBody drains and closes an HTTP response body to prevent
// HTTP/2 GOAWAY errors caused by closing bodies with unread data.
// See: https://github.com/golang/go/issues/46071
func CleanlyCloseBody(body io.ReadCloser) error {
	if body == nil {
		return nil
	}
	_, _ = io.Copy(io.Discard, body)
	return body.Close()
}

// Execute performs exactly one JSON-RPC call of method, which must already
// be in wire form, and returns the raw result. A missing or null result is
// returned as the JSON literal null. Every failure is a *ClientError.
func (c *Client) Execute(ctx context.Context, method string, params Params) (json.RawMessage, error) {
	body, err := json.Marshal(NewRequest(method, params))
	if err != nil {
		return nil, newClientError(fmt.Errorf("failed to encode params: %w", err))
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, newClientError(err)
	}
	request.Header.Set(c.cfg.AuthHeader, c.authValue)
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, newClientError(err)
	}
	defer CleanlyCloseBody(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ClientError{Message: fmt.Sprintf("HTTP Error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newClientError(err)
	}
	return ParseResponse(data)
}

// ParseResponse extracts the result from a JSON-RPC response body.
func ParseResponse(data []byte) (json.RawMessage, error) {
	if len(data) == 0 {
		return nil, &ClientError{Message: msgEmptyResponse}
	}

	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &ClientError{Message: msgParseFailure + err.Error(), Err: err}
	}

	if len(resp.Error) > 0 && !isNull(resp.Error) {
		rpcErr := &json2.Error{}
		if err := json.Unmarshal(resp.Error, rpcErr); err != nil {
			// Not an object; report the raw value so nothing is lost.
			rpcErr = &json2.Error{Code: json2.E_SERVER, Message: string(resp.Error)}
		}
		if rpcErr.Message == "" {
			rpcErr.Message = fmt.Sprintf("server error %d", rpcErr.Code)
		}
		return nil, &ClientError{Message: rpcErr.Message, Err: rpcErr}
	}

	if len(resp.Result) == 0 {
		return json.RawMessage("null"), nil
	}
	return resp.Result, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
