// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kanboard

import (
	"errors"

	"github.com/gorilla/rpc/v2/json2"
)

// Fixed client error messages.
const (
	msgEmptyResponse = "empty response from server"
	msgParseFailure  = "failed to parse JSON response: "
)

// ClientError is the only error returned by a call. Message is what the
// caller sees; Err, when set, is the transport failure, the JSON syntax
// error or the server's *json2.Error.
type ClientError struct {
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

func newClientError(err error) *ClientError {
	return &ClientError{Message: err.Error(), Err: err}
}

// ServerError returns the JSON-RPC error object carried by err, if any.
func ServerError(err error) (*json2.Error, bool) {
	var rpcErr *json2.Error
	if errors.As(err, &rpcErr) {
		return rpcErr, true
	}
	return nil, false
}
