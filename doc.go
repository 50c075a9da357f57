// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package kanboard is a JSON-RPC 2.0 client for the Kanboard API.
//
// The client has no fixed method table. Any method the server exposes is
// called by its snake_case name and named parameters; the name is turned
// into the camelCase wire name and sent in a single HTTPS POST.
//
// # Usage
//
//	client, err := kanboard.New("https://kanboard.example.com/jsonrpc.php",
//	    "jsonrpc", apiToken)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Dynamic call, sent as {"method":"createProject","params":{"name":"My project"}}
//	projectID, err := client.Call(ctx, "create_project", kanboard.Params{"name": "My project"})
//
//	// Typed binding for the same method
//	id, err := client.CreateProject(ctx, kanboard.ProjectParams{Name: "My project"})
//
// # Asynchronous calls
//
// A name ending in "_async" runs on the client's Executor instead of the
// calling goroutine. Invoke returns a Future for either kind of name:
//
//	f := client.Invoke(ctx, "get_all_projects_async", nil)
//	// ... other work ...
//	projects, err := f.Await(ctx)
//
// Both paths send identical requests and fail with identical errors. An
// asynchronous call is never cancelled once submitted.
//
// # Authentication and TLS
//
// Credentials are sent as HTTP Basic in the Authorization header. With
// WithAuthHeader the base64 credentials are sent bare in the named header
// instead. WithCAFile, WithInsecure and WithIgnoreHostnameVerification
// control certificate checking; see TLSConfig.
//
// # Errors
//
// Every failure is a *ClientError whose message is the transport error,
// "empty response from server", a JSON parse failure, or the message of the
// server's JSON-RPC error. ServerError extracts the JSON-RPC error code.
//
// # Architecture
//
//   - names.go: method-name resolution (async marker, camelCase wire name)
//   - json.go: the request executor, the only code touching the network
//   - tls.go: TLS policy built from Config
//   - async.go: Executor, WorkerPool and Future
//   - methods.go: typed bindings for common API methods
package kanboard
