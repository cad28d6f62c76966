// Package client is the HTTP transport of the task API.
//
// # Overview
//
// Client describes the seven calls of the API contract: Login, Register,
// CurrentUser, ListTasks, CreateTask, UpdateTask and DeleteTask. HTTPClient
// implements it over net/http with JSON bodies. Authenticated calls receive
// the bearer token as an argument and send it as "Authorization: Bearer".
// Every request carries a fresh X-Request-ID.
//
// # Error Handling
//
// Non-2xx answers become *HTTPError, which unwraps to a sentinel:
//
//	401, 403        ErrUnauthorized (CurrentUser also maps 422)
//	404             ErrNotFound
//	502, 503, 504   ErrUnavailable
//	anything else   ErrRequestFailed
//
// Network failures wrap ErrUnavailable. Callers match with errors.Is and
// should not surface status codes to the user.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations honour ctx.
package client
