// Package services holds the client's stateful core: the session store,
// which owns the access token and the signed-in user, and the task engine,
// which keeps the local task list in step with the server and drives the
// create/edit form.
//
// Both are plain objects built once at start-up and handed to the
// presentation layer; nothing here is package-level state. Methods are safe
// for concurrent use.
package services
