// Package cli provides the interactive task client.
//
// It wires configuration, the persisted session, the API transport, the
// session store and the task engine behind a line-oriented REPL with two
// screens:
//   - sign-in: register, login
//   - dashboard (guarded): list, create, edit, complete and delete tasks
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
