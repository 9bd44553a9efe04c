// Package cli provides the interactive SermonMate command-line client.
//
// It wires configuration, the local cache, the API client and the services,
// then runs a REPL that stands in for the mobile app's screens: sign in,
// browse and edit saved sermons, keep drafts, buy credits, switch theme and
// file coaching sessions.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// ctx is cancelled. See runREPL for the command surface.
package cli
