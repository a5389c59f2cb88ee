// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

/*
Package supervisor runs the server's long-lived goroutines under a suture
supervisor tree.

The tree has three layers so a crash in one does not take the others down:

	dinnerroulette
	├── storage-layer   backup scheduler
	├── realtime-layer  websocket hub
	└── api-layer       HTTP server

Each service implements suture.Service (Serve(ctx) error) and fmt.Stringer.
Services that return an error are restarted with suture's backoff; returning
suture.ErrDoNotRestart stops a service for good.

Supervisor events are logged through sutureslog, which writes to the
zerolog logger via logging.NewSlogLogger.
*/
package supervisor
