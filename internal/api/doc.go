// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

/*
Package api exposes the roulette engine and the restaurant catalog over HTTP.

Routes are registered on a chi router (see Router.Handler). Every JSON body
carries a "success" flag; failures use models.ErrorResponse:

	{"success": false, "error": "Restaurant not found"}

Endpoints:

	GET    /api/randomize               spin (registered user, 429 on cooldown, 404 on empty pool)
	GET    /api/randomize/stats         weighted pool preview
	GET    /api/history                 recent spins, newest first
	POST   /api/history/{entryID}/went  confirm the group went (idempotent)
	GET    /api/user/check              identity bound to the cookie
	POST   /api/user/register           set the identity cookie
	GET    /api/user/{username}/stats   restaurants added and removed
	GET    /api/restaurants             active restaurants, filterable
	POST   /api/restaurants             add a restaurant
	GET    /api/restaurants/{id}        one restaurant, active or not
	PUT    /api/restaurants/{id}        partial update
	DELETE /api/restaurants/{id}        soft delete
	GET    /api/categories              built-in and custom categories
	POST   /api/categories              add a custom category
	GET    /api/distances               distance buckets
	POST   /api/backup                  snapshot the catalog
	GET    /api/backups                 list snapshots
	POST   /api/restore                 restore a snapshot
	GET    /api/places/search           place text search
	GET    /api/places/{placeID}        place details with travel time
	GET    /api/ws                      live spin feed (websocket)
	GET    /health                      liveness with storage ping
	GET    /metrics                     Prometheus exposition

Mutating endpoints and spins require a registered user and answer 401
otherwise. Error mapping from domain errors to status codes lives in
respondErr.
*/
package api
