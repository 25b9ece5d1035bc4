// Package leaderboard stores and ranks finished game scores per difficulty.
//
// Two Board implementations are provided: SQLiteBoard keeps each player's best
// score per difficulty in a local database, and DreamloBoard talks to the public
// dreamlo service, optionally through a CORS proxy. Players are identified by
// PlayerKey, the display name lowercased with whitespace removed. Listings are
// ordered by score, highest first, and capped at TopN.
package leaderboard
