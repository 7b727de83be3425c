// Package storage persists the bot's access lists.
//
// Each list (admins, blacklist, blacklisted_admins) is a set of Telegram user
// ids that is always read whole and written whole. Drivers:
//   - file:   one JSON array per list (<dir>/<list>.json)
//   - sqlite: list_members table in a single database file
//   - badger: one key per list in an embedded badger database
//   - memory: process-local, for tests and dry runs
package storage
