// Package journal keeps a local history of channel changes.
//
// The dashboard hands every authoritative change (one status response that
// differs from the previous one) to Journal.Record, which stores one event per
// changed attribute:
//
//   - activated / muted: the channel went live or was muted
//   - renamed / recolored: detail holds "from" and "to"
//   - added / removed: the channel appeared in or vanished from the list
//
// Storage is SQLite (modernc.org/sqlite, no cgo) in WAL mode; the schema is
// created on Open. List returns newest events first.
package journal
