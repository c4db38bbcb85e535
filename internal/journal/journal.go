// ABOUTME: SQLite-backed journal of channel state changes
// ABOUTME: Diffs consecutive snapshots into events and lists them newest first

package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/2389/xlr-panel/internal/channel"
)

// tsLayout is fixed-width so that text ordering matches time ordering.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Kind is the type of a channel event.
type Kind string

const (
	KindActivated Kind = "activated"
	KindMuted     Kind = "muted"
	KindRenamed   Kind = "renamed"
	KindRecolored Kind = "recolored"
	KindAdded     Kind = "added"
	KindRemoved   Kind = "removed"
)

// Event is one recorded change.
type Event struct {
	ID        string
	ChannelID int
	Kind      Kind
	Detail    map[string]any
	Timestamp time.Time
}

// Filter narrows List results.
type Filter struct {
	Since     *time.Time
	ChannelID *int
	Kind      *Kind
	Limit     int // default 100, max 1000
}

// Journal is the event store.
type Journal struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens or creates the journal database at path.
func Open(path string) (*Journal, error) {
	logger := slog.Default().With("component", "journal")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	j := &Journal{db: db, logger: logger}
	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Debug("journal opened", "path", path)
	return j, nil
}

func (j *Journal) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS channel_events (
			event_id    TEXT PRIMARY KEY,
			channel_id  INTEGER NOT NULL,
			kind        TEXT NOT NULL,
			detail_json TEXT,
			ts          TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_channel_events_ts ON channel_events(ts);
		CREATE INDEX IF NOT EXISTS idx_channel_events_channel ON channel_events(channel_id);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Diff returns the events that turn prev into next.
func Diff(prev, next channel.List) []Event {
	var events []Event

	for _, n := range next {
		i := prev.Index(n.ID)
		if i < 0 {
			events = append(events, Event{ChannelID: n.ID, Kind: KindAdded, Detail: map[string]any{"name": n.Name}})
			continue
		}
		p := prev[i]
		if p.Active != n.Active {
			kind := KindMuted
			if n.Active {
				kind = KindActivated
			}
			events = append(events, Event{ChannelID: n.ID, Kind: kind})
		}
		if p.Name != n.Name {
			events = append(events, Event{ChannelID: n.ID, Kind: KindRenamed, Detail: map[string]any{"from": p.Name, "to": n.Name}})
		}
		if p.Color != n.Color {
			events = append(events, Event{ChannelID: n.ID, Kind: KindRecolored, Detail: map[string]any{"from": p.Color, "to": n.Color}})
		}
	}

	for _, p := range prev {
		if next.Index(p.ID) < 0 {
			events = append(events, Event{ChannelID: p.ID, Kind: KindRemoved, Detail: map[string]any{"name": p.Name}})
		}
	}

	return events
}

// Record stores the events between two snapshots in one transaction.
func (j *Journal) Record(ctx context.Context, prev, next channel.List) error {
	events := Diff(prev, next)
	if len(events) == 0 {
		return nil
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	for i := range events {
		events[i].Timestamp = now
		if err := insertEvent(ctx, tx, &events[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing events: %w", err)
	}

	j.logger.Debug("recorded channel events", "count", len(events))
	return nil
}

// Append stores a single event. ID and Timestamp are generated when unset.
func (j *Journal) Append(ctx context.Context, e *Event) error {
	return insertEvent(ctx, j.db, e)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertEvent(ctx context.Context, db execer, e *Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	var detailJSON *string
	if e.Detail != nil {
		data, err := json.Marshal(e.Detail)
		if err != nil {
			return fmt.Errorf("marshaling event detail: %w", err)
		}
		str := string(data)
		detailJSON = &str
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO channel_events (event_id, channel_id, kind, detail_json, ts) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.ChannelID, string(e.Kind), detailJSON, e.Timestamp.UTC().Format(tsLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

// List returns events matching f, newest first.
func (j *Journal) List(ctx context.Context, f Filter) ([]Event, error) {
	var where []string
	var args []any

	if f.Since != nil {
		where = append(where, "ts >= ?")
		args = append(args, f.Since.UTC().Format(tsLayout))
	}
	if f.ChannelID != nil {
		where = append(where, "channel_id = ?")
		args = append(args, *f.ChannelID)
	}
	if f.Kind != nil {
		where = append(where, "kind = ?")
		args = append(args, string(*f.Kind))
	}

	query := "SELECT event_id, channel_id, kind, detail_json, ts FROM channel_events"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY ts DESC, rowid DESC LIMIT ?"
	args = append(args, normalizeLimit(f.Limit))

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e      Event
			kind   string
			detail sql.NullString
			ts     string
		)
		if err := rows.Scan(&e.ID, &e.ChannelID, &kind, &detail, &ts); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Kind = Kind(kind)
		if detail.Valid {
			if err := json.Unmarshal([]byte(detail.String), &e.Detail); err != nil {
				return nil, fmt.Errorf("parsing event detail: %w", err)
			}
		}
		e.Timestamp, err = time.Parse(tsLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing event time: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
