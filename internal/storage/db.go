package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection and provides methods for storage operations.
type DB struct {
	conn *sql.DB
}

// NewDB opens/creates a SQLite database at the given path and initializes schema.
// Pass ":memory:" for an in-memory database (useful for tests).
func NewDB(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// initSchema creates the necessary tables if they don't exist.
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS commands (
		id TEXT PRIMARY KEY,
		cmd_text TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		workdir TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		last_used INTEGER,
		use_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_commands_created ON commands(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_commands_text ON commands(cmd_text);
	CREATE INDEX IF NOT EXISTS idx_commands_category ON commands(category);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// InsertCommand inserts a new command record into the database.
// A fresh id is assigned when the command does not carry one.
func (db *DB) InsertCommand(ctx context.Context, cmd *Command) error {
	if cmd.ID == "" {
		cmd.ID = uuid.New().String()
	}
	if cmd.CreatedAt.IsZero() {
		cmd.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO commands (id, cmd_text, description, workdir, status, category, tags, created_at, use_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
	`

	_, err := db.conn.ExecContext(ctx, query,
		cmd.ID,
		cmd.Command,
		cmd.Description,
		cmd.Workdir,
		cmd.Status,
		cmd.Category,
		joinTags(cmd.Tags),
		cmd.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert command: %w", err)
	}
	return nil
}

// GetCommand retrieves a single command by id. Returns nil when not found.
func (db *DB) GetCommand(ctx context.Context, id string) (*Command, error) {
	query := `
		SELECT id, cmd_text, description, workdir, status, category, tags, created_at, last_used, use_count
		FROM commands
		WHERE id = ?
	`

	rows, err := db.conn.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query command: %w", err)
	}
	defer rows.Close()

	commands, err := db.scanCommands(rows)
	if err != nil {
		return nil, err
	}
	if len(commands) == 0 {
		return nil, nil
	}
	return commands[0], nil
}

// DeleteCommand removes a command by id. Reports whether a row was deleted.
func (db *DB) DeleteCommand(ctx context.Context, id string) (bool, error) {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM commands WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete command: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// SearchCommands returns commands matching the given options, newest first.
// An empty query matches everything; tag filtering happens in Go because
// tags are stored comma-joined.
func (db *DB) SearchCommands(ctx context.Context, opts QueryOptions) ([]*Command, error) {
	var conditions []string
	var args []any

	if opts.Query != "" {
		conditions = append(conditions, "(cmd_text LIKE ? OR description LIKE ?)")
		pattern := "%" + opts.Query + "%"
		args = append(args, pattern, pattern)
	}
	if opts.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, opts.Status)
	}
	if opts.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, opts.Category)
	}

	query := `
		SELECT id, cmd_text, description, workdir, status, category, tags, created_at, last_used, use_count
		FROM commands
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search commands: %w", err)
	}
	defer rows.Close()

	commands, err := db.scanCommands(rows)
	if err != nil {
		return nil, err
	}

	if len(opts.Tags) > 0 {
		commands = filterByTags(commands, opts.Tags)
	}
	if opts.Limit > 0 && len(commands) > opts.Limit {
		commands = commands[:opts.Limit]
	}
	return commands, nil
}

// GetRecentCommands retrieves the N most recently stored commands.
func (db *DB) GetRecentCommands(ctx context.Context, limit int) ([]*Command, error) {
	return db.SearchCommands(ctx, QueryOptions{Limit: limit})
}

// TouchCommand marks a command as recalled: bumps use_count and last_used.
func (db *DB) TouchCommand(ctx context.Context, id string) error {
	query := `UPDATE commands SET use_count = use_count + 1, last_used = ? WHERE id = ?`

	_, err := db.conn.ExecContext(ctx, query, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to touch command: %w", err)
	}
	return nil
}

// GetAllTags returns the distinct tags across all stored commands, sorted.
func (db *DB) GetAllTags(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT tags FROM commands WHERE tags != ''`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	for rows.Next() {
		var joined string
		if err := rows.Scan(&joined); err != nil {
			return nil, fmt.Errorf("failed to scan tags row: %w", err)
		}
		for _, tag := range splitTags(joined) {
			seen[tag] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag rows: %w", err)
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

// GetAllCategories returns the distinct non-empty categories, sorted.
func (db *DB) GetAllCategories(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT DISTINCT category FROM commands WHERE category != '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

// scanCommands is a helper that scans rows into Command structs.
func (db *DB) scanCommands(rows *sql.Rows) ([]*Command, error) {
	var commands []*Command

	for rows.Next() {
		var cmd Command
		var joined string
		var createdUnix int64
		var lastUsed sql.NullInt64

		err := rows.Scan(
			&cmd.ID,
			&cmd.Command,
			&cmd.Description,
			&cmd.Workdir,
			&cmd.Status,
			&cmd.Category,
			&joined,
			&createdUnix,
			&lastUsed,
			&cmd.UseCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan command row: %w", err)
		}

		cmd.Tags = splitTags(joined)
		cmd.CreatedAt = time.Unix(createdUnix, 0)
		if lastUsed.Valid {
			t := time.Unix(lastUsed.Int64, 0)
			cmd.LastUsed = &t
		}

		commands = append(commands, &cmd)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating command rows: %w", err)
	}

	return commands, nil
}

// filterByTags keeps commands carrying every requested tag.
func filterByTags(commands []*Command, tags []string) []*Command {
	var kept []*Command
	for _, cmd := range commands {
		have := make(map[string]struct{}, len(cmd.Tags))
		for _, tag := range cmd.Tags {
			have[tag] = struct{}{}
		}
		matches := true
		for _, tag := range tags {
			if _, ok := have[tag]; !ok {
				matches = false
				break
			}
		}
		if matches {
			kept = append(kept, cmd)
		}
	}
	return kept
}

func joinTags(tags []string) string {
	var cleaned []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return strings.Join(cleaned, ",")
}

func splitTags(joined string) []string {
	if joined == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(joined, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
