// Package storage provides SQLite-based persistence for finished episodes.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-lander/internal/session"
)

// Store manages the SQLite database connection for episode persistence.
type Store struct {
	db *sql.DB
}

// EpisodeRecord is one stored episode.
type EpisodeRecord struct {
	ID         int64
	Controller string
	Seed       int64
	Outcome    string
	PadContact bool
	Truncated  bool
	Steps      int
	Reward     float64
	FuelLeft   float64
	FinalVX    float64
	FinalVY    float64
	FinalAngle float64
	Criteria   int // Number of landing predicates that held at the end
	CreatedAt  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	// Parallel evaluations write from several goroutines.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			controller TEXT NOT NULL,
			seed INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			pad_contact INTEGER NOT NULL DEFAULT 0,
			truncated INTEGER NOT NULL DEFAULT 0,
			steps INTEGER NOT NULL,
			reward REAL NOT NULL,
			fuel_left REAL NOT NULL,
			final_vx REAL NOT NULL,
			final_vy REAL NOT NULL,
			final_angle REAL NOT NULL,
			criteria INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_episodes_controller ON episodes(controller);
		CREATE INDEX IF NOT EXISTS idx_episodes_seed ON episodes(seed);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveEpisode records a finished episode and returns its ID.
func (s *Store) SaveEpisode(ctx context.Context, r EpisodeRecord) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO episodes
		 (controller, seed, outcome, pad_contact, truncated, steps, reward, fuel_left,
		  final_vx, final_vy, final_angle, criteria)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Controller, r.Seed, r.Outcome, r.PadContact, r.Truncated, r.Steps, r.Reward, r.FuelLeft,
		r.FinalVX, r.FinalVY, r.FinalAngle, r.Criteria,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save episode: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// Record implements session.Sink.
func (s *Store) Record(ctx context.Context, info session.EpisodeInfo) error {
	_, err := s.SaveEpisode(ctx, RecordFromInfo(info))
	return err
}

// Ensure Store implements session.Sink
var _ session.Sink = (*Store)(nil)

// RecordFromInfo flattens an episode summary into a storable record.
func RecordFromInfo(info session.EpisodeInfo) EpisodeRecord {
	return EpisodeRecord{
		Controller: info.Controller,
		Seed:       info.Seed,
		Outcome:    info.Outcome.String(),
		PadContact: info.PadContact,
		Truncated:  info.Truncated,
		Steps:      info.Steps,
		Reward:     info.Reward.Total(),
		FuelLeft:   info.FuelLeft,
		FinalVX:    info.VX.Final,
		FinalVY:    info.VY.Final,
		FinalAngle: info.Angle.Final,
		Criteria:   info.Criteria.Count(),
	}
}

// RecentEpisodes returns the most recent episodes of a controller, newest first.
// An empty controller matches all.
func (s *Store) RecentEpisodes(controller string, limit int) ([]EpisodeRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, controller, seed, outcome, pad_contact, truncated, steps, reward, fuel_left,
		        final_vx, final_vy, final_angle, criteria, created_at
		 FROM episodes
		 WHERE ? = '' OR controller = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		controller, controller, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var records []EpisodeRecord
	for rows.Next() {
		var r EpisodeRecord
		var createdAt any
		if err := rows.Scan(
			&r.ID, &r.Controller, &r.Seed, &r.Outcome, &r.PadContact, &r.Truncated, &r.Steps,
			&r.Reward, &r.FuelLeft, &r.FinalVX, &r.FinalVY, &r.FinalAngle, &r.Criteria, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// ClearEpisodes deletes all episodes of the given controller.
func (s *Store) ClearEpisodes(controller string) error {
	_, err := s.db.Exec("DELETE FROM episodes WHERE controller = ?", controller)
	if err != nil {
		return fmt.Errorf("storage: cannot clear episodes: %w", err)
	}
	return nil
}

// ControllerStats contains aggregated outcomes for a controller.
type ControllerStats struct {
	Controller  string
	Episodes    int
	Landed      int
	Collided    int
	Escaped     int
	Unfinished  int
	PadContacts int
	BestReward  float64
	AvgReward   float64
	AvgSteps    float64
	LastPlayed  time.Time
}

// LandingRate returns landed / episodes.
func (c ControllerStats) LandingRate() float64 {
	if c.Episodes == 0 {
		return 0
	}
	return float64(c.Landed) / float64(c.Episodes)
}

// SuccessRate counts pad touchdowns as successes alongside landings.
func (c ControllerStats) SuccessRate() float64 {
	if c.Episodes == 0 {
		return 0
	}
	return float64(c.Landed+c.PadContacts) / float64(c.Episodes)
}

const statsColumns = `controller,
	COUNT(*),
	COALESCE(SUM(outcome = 'landed'), 0),
	COALESCE(SUM(outcome = 'collided'), 0),
	COALESCE(SUM(outcome = 'escaped'), 0),
	COALESCE(SUM(outcome = 'in_flight'), 0),
	COALESCE(SUM(pad_contact), 0),
	COALESCE(MAX(reward), 0),
	COALESCE(AVG(reward), 0),
	COALESCE(AVG(steps), 0),
	MAX(created_at)`

func scanStats(sc interface{ Scan(...any) error }) (ControllerStats, error) {
	var c ControllerStats
	var lastPlayed any
	err := sc.Scan(&c.Controller, &c.Episodes, &c.Landed, &c.Collided, &c.Escaped, &c.Unfinished,
		&c.PadContacts, &c.BestReward, &c.AvgReward, &c.AvgSteps, &lastPlayed)
	c.LastPlayed = parseTime(lastPlayed)
	return c, err
}

// GetControllerStats retrieves aggregated statistics for one controller.
// A controller without episodes yields zero stats.
func (s *Store) GetControllerStats(controller string) (*ControllerStats, error) {
	row := s.db.QueryRow(
		`SELECT `+statsColumns+` FROM episodes WHERE controller = ? GROUP BY controller`,
		controller,
	)
	stats, err := scanStats(row)
	if errors.Is(err, sql.ErrNoRows) {
		return &ControllerStats{Controller: controller}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get controller stats: %w", err)
	}
	return &stats, nil
}

// GetAllControllerStats retrieves statistics for every controller with stored episodes.
func (s *Store) GetAllControllerStats() (map[string]*ControllerStats, error) {
	rows, err := s.db.Query(`SELECT ` + statsColumns + ` FROM episodes GROUP BY controller`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all controller stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ControllerStats)
	for rows.Next() {
		c, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		stats[c.Controller] = &c
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
