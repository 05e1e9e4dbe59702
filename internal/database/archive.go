package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/datecrawl/internal/model"
)

// FileName is the archive database file inside the archive directory.
const FileName = "datecrawl.db"

// ErrRunNotFound is returned when no run matches the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Archive provides SQLite-based storage for completed runs.
type Archive struct {
	db     *sql.DB
	dbPath string
}

// Options configures Archive behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the archive in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Archive, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("archive not found at %s: %w", dbPath, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check archive path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	a := &Archive{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := a.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return a, nil
}

// Path returns the database file path.
func (a *Archive) Path() string {
	return a.dbPath
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		target TEXT NOT NULL,
		seeds INTEGER NOT NULL,
		failed_seeds INTEGER NOT NULL,
		links INTEGER NOT NULL,
		records INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		output_path TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_target ON runs(target);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS seed_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		page_url TEXT NOT NULL,
		navigation TEXT NOT NULL,
		outcome TEXT NOT NULL,
		steps INTEGER NOT NULL,
		links INTEGER NOT NULL,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_seed_runs_run ON seed_runs(run_id);

	CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		link TEXT NOT NULL,
		date TEXT NOT NULL,
		title TEXT,
		content TEXT,
		saved_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(link, date)
	);

	CREATE INDEX IF NOT EXISTS idx_articles_date ON articles(date);
	`

	_, err := a.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored run.
type RunRecord struct {
	ID          string
	Target      model.Date
	Seeds       int
	FailedSeeds int
	Links       int
	Records     int
	StartedAt   time.Time
	FinishedAt  time.Time
	OutputPath  string
}

// Elapsed returns how long the run took.
func (r RunRecord) Elapsed() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// SeedRecord is a stored per-seed result.
type SeedRecord struct {
	PageURL    string
	Navigation string
	Outcome    string
	Steps      int
	Links      int
	Error      string
}

// SaveRun stores summary and its seed results. Saving the same run twice
// replaces the earlier copy.
func (a *Archive) SaveRun(ctx context.Context, summary *model.RunSummary) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	runID := summary.ID.String()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, target, seeds, failed_seeds, links, records, started_at, finished_at, output_path)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		seeds = excluded.seeds,
		failed_seeds = excluded.failed_seeds,
		links = excluded.links,
		records = excluded.records,
		finished_at = excluded.finished_at,
		output_path = excluded.output_path
	`,
		runID,
		summary.Target.String(),
		summary.Seeds,
		summary.FailedSeeds,
		summary.Links,
		summary.Records,
		formatTimestamp(summary.StartedAt),
		formatTimestamp(summary.FinishedAt),
		summary.OutputPath,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM seed_runs WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to clear seed results: %w", err)
	}

	for _, run := range summary.SeedRuns {
		if run == nil {
			continue
		}
		_, err := tx.ExecContext(ctx, `
		INSERT INTO seed_runs (run_id, page_url, navigation, outcome, steps, links, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			runID,
			run.Seed.PageURL,
			run.Seed.Navigation.String(),
			run.Outcome.String(),
			run.NavigationSteps,
			len(run.Links),
			run.ErrorMessage(),
		)
		if err != nil {
			return fmt.Errorf("failed to save seed result for %s: %w", run.Seed.PageURL, err)
		}
	}

	return tx.Commit()
}

// SaveArticles stores records for runID and returns how many were written.
// An article already archived for the same link and date is updated in place.
func (a *Archive) SaveArticles(ctx context.Context, runID uuid.UUID, records []model.ArticleRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO articles (run_id, link, date, title, content)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(link, date) DO UPDATE SET
		run_id = excluded.run_id,
		title = excluded.title,
		content = excluded.content,
		saved_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare article insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, runID.String(), r.Link, r.Date.String(), r.Title, r.Content); err != nil {
			return 0, fmt.Errorf("failed to save article %s: %w", r.Link, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit articles: %w", err)
	}
	return len(records), nil
}

const runColumns = `id, target, seeds, failed_seeds, links, records, started_at, finished_at, output_path`

// ListRuns returns the most recent runs first. A limit <= 0 returns all runs.
func (a *Archive) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var results []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// GetRun returns the run with the given ID.
func (a *Archive) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	row := a.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// SeedRuns returns the per-seed results stored for runID in input order.
func (a *Archive) SeedRuns(ctx context.Context, runID string) ([]SeedRecord, error) {
	rows, err := a.db.QueryContext(ctx, `
	SELECT page_url, navigation, outcome, steps, links, error
	FROM seed_runs
	WHERE run_id = ?
	ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seed results: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var results []SeedRecord
	for rows.Next() {
		var (
			rec    SeedRecord
			errMsg sql.NullString
		)
		if err := rows.Scan(&rec.PageURL, &rec.Navigation, &rec.Outcome, &rec.Steps, &rec.Links, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan seed result: %w", err)
		}
		rec.Error = errMsg.String
		results = append(results, rec)
	}
	return results, rows.Err()
}

// ArticlesByDate returns the archived articles for date ordered by link.
func (a *Archive) ArticlesByDate(ctx context.Context, date model.Date) ([]model.ArticleRecord, error) {
	rows, err := a.db.QueryContext(ctx, `
	SELECT title, content, link FROM articles
	WHERE date = ?
	ORDER BY link
	`, date.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get articles: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var results []model.ArticleRecord
	for rows.Next() {
		var title, content sql.NullString
		rec := model.ArticleRecord{Date: date}
		if err := rows.Scan(&title, &content, &rec.Link); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		rec.Title = title.String
		rec.Content = content.String
		results = append(results, rec)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var (
		rec                 RunRecord
		target              string
		startedAt, finished string
		outputPath          sql.NullString
	)
	err := row.Scan(
		&rec.ID,
		&target,
		&rec.Seeds,
		&rec.FailedSeeds,
		&rec.Links,
		&rec.Records,
		&startedAt,
		&finished,
		&outputPath,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, err
		}
		return RunRecord{}, fmt.Errorf("failed to scan run: %w", err)
	}

	d, err := model.ParseDate(target)
	if err != nil {
		return RunRecord{}, fmt.Errorf("invalid target date %q in run %s: %w", target, rec.ID, err)
	}
	rec.Target = d
	rec.StartedAt = parseTimestamp(startedAt)
	rec.FinishedAt = parseTimestamp(finished)
	rec.OutputPath = outputPath.String
	return rec, nil
}

// timestampLayout sorts lexically in time order for UTC values.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// timestampFormats lists the layouts stored timestamps may use, most specific first.
var timestampFormats = []string{
	timestampLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp tries each known layout and returns the zero time when none fits.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
