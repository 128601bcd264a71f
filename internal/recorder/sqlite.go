package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"FxSentinel/internal/model"
)

// SQLiteRecorder journals trades and decisions to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zap.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so external readers don't block the bot.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id          TEXT PRIMARY KEY,
			opened_at   INTEGER NOT NULL,
			pair        TEXT NOT NULL,
			signal      TEXT NOT NULL,
			session     TEXT NOT NULL,
			entry       REAL,
			stop_loss   REAL,
			take_profit REAL,
			risk_reward REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_opened ON trades(opened_at)`,

		`CREATE TABLE IF NOT EXISTS decisions (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			pair      TEXT NOT NULL,
			provider  TEXT,
			session   TEXT,
			bias      TEXT,
			signal    TEXT,
			entry     REAL,
			pattern   TEXT,
			reason    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_ts ON decisions(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:30], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTrade(t *model.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO trades
		(id, opened_at, pair, signal, session, entry, stop_loss, take_profit, risk_reward)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		t.ID, t.OpenedAt.Unix(), t.Pair, string(t.Signal), string(t.Session),
		t.Entry, t.StopLoss, t.TakeProfit, t.RiskReward,
	)
	return err
}

func (r *SQLiteRecorder) RecordDecision(evt *DecisionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := evt.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO decisions
		(timestamp, pair, provider, session, bias, signal, entry, pattern, reason)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		ts.Unix(), evt.Pair, evt.Provider, string(evt.Session), string(evt.Bias),
		string(evt.Signal), evt.Entry, evt.Pattern, evt.Reason,
	)
	return err
}

// CountTrades returns the number of journalled trades.
func (r *SQLiteRecorder) CountTrades() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM trades`).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
