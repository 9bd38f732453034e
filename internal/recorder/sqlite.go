package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db    *sql.DB
	runID string
	mu    sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs
// migrations. Every row gets stamped with the run ID.
func NewSQLiteRecorder(dbPath, runID string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for concurrent reads while the agent writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, runID: runID}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_transitions (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			run_id     TEXT,
			from_state TEXT,
			to_state   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transitions_ts ON state_transitions(timestamp)`,

		`CREATE TABLE IF NOT EXISTS contract_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			run_id      TEXT,
			event_type  TEXT,
			contract_id TEXT,
			payment     INTEGER,
			profit      INTEGER,
			units       INTEGER,
			note        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_contract_ts ON contract_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS ship_purchases (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			run_id         TEXT,
			ship_symbol    TEXT,
			ship_type      TEXT,
			waypoint       TEXT,
			price          INTEGER,
			cargo_capacity INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_ts ON ship_purchases(timestamp)`,

		`CREATE TABLE IF NOT EXISTS performance_snapshots (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp           INTEGER NOT NULL,
			run_id              TEXT,
			contracts_completed INTEGER,
			contracts_failed    INTEGER,
			credits_earned      INTEGER,
			errors              INTEGER,
			credits             INTEGER,
			fleet_size          INTEGER,
			cargo_capacity      INTEGER,
			avg_completion_secs REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_performance_ts ON performance_snapshots(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTransition(evt *StateTransition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO state_transitions
		(timestamp, run_id, from_state, to_state)
		VALUES (?,?,?,?)`,
		time.Now().Unix(), r.runID, evt.From, evt.To,
	)
	return err
}

func (r *SQLiteRecorder) RecordContractEvent(evt *ContractEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO contract_events
		(timestamp, run_id, event_type, contract_id, payment, profit, units, note)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), r.runID, evt.EventType, evt.ContractID,
		evt.Payment, evt.Profit, evt.Units, evt.Note,
	)
	return err
}

func (r *SQLiteRecorder) RecordShipPurchase(evt *ShipPurchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO ship_purchases
		(timestamp, run_id, ship_symbol, ship_type, waypoint, price, cargo_capacity)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), r.runID, evt.ShipSymbol, evt.ShipType,
		evt.Waypoint, evt.Price, evt.CargoCapacity,
	)
	return err
}

func (r *SQLiteRecorder) RecordPerformance(snap *PerformanceSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO performance_snapshots
		(timestamp, run_id, contracts_completed, contracts_failed, credits_earned,
		 errors, credits, fleet_size, cargo_capacity, avg_completion_secs)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), r.runID, snap.ContractsCompleted, snap.ContractsFailed,
		snap.CreditsEarned, snap.Errors, snap.Credits, snap.FleetSize,
		snap.CargoCapacity, snap.AvgCompletionSecs,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
