package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Runs: one row per invocation of the tracker
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    run_date TEXT NOT NULL,       -- calendar date in the reference timezone
    status TEXT NOT NULL DEFAULT 'running', -- running, ok, failed
    names_seen INTEGER DEFAULT 0,
    bootstrapped BOOLEAN DEFAULT 0,
    digest_posted BOOLEAN DEFAULT 0,
    new_members INTEGER DEFAULT 0,
    error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

-- Source results: per ranking page outcome within a run
CREATE TABLE IF NOT EXISTS source_results (
    result_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    source TEXT NOT NULL,
    url TEXT NOT NULL,
    success BOOLEAN NOT NULL,
    records INTEGER DEFAULT 0,
    members INTEGER DEFAULT 0,
    error_message TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_source_results_run ON source_results(run_id);

-- Level-ups: every event included in a posted digest
CREATE TABLE IF NOT EXISTS level_ups (
    level_up_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    digest_date TEXT NOT NULL,
    name TEXT NOT NULL,
    old_level INTEGER NOT NULL,
    new_level INTEGER NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_level_ups_name ON level_ups(name COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_level_ups_date ON level_ups(digest_date DESC);
`
