package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per count invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_uuid TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    input_path TEXT NOT NULL,
    content_hash TEXT,
    size_bytes INTEGER NOT NULL,
    segment_count INTEGER NOT NULL,
    worker_count INTEGER NOT NULL DEFAULT 0,
    intermediate_dir TEXT,
    language TEXT,

    -- Filled in when the run finishes
    status TEXT NOT NULL DEFAULT 'running',  -- running, success, failed
    error_message TEXT,
    total_words INTEGER DEFAULT 0,
    distinct_words INTEGER DEFAULT 0,
    duration_ms INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_hash ON runs(content_hash);

-- Run segments: planned byte ranges and their local counts
CREATE TABLE IF NOT EXISTS run_segments (
    segment_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    segment_index INTEGER NOT NULL,
    start_offset INTEGER NOT NULL,
    end_offset INTEGER NOT NULL,
    word_count INTEGER DEFAULT 0,
    distinct_count INTEGER DEFAULT 0,
    artifact_path TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, segment_index)
);

CREATE INDEX IF NOT EXISTS idx_run_segments_run ON run_segments(run_id);

-- Run keywords: top of the ranked output
CREATE TABLE IF NOT EXISTS run_keywords (
    keyword_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    word_rank INTEGER NOT NULL,
    word TEXT NOT NULL,
    occurrences INTEGER NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, word_rank)
);

CREATE INDEX IF NOT EXISTS idx_run_keywords_run ON run_keywords(run_id);
CREATE INDEX IF NOT EXISTS idx_run_keywords_word ON run_keywords(word);
`
