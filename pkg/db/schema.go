package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per pipeline invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    mode TEXT NOT NULL,              -- unigram, dimensional
    source_count INTEGER DEFAULT 0,
    document_count INTEGER DEFAULT 0,
    skipped_count INTEGER DEFAULT 0, -- failed or filtered documents
    total_words INTEGER DEFAULT 0,
    distinct_words INTEGER DEFAULT 0,
    malformed_records INTEGER DEFAULT 0,
    output_path TEXT,

    -- Top keywords as JSON array: ["word:count", ...]
    top_keywords TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

-- Documents: every source a run looked at
CREATE TABLE IF NOT EXISTS documents (
    document_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    source TEXT NOT NULL,
    title TEXT,
    language TEXT,
    status TEXT NOT NULL,            -- mapped, cached, skipped, failed
    error_message TEXT,
    lines INTEGER DEFAULT 0,
    emitted INTEGER DEFAULT 0,
    final_state TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_documents_run ON documents(run_id);

-- Word counts: reducer output per run (year is 0 in unigram mode)
CREATE TABLE IF NOT EXISTS word_counts (
    run_id INTEGER NOT NULL,
    word TEXT NOT NULL,
    year INTEGER NOT NULL DEFAULT 0,
    count INTEGER NOT NULL,
    PRIMARY KEY (run_id, word, year),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_word_counts_word ON word_counts(word);
`
