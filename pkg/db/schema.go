package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Analyses table: one row per keyword analysis, heavy payloads as JSON
CREATE TABLE IF NOT EXISTS analyses (
    id TEXT PRIMARY KEY,
    keyword TEXT NOT NULL,
    url TEXT,
    quick_score INTEGER DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'pending',
    serp_results TEXT,              -- JSON array of SERP result rows
    content_analysis TEXT,          -- JSON corpus snapshot
    keyword_analysis TEXT,          -- JSON keyword metrics + similarity
    content_hash TEXT,              -- hash of the corpus the payload came from
    last_analysis_at TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_analyses_keyword ON analyses(keyword);
CREATE INDEX IF NOT EXISTS idx_analyses_status ON analyses(status);
CREATE INDEX IF NOT EXISTS idx_analyses_updated ON analyses(updated_at);
`
