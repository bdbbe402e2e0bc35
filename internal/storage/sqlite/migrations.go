package sqlite

// schema contains the database schema DDL.
const schema = `
-- Panels
CREATE TABLE IF NOT EXISTS panels (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    theme TEXT,
    options TEXT NOT NULL,
    field TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Devices
CREATE TABLE IF NOT EXISTS devices (
    id TEXT PRIMARY KEY,
    ip TEXT NOT NULL,
    name TEXT,
    type TEXT DEFAULT 'pixoo64',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    last_seen DATETIME
);

-- Panel readings
CREATE TABLE IF NOT EXISTS readings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    panel_id TEXT NOT NULL,
    timestamp DATETIME NOT NULL,
    value REAL NOT NULL,
    UNIQUE(panel_id, timestamp)
);
CREATE INDEX IF NOT EXISTS idx_readings_panel_time ON readings(panel_id, timestamp);

-- Configuration
CREATE TABLE IF NOT EXISTS config (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Render cache
CREATE TABLE IF NOT EXISTS render_cache (
    key TEXT NOT NULL,
    format TEXT NOT NULL,
    panel_id TEXT NOT NULL,
    data BLOB NOT NULL,
    generated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (key, format)
);
CREATE INDEX IF NOT EXISTS idx_render_cache_panel ON render_cache(panel_id);
`
