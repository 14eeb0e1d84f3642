// ABOUTME: SQLite database schema for saved reviews
// ABOUTME: One row per video review plus its ordered association rows
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Saved reviews, one per video
CREATE TABLE IF NOT EXISTS reviews (
    video_id TEXT PRIMARY KEY,
    review_id TEXT NOT NULL UNIQUE,
    decisions TEXT NOT NULL,
    notes TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

-- Association rows in form order
CREATE TABLE IF NOT EXISTS review_rows (
    video_id TEXT NOT NULL REFERENCES reviews(video_id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    row_id TEXT NOT NULL,
    topic_id TEXT,
    sub_topic_id TEXT,
    correction TEXT,
    PRIMARY KEY (video_id, position)
);

CREATE INDEX IF NOT EXISTS idx_reviews_updated ON reviews(updated_at);
CREATE INDEX IF NOT EXISTS idx_review_rows_topic ON review_rows(topic_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
