package runstore

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    created_at INTEGER NOT NULL,
    label TEXT NOT NULL DEFAULT '',

    elements INTEGER NOT NULL,
    group_count INTEGER NOT NULL,
    features INTEGER NOT NULL,
    diseases INTEGER NOT NULL,
    max_elements INTEGER NOT NULL,
    max_iterations INTEGER NOT NULL,
    delta REAL NOT NULL,
    seed INTEGER NOT NULL,
    workers INTEGER NOT NULL,

    iterations INTEGER NOT NULL,
    state TEXT NOT NULL,

    assignment BLOB,
    assignment_bits INTEGER NOT NULL,
    assignment_width INTEGER NOT NULL,
    ecc BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS run_groups (
    run_id TEXT NOT NULL,
    group_id INTEGER NOT NULL,
    size INTEGER NOT NULL,
    compactness REAL NOT NULL,
    centroid TEXT NOT NULL,
    PRIMARY KEY (run_id, group_id),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS run_diseases (
    run_id TEXT NOT NULL,
    disease_id INTEGER NOT NULL,
    max_median REAL,
    max_group INTEGER,
    min_median REAL,
    min_group INTEGER,
    PRIMARY KEY (run_id, disease_id),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`
