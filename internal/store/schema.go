package store

// schemaDDL creates every table, virtual table, and index.
// Migrate() runs this on every open; every statement is idempotent.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS repos (
  id          INTEGER PRIMARY KEY,
  root_path   TEXT NOT NULL UNIQUE,
  created_at  TIMESTAMP NOT NULL,
  updated_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS files (
  id               INTEGER PRIMARY KEY,
  repo_id          INTEGER NOT NULL REFERENCES repos(id) ON DELETE CASCADE,
  path             TEXT NOT NULL,
  lang             TEXT NOT NULL,
  sha256           TEXT NOT NULL,
  mtime            TIMESTAMP,
  size_bytes       INTEGER NOT NULL DEFAULT 0,
  last_indexed_at  TIMESTAMP,
  UNIQUE(repo_id, path)
);

CREATE TABLE IF NOT EXISTS symbols (
  id         INTEGER PRIMARY KEY,
  repo_id    INTEGER NOT NULL REFERENCES repos(id) ON DELETE CASCADE,
  file_id    INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  kind       TEXT NOT NULL,
  name       TEXT NOT NULL,
  fq_name    TEXT NOT NULL,
  signature  TEXT,
  start_line INTEGER NOT NULL,
  start_col  INTEGER NOT NULL,
  end_line   INTEGER NOT NULL,
  end_col    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS edges (
  id         INTEGER PRIMARY KEY,
  repo_id    INTEGER NOT NULL REFERENCES repos(id) ON DELETE CASCADE,
  src_type   TEXT NOT NULL,
  src_id     INTEGER NOT NULL,
  rel        TEXT NOT NULL,
  dst_type   TEXT NOT NULL,
  dst_id     INTEGER NOT NULL,
  meta_json  TEXT,
  weight     REAL NOT NULL DEFAULT 1.0,
  created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS modules (
  id            INTEGER PRIMARY KEY,
  repo_id       INTEGER NOT NULL REFERENCES repos(id) ON DELETE CASCADE,
  name          TEXT NOT NULL,
  version       TEXT,
  manifest_path TEXT NOT NULL
);

CREATE VIRTUAL TABLE IF NOT EXISTS search_entries USING fts5(
  repo_id UNINDEXED,
  entity_type UNINDEXED,
  entity_id UNINDEXED,
  text
);

CREATE INDEX IF NOT EXISTS idx_files_repo_path ON files(repo_id, path);
CREATE INDEX IF NOT EXISTS idx_symbols_repo_file ON symbols(repo_id, file_id);
CREATE INDEX IF NOT EXISTS idx_symbols_repo_name ON symbols(repo_id, name);
CREATE INDEX IF NOT EXISTS idx_symbols_repo_fqname ON symbols(repo_id, fq_name);
CREATE INDEX IF NOT EXISTS idx_edges_repo_src ON edges(repo_id, src_type, src_id);
CREATE INDEX IF NOT EXISTS idx_edges_repo_dst ON edges(repo_id, dst_type, dst_id);
CREATE INDEX IF NOT EXISTS idx_edges_repo_rel ON edges(repo_id, rel);
`
