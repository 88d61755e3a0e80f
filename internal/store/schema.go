package store

// schemaDDL creates every table and index the engine reads from.
// The external loader fills transactions; PRECOMP fills the aggregate
// tables and metadata. Open applies this DDL (idempotently) whenever
// the store is opened ReadWrite; the serving process opens it
// ReadOnly and never applies it.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS transactions (
  id                   INTEGER PRIMARY KEY,
  salesperson_name     TEXT NOT NULL DEFAULT '',
  salesperson_reg_num  TEXT NOT NULL DEFAULT '',
  transaction_date     TEXT NOT NULL DEFAULT '-',
  property_type        TEXT NOT NULL DEFAULT '',
  transaction_type     TEXT NOT NULL DEFAULT '',
  represented          TEXT NOT NULL DEFAULT '',
  town                 TEXT NOT NULL DEFAULT '-',
  district             TEXT NOT NULL DEFAULT '-',
  general_location     TEXT NOT NULL DEFAULT '-'
);

CREATE TABLE IF NOT EXISTS metadata (key TEXT PRIMARY KEY, value TEXT NOT NULL);

CREATE TABLE IF NOT EXISTS top_agents (
  reg_num            TEXT PRIMARY KEY,
  name               TEXT NOT NULL,
  total_transactions INTEGER NOT NULL,
  last_transaction   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_top_agents_total ON top_agents(total_transactions DESC);

CREATE TABLE IF NOT EXISTS monthly_stats (
  period           TEXT NOT NULL,
  property_type    TEXT NOT NULL,
  transaction_type TEXT NOT NULL,
  count            INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_monthly_stats_period ON monthly_stats(period);

CREATE TABLE IF NOT EXISTS monthly_stats_by_dim (
  dim_column TEXT NOT NULL,
  period     TEXT NOT NULL,
  dim_value  TEXT NOT NULL,
  count      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_monthly_stats_by_dim ON monthly_stats_by_dim(dim_column, period);

CREATE TABLE IF NOT EXISTS property_type_stats (property_type TEXT PRIMARY KEY, count INTEGER NOT NULL, percentage REAL NOT NULL);
CREATE TABLE IF NOT EXISTS transaction_type_stats (transaction_type TEXT PRIMARY KEY, count INTEGER NOT NULL, percentage REAL NOT NULL);
CREATE TABLE IF NOT EXISTS town_stats (town TEXT PRIMARY KEY, count INTEGER NOT NULL, percentage REAL NOT NULL);

CREATE INDEX IF NOT EXISTS idx_tx_date ON transactions(transaction_date);
CREATE INDEX IF NOT EXISTS idx_tx_property_type ON transactions(property_type);
CREATE INDEX IF NOT EXISTS idx_tx_transaction_type ON transactions(transaction_type);
CREATE INDEX IF NOT EXISTS idx_tx_reg_num ON transactions(salesperson_reg_num);
CREATE INDEX IF NOT EXISTS idx_tx_town ON transactions(town);
CREATE INDEX IF NOT EXISTS idx_tx_district ON transactions(district);
CREATE INDEX IF NOT EXISTS idx_tx_represented ON transactions(represented);
CREATE INDEX IF NOT EXISTS idx_tx_agent_rollup ON transactions(salesperson_reg_num, property_type, transaction_type, represented, town);
CREATE INDEX IF NOT EXISTS idx_tx_timeseries ON transactions(transaction_date, property_type, transaction_type);
`

// MetadataKeys lists the metadata keys the engine reports. PRECOMP
// writes every one of them except source_timestamp, which it keeps
// only when the loader already recorded one.
var MetadataKeys = []string{
	"row_count",
	"column_count",
	"source_timestamp",
	"schema_version",
	"precomputed_at",
}
