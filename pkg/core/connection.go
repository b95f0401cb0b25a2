package core

import "time"

// EngineType identifies the database backend a connection targets.
type EngineType string

// Known engine types. Only Postgres, MySQL, and SQLite have executing
// adapter implementations; the rest are declared for dialect metadata and
// forward compatibility.
const (
	EnginePostgres   EngineType = "postgresql"
	EngineMySQL      EngineType = "mysql"
	EngineSQLite     EngineType = "sqlite"
	EngineMSSQL      EngineType = "mssql"
	EngineOracle     EngineType = "oracle"
	EngineSnowflake  EngineType = "snowflake"
	EngineRedshift   EngineType = "redshift"
	EngineBigQuery   EngineType = "bigquery"
	EngineMariaDB    EngineType = "mariadb"
	EngineMongoDB    EngineType = "mongodb"
	EngineClickHouse EngineType = "clickhouse"
)

// KnownEngines lists every declared engine type.
func KnownEngines() []EngineType {
	return []EngineType{
		EnginePostgres, EngineMySQL, EngineSQLite,
		EngineMSSQL, EngineOracle, EngineSnowflake,
		EngineRedshift, EngineBigQuery, EngineMariaDB,
		EngineMongoDB, EngineClickHouse,
	}
}

// FileBased reports whether the engine is addressed by a filesystem path
// rather than host/port credentials.
func (e EngineType) FileBased() bool {
	return e == EngineSQLite
}

func (e EngineType) String() string { return string(e) }

// MetaKeyDemo marks a persisted connection as the managed read-only
// demonstration connection.
const MetaKeyDemo = "demo"

// ConnectionConfig is the persisted record for one database connection.
// Host-based fields and Path are mutually exclusive: file engines (SQLite)
// use Path, everything else uses Host/Port/Database credentials.
type ConnectionConfig struct {
	ID       string     `yaml:"id"`
	Name     string     `yaml:"name"`
	Type     EngineType `yaml:"type"`
	Host     string     `yaml:"host,omitempty"`
	Port     int        `yaml:"port,omitempty"`
	Database string     `yaml:"database,omitempty"`
	Username string     `yaml:"username,omitempty"`
	Password string     `yaml:"password,omitempty"`
	Path     string     `yaml:"path,omitempty"`
	SSL      bool       `yaml:"ssl,omitempty"`

	// IsDefault is true on at most one record in the persisted collection.
	IsDefault bool `yaml:"is_default,omitempty"`

	Metadata map[string]any `yaml:"metadata,omitempty"`

	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// IsDemo reports whether the record's metadata carries the demo marker.
func (c *ConnectionConfig) IsDemo() bool {
	if c.Metadata == nil {
		return false
	}
	v, ok := c.Metadata[MetaKeyDemo]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// Clone returns a deep copy of the record. Stores hand out clones so callers
// cannot mutate persisted state through shared maps.
func (c *ConnectionConfig) Clone() ConnectionConfig {
	out := *c
	if c.Metadata != nil {
		out.Metadata = make(map[string]any, len(c.Metadata))
		for k, v := range c.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
