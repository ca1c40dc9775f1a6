package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:                    "localhost",
			Port:                    3306,
			User:                    "catalog_graphql",
			Database:                "catalog",
			Pool:                    PoolConfig{MaxOpen: 25, MaxIdle: 5, MaxLifetime: 5 * time.Minute},
			ConnectionTimeout:       60 * time.Second,
			ConnectionRetryInterval: 2 * time.Second,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Observability: ObservabilityConfig{
			ServiceName: "catalog-graphql",
			Logging:     LoggingConfig{Level: "info", Format: "json"},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		result := validConfig().Validate()
		assert.False(t, result.HasErrors(), result.Error())
	})

	t.Run("database port out of range", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Port = 0
		result := cfg.Validate()
		require.True(t, result.HasErrors())
		assert.Contains(t, result.Error(), "database.port")
	})

	t.Run("dsn makes discrete port optional", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Port = 0
		cfg.Database.ConnectionString = "user:pass@tcp(db:3306)/catalog"
		result := cfg.Validate()
		assert.False(t, result.HasErrors(), result.Error())
	})

	t.Run("dsn database mismatch", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.ConnectionString = "user:pass@tcp(db:3306)/other"
		result := cfg.Validate()
		require.True(t, result.HasErrors())
		assert.Contains(t, result.Error(), "mismatch")
	})

	t.Run("missing database name", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Database = ""
		result := cfg.Validate()
		require.True(t, result.HasErrors())
		assert.Contains(t, result.Error(), "database.database")
	})

	t.Run("retry interval required with timeout", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.ConnectionRetryInterval = 0
		result := cfg.Validate()
		require.True(t, result.HasErrors())
		assert.Contains(t, result.Error(), "connection_retry_interval")
	})

	t.Run("CORS without origins", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.CORSEnabled = true
		result := cfg.Validate()
		require.True(t, result.HasErrors())
		assert.Contains(t, result.Error(), "cors_allowed_origins")
	})

	t.Run("CORS wildcard with credentials", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.CORSEnabled = true
		cfg.Server.CORSAllowedOrigins = []string{"*"}
		cfg.Server.CORSAllowCredentials = true
		result := cfg.Validate()
		require.True(t, result.HasErrors())
		assert.Contains(t, result.Error(), "wildcard")
	})

	t.Run("invalid log level", func(t *testing.T) {
		cfg := validConfig()
		cfg.Observability.Logging.Level = "verbose"
		result := cfg.Validate()
		require.True(t, result.HasErrors())
		assert.Contains(t, result.Error(), "observability.logging.level")
	})

	t.Run("invalid OTLP compression", func(t *testing.T) {
		cfg := validConfig()
		cfg.Observability.OTLP.Compression = "zstd"
		result := cfg.Validate()
		require.True(t, result.HasErrors())
		assert.Contains(t, result.Error(), "compression")
	})

	t.Run("pool warning when idle exceeds open", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Pool.MaxIdle = 50
		result := cfg.Validate()
		assert.False(t, result.HasErrors())
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, "database.pool.max_idle", result.Warnings[0].Field)
	})
}

func TestDSN(t *testing.T) {
	t.Run("discrete fields", func(t *testing.T) {
		d := DatabaseConfig{
			Host:     "db.internal",
			Port:     3306,
			User:     "svc",
			Password: "secret",
			Database: "catalog",
		}
		assert.Equal(t, "svc:secret@tcp(db.internal:3306)/catalog?parseTime=true&loc=UTC", d.DSN())
	})

	t.Run("connection string normalized", func(t *testing.T) {
		d := DatabaseConfig{ConnectionString: "svc:secret@tcp(db:3306)/catalog"}
		assert.Equal(t, "svc:secret@tcp(db:3306)/catalog?parseTime=true&loc=UTC", d.DSN())
	})

	t.Run("connection string keeps existing params", func(t *testing.T) {
		d := DatabaseConfig{ConnectionString: "svc:secret@tcp(db:3306)/catalog?parseTime=true&loc=UTC"}
		assert.Equal(t, "svc:secret@tcp(db:3306)/catalog?parseTime=true&loc=UTC", d.DSN())
	})

	t.Run("tls mode appended", func(t *testing.T) {
		d := DatabaseConfig{
			Host:     "db",
			Port:     3306,
			User:     "svc",
			Database: "catalog",
			TLSMode:  "skip-verify",
		}
		assert.Contains(t, d.DSN(), "&tls=skip-verify")
	})
}

func TestEffectiveDatabaseName(t *testing.T) {
	t.Run("from discrete field", func(t *testing.T) {
		d := DatabaseConfig{Database: "catalog"}
		name, source, err := d.EffectiveDatabaseName()
		require.NoError(t, err)
		assert.Equal(t, "catalog", name)
		assert.Equal(t, "database.database", source)
	})

	t.Run("from dsn", func(t *testing.T) {
		d := DatabaseConfig{ConnectionString: "svc:secret@tcp(db:3306)/catalog"}
		name, source, err := d.EffectiveDatabaseName()
		require.NoError(t, err)
		assert.Equal(t, "catalog", name)
		assert.Equal(t, "dsn", source)
	})

	t.Run("invalid dsn", func(t *testing.T) {
		d := DatabaseConfig{ConnectionString: "://not-a-dsn"}
		_, _, err := d.EffectiveDatabaseName()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.dsn is invalid")
	})
}

func TestGetLogsConfig(t *testing.T) {
	base := OTLPConfig{Endpoint: "collector:4318", Timeout: 10 * time.Second, Compression: "gzip"}

	t.Run("no override returns global", func(t *testing.T) {
		o := ObservabilityConfig{OTLP: base}
		assert.Equal(t, base, o.GetLogsConfig())
	})

	t.Run("override merges over global", func(t *testing.T) {
		o := ObservabilityConfig{
			OTLP: base,
			Logs: &OTLPConfig{Endpoint: "logs-collector:4318", Insecure: true},
		}
		merged := o.GetLogsConfig()
		assert.Equal(t, "logs-collector:4318", merged.Endpoint)
		assert.True(t, merged.Insecure)
		assert.Equal(t, 10*time.Second, merged.Timeout)
		assert.Equal(t, "gzip", merged.Compression)
	})
}
