package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lucaspiller/exprscript/internal/exprstore"
	"github.com/lucaspiller/exprscript/internal/exprstore/inmem"
	"github.com/lucaspiller/exprscript/internal/exprstore/sqlite"
)

// DBType is the type of a Database connection.
type DBType string

func (dbt DBType) String() string {
	return string(dbt)
}

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

const (
	MaxSecretSize = 64
	MinSecretSize = 32
)

// ParseDBType parses a string found in a config file into a DBType.
func ParseDBType(s string) (DBType, error) {
	sLower := strings.ToLower(s)

	switch sLower {
	case DatabaseSQLite.String():
		return DatabaseSQLite, nil
	case DatabaseInMemory.String():
		return DatabaseInMemory, nil
	default:
		return DatabaseNone, fmt.Errorf("DB type not one of 'sqlite' or 'inmem': %q", s)
	}
}

// Database contains configuration settings for connecting to a persistence
// layer.
type Database struct {
	// Type is the type of database the config refers to. It also determines
	// which of its other fields are valid.
	Type DBType `toml:"type"`

	// File is the path on disk to the sqlite DB file. Only applicable for
	// DatabaseSQLite.
	File string `toml:"file"`
}

// Connect performs all logic needed to connect to the configured DB and
// initialize the store for use.
func (db Database) Connect() (exprstore.Store, error) {
	switch db.Type {
	case DatabaseInMemory:
		return inmem.NewDatastore(), nil
	case DatabaseSQLite:
		if dir := dirOf(db.File); dir != "" {
			if err := os.MkdirAll(dir, 0770); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}

		store, err := sqlite.NewDatastore(db.File)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite: %w", err)
		}

		return store, nil
	case DatabaseNone:
		return nil, fmt.Errorf("cannot connect to 'none' DB")
	default:
		return nil, fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

func dirOf(file string) string {
	for i := len(file) - 1; i >= 0; i-- {
		if file[i] == '/' {
			return file[:i]
		}
	}
	return ""
}

// Validate returns an error if the Database does not have the correct fields
// set.
func (db Database) Validate() error {
	switch db.Type {
	case DatabaseInMemory:
		return nil
	case DatabaseSQLite:
		if db.File == "" {
			return fmt.Errorf("file not set to path")
		}
		return nil
	case DatabaseNone:
		return fmt.Errorf("'none' DB is not valid")
	default:
		return fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// Config is a configuration for a Server, loaded from a TOML file.
type Config struct {
	// Addr is the host:port to listen on.
	Addr string `toml:"addr"`

	// TokenSecret is the secret used for signing bearer tokens. If not
	// provided, a default key is used.
	TokenSecret string `toml:"token_secret"`

	// APIKeyHash is the bcrypt hash of the single API key accepted by
	// POST /tokens to mint bearer tokens.
	APIKeyHash string `toml:"api_key_hash"`

	// DB is the configuration to use for connecting to the database. If not
	// provided, it defaults to an in-memory persistence layer.
	DB Database `toml:"db"`

	// UnauthDelayMillis is the amount of additional time to wait (in
	// milliseconds) before responding to an unauthenticated or unauthorized
	// request. Set to a negative number to disable.
	UnauthDelayMillis int `toml:"unauth_delay_millis"`
}

// LoadConfig reads and parses a Config from a TOML file at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// UnauthDelay returns the configured delay as a time.Duration.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		var dur time.Duration
		return dur
	}
	return time.Millisecond * time.Duration(cfg.UnauthDelayMillis)
}

// FillDefaults returns a new Config identical to cfg but with unset values
// set to their defaults.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	if newCFG.Addr == "" {
		newCFG.Addr = ":8080"
	}
	if newCFG.TokenSecret == "" {
		newCFG.TokenSecret = "DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!"
	}
	if newCFG.DB.Type == DatabaseNone {
		newCFG.DB = Database{Type: DatabaseInMemory}
	}
	if newCFG.UnauthDelayMillis == 0 {
		newCFG.UnauthDelayMillis = 1000
	}

	return newCFG
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be
// used, call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	if len(cfg.TokenSecret) < MinSecretSize {
		return fmt.Errorf("token secret: must be at least %d bytes, but is %d", MinSecretSize, len(cfg.TokenSecret))
	}
	if len(cfg.TokenSecret) > MaxSecretSize {
		return fmt.Errorf("token secret: must be no more than %d bytes, but is %d", MaxSecretSize, len(cfg.TokenSecret))
	}
	if cfg.APIKeyHash == "" {
		return fmt.Errorf("api_key_hash: must be set to a bcrypt hash of the accepted API key")
	}
	if err := checkBcryptCost(cfg.APIKeyHash); err != nil {
		return fmt.Errorf("api_key_hash: %w", err)
	}
	if err := cfg.DB.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}

	return nil
}
