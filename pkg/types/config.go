package types

import "errors"

// Config holds backend selection and parameters for Store.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Lookups selects the referential lookup collaborator used during
	// record validation. Empty means the store answers its own lookups.
	Lookups   string `json:"lookups,omitempty" yaml:"lookups,omitempty"`
	RedisAddr string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Supported lookup collaborator names.
const (
	LookupsSQLite = "sqlite"
	LookupsRedis  = "redis"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrLookupsUnknown = errors.New("unknown lookups")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// knownLookups lists the lookup collaborators that Validate accepts.
// Empty is valid and means the store default.
var knownLookups = map[string]bool{
	"":            true,
	LookupsSQLite: true,
	LookupsRedis:  true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if !knownLookups[c.Lookups] {
		return ErrLookupsUnknown
	}
	return nil
}
