package types

// Config holds backend selection and workspace location for opening a store.
type Config struct {
	Backend   string `json:"backend" yaml:"backend"`
	Workspace string `json:"workspace" yaml:"workspace"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
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
	if c.Workspace == "" {
		return ErrWorkspaceEmpty
	}
	return nil
}
