package types

import (
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want error
	}{
		{"valid", Config{Backend: BackendSQLite, Workspace: "strata.db"}, nil},
		{"empty backend", Config{Workspace: "strata.db"}, ErrBackendEmpty},
		{"unknown backend", Config{Backend: "oracle", Workspace: "strata.db"}, ErrBackendUnknown},
		{"empty workspace", Config{Backend: BackendSQLite}, ErrWorkspaceEmpty},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.cfg.Validate()
			if !errors.Is(err, c.want) {
				t.Errorf("Validate() = %v, want %v", err, c.want)
			}
		})
	}
}
