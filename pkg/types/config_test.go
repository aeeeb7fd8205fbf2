package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:   "valid sqlite config",
			config: Config{Backend: BackendSQLite, DataDir: "/tmp/data"},
		},
		{
			name:   "valid file config",
			config: Config{Backend: BackendFile, DataDir: "/tmp/data"},
		},
		{
			name:    "empty backend",
			config:  Config{DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "empty data dir",
			config:  Config{Backend: BackendSQLite},
			wantErr: ErrDataDirEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConflictError(t *testing.T) {
	err := &ConflictError{
		Namespace:       NamespaceClients,
		ID:              "abc",
		StoredVersion:   3,
		IncomingVersion: 2,
	}

	assert.ErrorIs(t, err, ErrConflict, "ConflictError matches the sentinel via errors.Is")
	assert.Contains(t, err.Error(), "abc")
	assert.Contains(t, err.Error(), "clients")
}
