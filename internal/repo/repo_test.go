package repo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skagerrak-boats/slipway/internal/audit"
	"github.com/skagerrak-boats/slipway/internal/filekv"
	"github.com/skagerrak-boats/slipway/pkg/types"
)

var tester = audit.Actor{UserID: "u-test", UserName: "Test User"}

// newFixture attaches a file backend in a temp dir and wires a ledger
// over it.
func newFixture(t *testing.T) (types.Store, *audit.Ledger) {
	t.Helper()
	b := filekv.NewBackend()
	cfg := types.Config{Backend: types.BackendFile, DataDir: t.TempDir()}
	require.NoError(t, b.Attach(cfg))
	t.Cleanup(func() { b.Detach() })
	return b, audit.NewLedger(b)
}

// lastAuditAction returns the action of the newest ledger entry for an
// entity, or "" when none exists.
func lastAuditAction(t *testing.T, ledger *audit.Ledger, entityType, entityID string) string {
	t.Helper()
	entries, err := ledger.ByEntity(entityType, entityID)
	require.NoError(t, err)
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Action
}
