package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/mindtype/internal/types"
)

// execute runs the root command in-process with fresh flag values and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// isolateEnv clears every variable the config layer reads.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "CATALOG_SOURCE", "CATALOG_PATH", "DATABASE_URL", "LOG_MODE", "LOG_LEVEL",
		"DEMO_SELECTIONS", "RESULT_CACHE_SIZE", "PERSIST_RESULTS", "ADMIN_JWT_SECRET", "JWT_EXPIRATION_HOURS",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

// writeCatalog writes tables as a JSON seed file and returns its path.
func writeCatalog(t *testing.T, tables *types.CatalogTables) string {
	t.Helper()
	data, err := json.Marshal(tables)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
