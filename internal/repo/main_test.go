package repo_test

import (
	"os"
	"testing"

	"github.com/pkordes/tourgraph/testutil"
)

// TestMain migrates the test database once for the whole package. Without
// TEST_DATABASE_URL the tests still run and each one skips itself.
func TestMain(m *testing.M) {
	if dsn := os.Getenv(testutil.EnvDSN); dsn != "" {
		testutil.MustMigrate(dsn)
	}
	os.Exit(m.Run())
}
