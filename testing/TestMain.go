// Package testing prepares the environment for tests that drive the CLI
// end to end: test mode on, quiet logs and an in-memory token store.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"

	"github.com/marketops/console/internal/app"
)

var once sync.Once

var cliDefaults = map[string]string{
	"STUB_JWT_SECRET": "test-secret-0123456789",
	"TOKEN_STORE":     app.TokenStoreMemory,
	"LOG_LEVEL":       "error",
	"LOG_FORMAT":      "json",
}

func ensureTestMode() {
	once.Do(func() {
		app.SetTestMode(true)
		for key, value := range cliDefaults {
			if os.Getenv(key) == "" {
				_ = os.Setenv(key, value)
			}
		}
	})
}

func init() {
	ensureTestMode()
}

// TestMain runs m with the test environment in place.
func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
