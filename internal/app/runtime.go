package app

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// TestModeEnv switches binaries into test mode: cmd/stubapi exits early
// and consoles keep tokens in memory.
const TestModeEnv = "MARKETOPS_TEST_MODE"

var (
	testModeFlag atomic.Bool
	testModeOnce sync.Once
)

func detectTestMode() {
	on, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(TestModeEnv)))
	testModeFlag.Store(err == nil && on)
}

// InTestMode reports whether runtime side effects should be skipped.
func InTestMode() bool {
	testModeOnce.Do(detectTestMode)
	return testModeFlag.Load()
}

// SetTestMode forces the flag regardless of the environment and exports
// it so child processes inherit it.
func SetTestMode(on bool) {
	testModeOnce.Do(func() {})
	testModeFlag.Store(on)
	_ = os.Setenv(TestModeEnv, strconv.FormatBool(on))
}

// RefreshTestMode re-reads the environment.
func RefreshTestMode() {
	testModeOnce.Do(func() {})
	detectTestMode()
}
