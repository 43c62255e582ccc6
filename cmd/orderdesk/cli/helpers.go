package cli

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/orderdesk/orderdesk/internal/store"
)

// dataDir holds the --data-dir persistent flag value (set on root command).
var dataDir string

// resolveDataDir returns the data directory from the --data-dir flag,
// ORDERDESK_DATA_DIR env var, or ~/.orderdesk as fallback.
func resolveDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	if envDir := os.Getenv("ORDERDESK_DATA_DIR"); envDir != "" {
		return envDir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".orderdesk")
}

func storeDriver() string {
	driver := viper.GetString("store.driver")
	if driver == "" {
		driver = "sqlite"
	}
	return driver
}

func authMode() string {
	mode := viper.GetString("auth.mode")
	if mode == "" {
		mode = "bearer"
	}
	return mode
}

// openStore opens the configured database, defaulting to a SQLite file
// under the data directory.
func openStore() (*store.Store, error) {
	return store.Open(store.Config{
		Driver:  storeDriver(),
		DSN:     viper.GetString("store.dsn"),
		DataDir: resolveDataDir(),
	})
}

// cmd_ctx returns a background context for CLI operations.
func cmd_ctx() context.Context {
	return context.Background()
}

// --- PID file management ---

func pidFilePath() string {
	return filepath.Join(resolveDataDir(), "orderdesk.pid")
}

func writePID(pid int) error {
	dir := resolveDataDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(pidFilePath(), []byte(strconv.Itoa(pid)), 0644)
}

func readPID() (int, error) {
	data, err := os.ReadFile(pidFilePath())
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePID() {
	os.Remove(pidFilePath())
}

// versionString returns a display version string.
func versionString() string {
	if appVersion == "" || appVersion == "dev" {
		return "dev"
	}
	if strings.HasPrefix(appVersion, "v") {
		return appVersion
	}
	return "v" + appVersion
}
