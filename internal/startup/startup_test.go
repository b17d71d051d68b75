package startup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDerivedPaths(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("DATA_DIR", dataDir)
	t.Setenv("PORT", "18080")
	t.Setenv("METRICS_PORT", "19090")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Port != "18080" {
		t.Errorf("Port = %q, want %q", config.Port, "18080")
	}
	if config.MetricsPort != "19090" {
		t.Errorf("MetricsPort = %q, want %q", config.MetricsPort, "19090")
	}
	if config.DatabasePath != filepath.Join(dataDir, "videos.db") {
		t.Errorf("DatabasePath = %q, want under %q", config.DatabasePath, dataDir)
	}
	if config.LogPath != filepath.Join(dataDir, "scan.log") {
		t.Errorf("LogPath = %q, want under %q", config.LogPath, dataDir)
	}

	// Export directory must be created during load
	info, err := os.Stat(config.ExportDir)
	if err != nil {
		t.Fatalf("export directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("export path %q is not a directory", config.ExportDir)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("METRICS_PORT", "")
	t.Setenv("METRICS_ENABLED", "")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Port != "8080" {
		t.Errorf("default Port = %q, want 8080", config.Port)
	}
	if config.MetricsPort != "9090" {
		t.Errorf("default MetricsPort = %q, want 9090", config.MetricsPort)
	}
	if !config.MetricsEnabled {
		t.Error("metrics should default to enabled")
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback bool
		want     bool
	}{
		{"true", "true", false, true},
		{"one", "1", false, true},
		{"false", "false", true, false},
		{"empty uses default", "", true, true},
		{"garbage uses default", "banana", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STARTUP_TEST_BOOL", tt.value)
			if got := getEnvBool("STARTUP_TEST_BOOL", tt.fallback); got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.value, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestGetRouteGroup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"/api/videos", "api/videos"},
		{"/api/scan/status", "api/scan"},
		{"/video/{id}", "video"},
		{"/healthz", "healthz"},
		{"/", ""},
	}

	for _, tt := range tests {
		if got := getRouteGroup(tt.path); got != tt.want {
			t.Errorf("getRouteGroup(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestEnsureDirectoryRejectsFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ensureDirectory(file, "test"); err == nil {
		t.Error("ensureDirectory on a regular file should fail")
	}
}
