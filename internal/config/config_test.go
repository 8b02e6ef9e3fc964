package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, dir string, cfg Config) string {
	t.Helper()
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestReadMissingFileFallsBackToDefault(t *testing.T) {
	os.Unsetenv("OCP_ENV")
	os.Unsetenv("CONFIG_PATH")

	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(wd)

	cfg, err := Read()
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected Default() when no file present, got %+v", cfg)
	}
}

func TestReadLocal(t *testing.T) {
	os.Unsetenv("OCP_ENV")
	os.Unsetenv("CONFIG_PATH")

	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(wd)

	want := Config{BindAddr: "0.0.0.0:9090", LogDir: "/var/log/convexcore", WorkerPoolSize: 16, DefaultTreeSteps: 250, DefaultLMMaxIterations: 50, DefaultLMTolerance: 1e-8}
	writeTempConfig(t, dir, want)

	got, err := Read()
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestReadKubernetesPath(t *testing.T) {
	dir := t.TempDir()
	want := Config{BindAddr: "0.0.0.0:8080", LogDir: "/logs", WorkerPoolSize: 8, DefaultTreeSteps: 100, DefaultLMMaxIterations: 100, DefaultLMTolerance: 1e-6}
	writeTempConfig(t, dir, want)

	os.Setenv("OCP_ENV", "true")
	os.Setenv("CONFIG_PATH", dir+string(os.PathSeparator))
	defer func() {
		os.Unsetenv("OCP_ENV")
		os.Unsetenv("CONFIG_PATH")
	}()

	got, err := Read()
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
