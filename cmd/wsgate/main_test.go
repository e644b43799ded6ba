package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vivars7/wsgate/internal/config"
)

// writeValidConfig writes a minimal loadable config and returns its path.
func writeValidConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "urls.csv")
	if err := os.WriteFile(csvPath, []byte("url\nhttp://h:8080/x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfgPath := filepath.Join(dir, "wsgate.yaml")
	content := "source:\n  file: \"" + csvPath + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

func TestRun_Version(t *testing.T) {
	if code := run([]string{"--version"}); code != 0 {
		t.Errorf("run(--version) = %d, want 0", code)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	if code := run([]string{"frobnicate"}); code != 1 {
		t.Errorf("run(frobnicate) = %d, want 1", code)
	}
}

func TestRun_Help(t *testing.T) {
	if code := run([]string{"help"}); code != 0 {
		t.Errorf("run(help) = %d, want 0", code)
	}
}

func TestCmdValidate(t *testing.T) {
	if code := cmdValidate(writeValidConfig(t)); code != 0 {
		t.Errorf("cmdValidate(valid) = %d, want 0", code)
	}
	if code := cmdValidate(filepath.Join(t.TempDir(), "nope.yaml")); code != 1 {
		t.Errorf("cmdValidate(missing) = %d, want 1", code)
	}
}

func TestCmdInit(t *testing.T) {
	t.Chdir(t.TempDir())

	if code := cmdInit([]string{"--profile", "dev"}); code != 0 {
		t.Fatalf("cmdInit(dev) = %d, want 0", code)
	}
	if _, err := config.Load("wsgate.yaml"); err != nil {
		t.Errorf("generated config does not load: %v", err)
	}

	if code := cmdInit([]string{"--profile", "imaginary"}); code != 1 {
		t.Errorf("cmdInit(imaginary) = %d, want 1", code)
	}
}

// failingStartable covers the factory error path without binding a port.
type failingStartable struct{}

func (f *failingStartable) Start(ctx context.Context) error { return nil }

func TestCmdServe_FactoryError(t *testing.T) {
	factory := func(cfg *config.Config, version string) (startable, error) {
		return nil, errors.New("boom")
	}
	if code := cmdServe(writeValidConfig(t), factory); code != 1 {
		t.Errorf("cmdServe with failing factory = %d, want 1", code)
	}
}

func TestCmdServe_BadConfig(t *testing.T) {
	factory := func(cfg *config.Config, version string) (startable, error) {
		return &failingStartable{}, nil
	}
	if code := cmdServe(filepath.Join(t.TempDir(), "nope.yaml"), factory); code != 1 {
		t.Errorf("cmdServe with missing config = %d, want 1", code)
	}
}
