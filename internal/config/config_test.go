package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Tiliavir/trivial-journal/internal/config"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	t.Setenv("EDITOR", "nano")
	path := filepath.Join(t.TempDir(), "tj", "config.toml")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config not written: %v", err)
	}
	if strings.HasPrefix(cfg.Root, "~") || !strings.HasSuffix(cfg.Root, filepath.Join(".tj", "journals")) {
		t.Errorf("Root = %q, want expanded ~/.tj/journals", cfg.Root)
	}
	if cfg.PageSize != config.DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", cfg.PageSize, config.DefaultPageSize)
	}
	if cfg.Editor != "nano" {
		t.Errorf("Editor = %q, want $EDITOR", cfg.Editor)
	}
	if cfg.Backup.Prefix != "tj" {
		t.Errorf("Backup.Prefix = %q, want tj", cfg.Backup.Prefix)
	}
}

func TestLoadReadsFileAndEnv(t *testing.T) {
	t.Setenv("EDITOR", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `root = "/srv/journals"
journal = "Work"
page_size = 5

[backup]
bucket = "from-file"
region = "eu-central-1"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TJ_BACKUP_BUCKET", "from-env")
	t.Setenv("TJ_PAGE_SIZE", "7")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root != "/srv/journals" || cfg.Journal != "Work" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.PageSize != 7 {
		t.Errorf("PageSize = %d, want env override 7", cfg.PageSize)
	}
	if cfg.Backup.Bucket != "from-env" || cfg.Backup.Region != "eu-central-1" {
		t.Errorf("Backup = %+v", cfg.Backup)
	}
	if cfg.Editor != config.DefaultEditor {
		t.Errorf("Editor = %q, want %q", cfg.Editor, config.DefaultEditor)
	}
}

func TestReadDoesNotCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := config.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Read created %s (stat err = %v)", path, err)
	}
	if cfg.PageSize != config.DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", cfg.PageSize, config.DefaultPageSize)
	}
	if err := config.Init(path, config.Default(), false); err != nil {
		t.Errorf("Init after Read: %v", err)
	}
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("root = [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Error("Load of malformed file: err = nil, want error")
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.Init(path, config.Default(), false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := config.Init(path, config.Default(), false); err == nil {
		t.Error("second Init without force: err = nil, want error")
	}
	cfg := config.Default()
	cfg.Journal = "Home"
	if err := config.Init(path, cfg, true); err != nil {
		t.Fatalf("Init with force: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `journal = "Home"`) {
		t.Errorf("config file:\n%s", data)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := config.Write(&buf, config.Default()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, want := range []string{`root = "~/.tj/journals"`, "page_size = 20", "[backup]"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Write output missing %q:\n%s", want, buf.String())
		}
	}
}
