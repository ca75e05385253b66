package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"

	"github.com/chainindex/corert/internal/testutil"
)

func TestLoadConfigDefault(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	defer os.Chdir(wd)
	viper.Reset()

	if err := os.Chdir(".."); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	LoadConfig("")
	if AppConfig.Pipeline.ReorgThreshold != 200 {
		t.Fatalf("unexpected reorg threshold: %d", AppConfig.Pipeline.ReorgThreshold)
	}
	if AppConfig.Pipeline.CommitEvery != 4000 {
		t.Fatalf("unexpected commit_every: %d", AppConfig.Pipeline.CommitEvery)
	}
}

func TestLoadConfigOverride(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	defer os.Chdir(wd)
	viper.Reset()

	if err := os.Chdir(".."); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	LoadConfig("bootstrap")
	if AppConfig.Pipeline.CommitEvery != 100 {
		t.Fatalf("expected commit_every 100, got %d", AppConfig.Pipeline.CommitEvery)
	}
	if AppConfig.Logging.Level != "debug" {
		t.Fatalf("expected logging level override")
	}
}

func TestLoadConfigSandbox(t *testing.T) {
	sb, err := testutil.NewSandbox()
	if err != nil {
		t.Fatalf("NewSandbox failed: %v", err)
	}
	defer sb.Cleanup()

	if err := os.Mkdir(sb.Path("config"), 0700); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	data := []byte("store:\n  db_path: sandbox.db\n  strip_nulls: false\n")
	if err := sb.WriteFile("config/default.yaml", data, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	defer os.Chdir(wd)
	viper.Reset()

	if err := os.Chdir(sb.Root); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	LoadConfig("")

	if AppConfig.Store.DBPath != "sandbox.db" {
		t.Fatalf("expected db_path sandbox.db, got %s", AppConfig.Store.DBPath)
	}
	if AppConfig.Store.StripNulls {
		t.Fatalf("expected strip_nulls false")
	}
}
