package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/RSM610/Web-Reaper/internal/config"
)

// newTestCrawlCmd parses args without running the crawl.
func newTestCrawlCmd(t *testing.T, args []string) (*config.Config, error) {
	t.Helper()

	var cfg *config.Config
	cmd := NewCrawlCmd()
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = buildConfig(cmd, args)
		return err
	}
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func TestBuildConfigDefaults(t *testing.T) {
	cfg, err := newTestCrawlCmd(t, []string{"example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.SeedURLs) != 1 || cfg.SeedURLs[0] != "example.com" {
		t.Errorf("expected seed from args, got %v", cfg.SeedURLs)
	}
	if cfg.CrawlDelay != config.DefaultCrawlDelay {
		t.Errorf("expected default delay, got %v", cfg.CrawlDelay)
	}
	if cfg.MaxWorkers != config.DefaultMaxWorkers {
		t.Errorf("expected default workers, got %d", cfg.MaxWorkers)
	}
	if !cfg.SaveToDB {
		t.Error("expected database saving on by default")
	}
	if cfg.DBDir == "" {
		t.Error("expected a default database directory")
	}
}

func TestBuildConfigSeedHostnames(t *testing.T) {
	cfg, err := newTestCrawlCmd(t, []string{
		"http://example.com",
		"https://example.org/about",
		"example.net/",
		" example.me ",
		"",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"example.com", "example.org", "example.net", "example.me"}
	if len(cfg.SeedURLs) != len(want) {
		t.Fatalf("expected seeds %v, got %v", want, cfg.SeedURLs)
	}
	for i := range want {
		if cfg.SeedURLs[i] != want[i] {
			t.Errorf("seed %d: expected %q, got %q", i, want[i], cfg.SeedURLs[i])
		}
	}
}

func TestBuildConfigFlagOverrides(t *testing.T) {
	cfg, err := newTestCrawlCmd(t, []string{
		"--delay", "250ms",
		"--workers", "3",
		"--depth", "2",
		"--pages", "-1",
		"--sites-limit", "7",
		"--port", "8080",
		"--markdown",
		"--no-db",
		"example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.CrawlDelay != 250*time.Millisecond {
		t.Errorf("expected delay 250ms, got %v", cfg.CrawlDelay)
	}
	if cfg.MaxWorkers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.MaxWorkers)
	}
	if cfg.DepthLimit != 2 {
		t.Errorf("expected depth 2, got %d", cfg.DepthLimit)
	}
	if cfg.PagesLimit != config.UnlimitedPages {
		t.Errorf("expected unlimited pages, got %d", cfg.PagesLimit)
	}
	if cfg.LinkedSitesLimit != 7 {
		t.Errorf("expected sites limit 7, got %d", cfg.LinkedSitesLimit)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if !cfg.MarkdownReport {
		t.Error("expected markdown report enabled")
	}
	if cfg.SaveToDB {
		t.Error("expected --no-db to disable database saving")
	}
}

func TestBuildConfigFilePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".webreaper")
	content := `crawlDelay: 100
maxWorkers: 2
port: 8081
seedUrls:
  - filed.com
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Run("file values apply", func(t *testing.T) {
		cfg, err := newTestCrawlCmd(t, []string{"-c", path})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.CrawlDelay != 100*time.Millisecond {
			t.Errorf("expected file delay 100ms, got %v", cfg.CrawlDelay)
		}
		if cfg.MaxWorkers != 2 {
			t.Errorf("expected file workers 2, got %d", cfg.MaxWorkers)
		}
		if len(cfg.SeedURLs) != 1 || cfg.SeedURLs[0] != "filed.com" {
			t.Errorf("expected file seeds, got %v", cfg.SeedURLs)
		}
	})

	t.Run("explicit flags beat the file", func(t *testing.T) {
		cfg, err := newTestCrawlCmd(t, []string{"-c", path, "--workers", "5", "cli.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.MaxWorkers != 5 {
			t.Errorf("expected flag workers 5, got %d", cfg.MaxWorkers)
		}
		// Values not overridden by flags keep the file's setting.
		if cfg.Port != 8081 {
			t.Errorf("expected file port 8081, got %d", cfg.Port)
		}
		if len(cfg.SeedURLs) != 1 || cfg.SeedURLs[0] != "cli.com" {
			t.Errorf("expected CLI seeds to win, got %v", cfg.SeedURLs)
		}
	})

	t.Run("missing explicit file errors", func(t *testing.T) {
		_, err := newTestCrawlCmd(t, []string{"-c", filepath.Join(t.TempDir(), "nope"), "example.com"})
		if err == nil {
			t.Fatal("expected an error for a missing explicit config file")
		}
	})
}
