package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/pipeline"
)

const sample = `
[render]
pixel_width = 32
mode = "2x2"
tolerance = 0
prune_studs = true
formats = ["svg", "png"]

[cache]
redis_url = "redis://localhost:6379/1"
ttl = "72h"
prefix = "brand:"

[server]
addr = "127.0.0.1:9000"
`

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/etc/blockify.toml", []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(fs, "/etc/blockify.toml")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got, want := cfg.Cache.TTL, 72*time.Hour; got != want {
		t.Errorf("Cache.TTL = %v, want %v", got, want)
	}
	if got, want := cfg.Cache.Prefix, "brand:"; got != want {
		t.Errorf("Cache.Prefix = %q, want %q", got, want)
	}
	if got, want := cfg.Server.Addr, "127.0.0.1:9000"; got != want {
		t.Errorf("Server.Addr = %q, want %q", got, want)
	}
	// Untouched keys keep their defaults
	if got, want := cfg.Server.MaxBodyBytes, int64(DefaultMaxBodyBytes); got != want {
		t.Errorf("Server.MaxBodyBytes = %d, want %d", got, want)
	}

	opts := cfg.Options()
	if opts.PixelWidth != 32 {
		t.Errorf("PixelWidth = %d, want 32", opts.PixelWidth)
	}
	if opts.Mode != "2x2" {
		t.Errorf("Mode = %q, want 2x2", opts.Mode)
	}
	if opts.Tolerance != 0 {
		t.Errorf("Tolerance = %d, want explicit 0", opts.Tolerance)
	}
	if !opts.PruneStuds {
		t.Error("PruneStuds should be true")
	}
	if got, want := opts.Formats, []string{"svg", "png"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Formats = %v, want %v", got, want)
	}
	if opts.BlockWidth != 24 {
		t.Errorf("BlockWidth = %d, want default 24", opts.BlockWidth)
	}
}

func TestOptionsDefaults(t *testing.T) {
	cfg := Default()
	got := cfg.Options()
	want := pipeline.DefaultOptions()
	if got.BuildOptions() != want.BuildOptions() {
		t.Errorf("Options() = %+v, want pipeline defaults %+v", got.BuildOptions(), want.BuildOptions())
	}
	if got.Tolerance != 2 {
		t.Errorf("Tolerance = %d, want 2 when unset", got.Tolerance)
	}
}

func TestLoadMissing(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Load(fs, "/nope.toml")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file error = %v, want FILE_NOT_FOUND", err)
	}

	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	cfg, err := Load(fs, "")
	if err != nil {
		t.Errorf("missing default file should not fail: %v", err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	path := filepath.Join("/xdg", AppName, FileName)
	if err := afero.WriteFile(fs, path, []byte("[server]\naddr = \":1234\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(fs, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":1234" {
		t.Errorf("Server.Addr = %q, want :1234", cfg.Server.Addr)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{"syntax", "[render\n", "parse config"},
		{"unknown key", "[render]\ncolour = 1\n", "render.colour"},
		{"bad mode", "[render]\nmode = \"3x3\"\n", "render"},
		{"bad tolerance", "[render]\ntolerance = -1\n", "render"},
		{"negative ttl", "[cache]\nttl = \"-1h\"\n", "cache.ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := Parse([]byte(tt.data), &cfg)
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %v, want INVALID_CONFIG", errors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestDefaultPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/custom/config", AppName, FileName); path != want {
		t.Errorf("DefaultPath() = %q, want %q", path, want)
	}
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := DefaultCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", AppName); dir != want {
		t.Errorf("DefaultCacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "/custom/cache")
	dir, _ = DefaultCacheDir()
	if want := filepath.Join("/custom/cache", AppName); dir != want {
		t.Errorf("DefaultCacheDir() = %q, want %q", dir, want)
	}

	cfg := Default()
	cfg.Cache.Dir = "/explicit"
	if dir, _ := cfg.CacheDir(); dir != "/explicit" {
		t.Errorf("CacheDir() = %q, want /explicit", dir)
	}
}
