package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 0},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{}},
	}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_InvalidIndexDriver(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Index:    IndexConfig{Driver: "postgres"},
	}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown index driver")
	}
}

func TestValidate_OverlapNotSmallerThanChunkSize(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Corpus:   CorpusConfig{ChunkSize: 200, ChunkOverlap: 200},
	}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for overlap >= chunk size")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 120 {
		t.Errorf("expected WriteTimeoutSec=120, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.KeyPrefix != "sathi:" {
		t.Errorf("expected KeyPrefix=sathi:, got %q", cfg.Database.KeyPrefix)
	}
	if cfg.Corpus.ChunkSize != 1000 {
		t.Errorf("expected ChunkSize=1000, got %d", cfg.Corpus.ChunkSize)
	}
	if cfg.Corpus.ChunkOverlap != 200 {
		t.Errorf("expected ChunkOverlap=200, got %d", cfg.Corpus.ChunkOverlap)
	}
	if cfg.Index.Driver != "file" {
		t.Errorf("expected Driver=file, got %q", cfg.Index.Driver)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("expected embedding model default, got %q", cfg.Embedding.Model)
	}
	if cfg.Chat.HistoryWindow != 10 {
		t.Errorf("expected HistoryWindow=10, got %d", cfg.Chat.HistoryWindow)
	}
	if cfg.Chat.PromptVariant != "krishisathi/v1" {
		t.Errorf("expected PromptVariant=krishisathi/v1, got %q", cfg.Chat.PromptVariant)
	}
}

func TestApplyDefaults_NegativeOverlapMeansZero(t *testing.T) {
	// chunk_overlap: 0 is indistinguishable from unset and gets the default;
	// a negative value is the way to request no overlap.
	cfg := Config{Corpus: CorpusConfig{ChunkSize: 500, ChunkOverlap: -1}}
	cfg.ApplyDefaults()

	if cfg.Corpus.ChunkOverlap != 0 {
		t.Errorf("expected negative overlap clamped to 0, got %d", cfg.Corpus.ChunkOverlap)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SATHI_TEST_ADDR", "redis.internal:6379")
	os.Unsetenv("SATHI_TEST_UNSET")

	in := []byte("addr: ${SATHI_TEST_ADDR}\nkey: ${SATHI_TEST_UNSET:-fallback}\nempty: ${SATHI_TEST_UNSET}")
	got := string(expandEnvVars(in))
	want := "addr: redis.internal:6379\nkey: fallback\nempty: "
	if got != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "config")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
http:
  port: 9090
database:
  addrs:
    - ${SATHI_TEST_REDIS:-localhost:6379}
index:
  driver: file
`
	if err := os.WriteFile(filepath.Join(cfgDir, "testenv.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Load("testenv")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.HTTP.Port)
	}
	if len(cfg.Database.Addrs) != 1 || cfg.Database.Addrs[0] != "localhost:6379" {
		t.Errorf("addrs = %v", cfg.Database.Addrs)
	}
	// Defaults applied on top of the file.
	if cfg.Chat.MaxContextDocs != 3 {
		t.Errorf("MaxContextDocs = %d, want default 3", cfg.Chat.MaxContextDocs)
	}
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "config")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
http:
  port: 8080
database:
  addrs: []
`
	if err := os.WriteFile(filepath.Join(cfgDir, "broken.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	if _, err := Load("broken"); err == nil {
		t.Fatal("expected validation error for empty database.addrs")
	}
}
