package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "dg-key")
	t.Setenv("GROQ_API_KEY", "groq-key")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("EXA_API_KEY", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:8000" {
		t.Fatalf("unexpected default address: %q", cfg.Server.Addr())
	}
	if cfg.Providers.Deepgram.APIKey != "dg-key" {
		t.Fatalf("expected env override, got %q", cfg.Providers.Deepgram.APIKey)
	}
	if cfg.Providers.Exa.APIKey != "" {
		t.Fatalf("expected optional exa key to stay empty")
	}
}

func TestLoadReadsYAMLFile(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("EXA_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := `
server:
  host: 127.0.0.1
  port: 9100
providers:
  deepgram:
    api_key: dg
  groq:
    api_key: gq
    model: llama-3.3-70b-versatile
  openai:
    api_key: oa
    voice: alloy
conversation:
  history_window: 12
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	if cfg.Server.Addr() != "127.0.0.1:9100" {
		t.Fatalf("unexpected address: %q", cfg.Server.Addr())
	}
	if cfg.Providers.Groq.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("unexpected model: %q", cfg.Providers.Groq.Model)
	}
	if cfg.Conversation.HistoryWindow != 12 {
		t.Fatalf("unexpected history window: %d", cfg.Conversation.HistoryWindow)
	}
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "dg")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "oa")
	t.Setenv("EXA_API_KEY", "")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected an error for missing credentials")
	}
}
