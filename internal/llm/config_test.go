package llm

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     func() Config
		wantErr bool
	}{
		{"mock needs nothing", func() Config { c := DefaultConfig(); c.Provider = "mock"; return c }, false},
		{"gemini without key", DefaultConfig, true},
		{"gemini with key", func() Config { c := DefaultConfig(); c.Gemini.APIKey = "k"; return c }, false},
		{"openrouter uses openai key", func() Config { c := DefaultConfig(); c.Provider = "openrouter"; c.OpenAI.APIKey = "k"; return c }, false},
		{"unknown provider", func() Config { c := DefaultConfig(); c.Provider = "llama"; return c }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg().Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDiscoverConfigPriority(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("OPENROUTER_API_KEY", "or-key")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != "openrouter" || cfg.OpenAI.BaseURL != openRouterBaseURL || cfg.OpenAI.APIKey != "or-key" {
		t.Fatalf("openrouter config = %+v", cfg)
	}

	t.Setenv("GEMINI_API_KEY", "g-key")
	cfg, ok = DiscoverConfig()
	if !ok || cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g-key" {
		t.Fatalf("gemini config = %+v", cfg)
	}
}

func TestConfigOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Override("gemini-pro", "key", "")
	if cfg.Gemini.Model != "gemini-pro" || cfg.Gemini.APIKey != "key" || cfg.Gemini.BaseURL != "" {
		t.Fatalf("gemini = %+v", cfg.Gemini)
	}

	cfg.Provider = "anthropic"
	cfg.Override("", "", "http://proxy")
	if cfg.Anthropic.BaseURL != "http://proxy" || cfg.Anthropic.Model != "claude-haiku" {
		t.Fatalf("anthropic = %+v", cfg.Anthropic)
	}
}
