package cli

import (
	"path/filepath"
	"testing"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", ""},
		{"1234", "****"},
		{"12345678", "********"},
		{"123456789", "1234*6789"},
		{"abcdefghij", "abcd**ghij"},
		{"sk-1234567890abcdef", "sk-1***********cdef"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := MaskAPIKey(tt.key)
			if got != tt.want {
				t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath: %v", err)
	}

	err = cfg.AddContext("prod", &Context{
		Endpoint:       "wss://match.example.com/v1/stream",
		APIKey:         "sk-test-key",
		TimeoutSeconds: 20,
	})
	if err != nil {
		t.Fatalf("AddContext: %v", err)
	}
	if err := cfg.UseContext("prod"); err != nil {
		t.Fatalf("UseContext: %v", err)
	}

	reloaded, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	ctx, err := reloaded.GetCurrentContext()
	if err != nil {
		t.Fatalf("GetCurrentContext: %v", err)
	}
	if ctx.Name != "prod" {
		t.Errorf("context name = %q, want prod", ctx.Name)
	}
	if ctx.Endpoint != "wss://match.example.com/v1/stream" {
		t.Errorf("endpoint = %q", ctx.Endpoint)
	}
	if ctx.APIKey != "sk-test-key" {
		t.Errorf("api key = %q", ctx.APIKey)
	}
	if ctx.TimeoutSeconds != 20 {
		t.Errorf("timeout = %d, want 20", ctx.TimeoutSeconds)
	}
}

func TestUseContextUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath: %v", err)
	}
	if err := cfg.UseContext("missing"); err == nil {
		t.Error("UseContext with unknown name succeeded")
	}
}

func TestDeleteContextClearsCurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath: %v", err)
	}
	if err := cfg.AddContext("dev", &Context{Endpoint: "ws://localhost:8080"}); err != nil {
		t.Fatalf("AddContext: %v", err)
	}
	if err := cfg.UseContext("dev"); err != nil {
		t.Fatalf("UseContext: %v", err)
	}
	if err := cfg.DeleteContext("dev"); err != nil {
		t.Fatalf("DeleteContext: %v", err)
	}
	if cfg.CurrentContext != "" {
		t.Errorf("current context = %q after delete, want empty", cfg.CurrentContext)
	}
	if _, err := cfg.GetCurrentContext(); err == nil {
		t.Error("GetCurrentContext succeeded with no current context")
	}
}

func TestListContextsSorted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath: %v", err)
	}
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := cfg.AddContext(name, &Context{Endpoint: "ws://x"}); err != nil {
			t.Fatalf("AddContext(%s): %v", name, err)
		}
	}
	got := cfg.ListContexts()
	want := []string{"alpha", "mid", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("ListContexts = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ListContexts = %v, want %v", got, want)
		}
	}
}
