package tui

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/memory-match/internal/levels"
)

func TestNewSSHServerRequiresDealer(t *testing.T) {
	if _, err := NewSSHServer(DefaultSSHServerConfig()); err == nil {
		t.Fatal("NewSSHServer() without a dealer should fail")
	}
}

func TestNewSSHServerHostKey(t *testing.T) {
	tests := []struct {
		name    string
		keyPath func(home string) string // value for HostKeyPath
		want    func(home string) string // where the key must end up
	}{
		{
			name:    "default under home",
			keyPath: func(string) string { return "" },
			want:    func(home string) string { return filepath.Join(home, ".memory", "host_key") },
		},
		{
			name:    "explicit path",
			keyPath: func(home string) string { return filepath.Join(home, "keys", "memory_ed25519") },
			want:    func(home string) string { return filepath.Join(home, "keys", "memory_ed25519") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			t.Setenv("HOME", home)

			cfg := DefaultSSHServerConfig()
			cfg.Address = "127.0.0.1:0"
			cfg.HostKeyPath = tt.keyPath(home)
			cfg.Dealer = stubDealer{n: levels.HandSize}
			cfg.Logger = log.New(io.Discard)

			srv, err := NewSSHServer(cfg)
			if err != nil {
				t.Fatalf("NewSSHServer() failed: %v", err)
			}
			if srv.Addr() != "127.0.0.1:0" {
				t.Errorf("Addr() = %q", srv.Addr())
			}
			if _, err := os.Stat(tt.want(home)); err != nil {
				t.Errorf("host key not generated at %s: %v", tt.want(home), err)
			}
		})
	}
}
