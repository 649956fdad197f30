package cmd

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/SitanshuA091/FACE-Approval-App/internal/config"
)

func TestMustGetFlags(t *testing.T) {
	c := &cobra.Command{Use: "test"}
	c.Flags().Bool("json", false, "")
	c.Flags().Int("port", 0, "")
	c.Flags().String("host", "", "")

	if err := c.Flags().Parse([]string{"--json", "--port", "9000", "--host", "127.0.0.1"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !mustGetBool(c, "json") {
		t.Error("expected --json to be true")
	}
	if got := mustGetInt(c, "port"); got != 9000 {
		t.Errorf("port = %d, want 9000", got)
	}
	if got := mustGetString(c, "host"); got != "127.0.0.1" {
		t.Errorf("host = %q, want 127.0.0.1", got)
	}
}

func TestMustGetFlag_PanicsOnUnknownFlag(t *testing.T) {
	c := &cobra.Command{Use: "test"}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for undefined flag")
		}
	}()
	mustGetString(c, "missing")
}

func TestApplyServeFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantHost string
		wantPort int
	}{
		{"defaults keep env", nil, "0.0.0.0", 8000},
		{"port override", []string{"--port", "9090"}, "0.0.0.0", 9090},
		{"host override", []string{"--host", "127.0.0.1"}, "127.0.0.1", 8000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := &cobra.Command{Use: "serve"}
			c.Flags().Int("port", 0, "")
			c.Flags().String("host", "", "")
			if err := c.Flags().Parse(tc.args); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			cfg := newServeTestConfig()
			applyServeFlags(c, cfg)

			if cfg.Web.Host != tc.wantHost || cfg.Web.Port != tc.wantPort {
				t.Errorf("got %s:%d, want %s:%d", cfg.Web.Host, cfg.Web.Port, tc.wantHost, tc.wantPort)
			}
		})
	}
}

func newServeTestConfig() *config.Config {
	return &config.Config{Web: config.WebConfig{Host: "0.0.0.0", Port: 8000}}
}
