package platform

import (
	"testing"

	"github.com/jacktracker/jacktracker/internal/infra/config"
)

func TestValidateDependencies(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	statuses, err := ValidateDependencies(config.ToolsConfig{SpotDL: "jt-missing-spotdl", YtDlp: "jt-missing-ytdlp"})
	if err == nil {
		t.Fatal("expected an error when no tool is installed")
	}
	if len(statuses) != 2 {
		t.Fatalf("got %d statuses, want 2", len(statuses))
	}
	for _, s := range statuses {
		if s.Available || s.Detail == "" {
			t.Errorf("%s: Available=%v Detail=%q", s.Name, s.Available, s.Detail)
		}
	}
}
