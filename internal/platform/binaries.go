package platform

import (
	"fmt"
	"os/exec"

	"github.com/jacktracker/jacktracker/internal/infra/config"
)

// Binary is an external tool the service shells out to.
type Binary struct {
	Name    string
	Command string
	Purpose string
}

// BinaryStatus reports whether a Binary could be found.
type BinaryStatus struct {
	Binary
	Path      string
	Available bool
	Detail    string
}

// RequiredBinaries lists the external tools for the configured paths.
func RequiredBinaries(tools config.ToolsConfig) []Binary {
	return []Binary{
		{Name: "spotdl", Command: tools.SpotDL, Purpose: "Spotify metadata and downloads"},
		{Name: "yt-dlp", Command: tools.YtDlp, Purpose: "YouTube metadata and downloads"},
	}
}

// CheckBinaries resolves every binary against PATH.
func CheckBinaries(bins []Binary) []BinaryStatus {
	results := make([]BinaryStatus, 0, len(bins))
	for _, b := range bins {
		status := BinaryStatus{Binary: b}
		path, err := exec.LookPath(b.Command)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found in PATH", b.Command)
		} else {
			status.Path = path
			status.Available = true
		}
		results = append(results, status)
	}
	return results
}

// ValidateDependencies fails when none of the tools are usable. A single
// missing tool only disables that link source, so it is reported but not fatal.
func ValidateDependencies(tools config.ToolsConfig) ([]BinaryStatus, error) {
	statuses := CheckBinaries(RequiredBinaries(tools))
	for _, s := range statuses {
		if s.Available {
			return statuses, nil
		}
	}
	return statuses, fmt.Errorf("no download tools found: install spotdl and/or yt-dlp")
}
