package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jacktracker/jacktracker/internal/domain"
	"github.com/jacktracker/jacktracker/internal/infra/config"
	"github.com/jacktracker/jacktracker/internal/infra/logger"
	"github.com/jacktracker/jacktracker/internal/platform"
	"github.com/jacktracker/jacktracker/internal/resolver"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newResolveCommand(opts *rootOptions) *cobra.Command {
	var (
		downloadDir string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <url>",
		Short: "List the tracks a link resolves to without downloading them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}

			log := logger.NewWithWriter(cmd.ErrOrStderr(), logger.ParseLevel(cfg.Log.Level))
			r := resolver.New(platform.NewCommandRunner(), cfg.Tools, log)

			tracks, err := r.Resolve(cmd.Context(), args[0], downloadDir)
			if err != nil {
				return fmt.Errorf("%s: %w", domain.ErrorKind(err), err)
			}

			out := cmd.OutOrStdout()
			if asJSON || !isTerminal(out) {
				return writeJSON(out, tracks)
			}
			fmt.Fprintln(out, renderTracks(tracks))
			return nil
		},
	}

	cmd.Flags().StringVarP(&downloadDir, "dir", "d", "", "Subfolder the tracks would be saved to")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON even on a terminal")
	return cmd
}

func renderTracks(tracks []*domain.Track) string {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		pos := ""
		if t.Position() > 0 {
			pos = strconv.Itoa(t.Position())
		}
		rows = append(rows, []string{pos, t.TrackName, t.ArtistName, t.AlbumName, string(t.Kind), t.SourceURL})
	}
	return renderTable(
		[]string{"#", "Track", "Artist", "Album", "Tool", "URL"},
		rows,
		[]columnAlignment{alignRight},
	)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
