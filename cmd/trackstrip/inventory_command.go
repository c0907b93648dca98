package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"trackstrip/internal/language"
	"trackstrip/internal/media"
	"trackstrip/internal/snapshot"
)

func newInventoryCommand(ctx *commandContext) *cobra.Command {
	inventoryCmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inspect the cached file scan",
	}
	inventoryCmd.AddCommand(newInventoryShowCommand(ctx))
	return inventoryCmd
}

func newInventoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the files and stream languages in the cached scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			snap, err := snapshot.NewStore(cfg.Paths.Snapshot).Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load snapshot: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Snapshot: %s\n", cfg.Paths.Snapshot)
			fmt.Fprintf(out, "Scan: %s of %s, %s\n", snap.ScanID, snap.Root, humanize.RelTime(snap.Created, time.Now(), "ago", "from now"))
			if len(snap.Files) == 0 {
				fmt.Fprintln(out, "No media files recorded")
				return nil
			}
			fmt.Fprintln(out, renderInventory(snap.Files))
			return nil
		},
	}
}

func renderInventory(files []media.MediaFile) string {
	headers := []string{"#", "Path", "Container", "Audio", "Subtitles"}
	rows := make([][]string, 0, len(files))
	for i, file := range files {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			file.Path,
			file.Info.Container.String(),
			streamLanguages(file.Info.AudioStreams),
			streamLanguages(file.Info.SubtitleStreams),
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft})
}

func streamLanguages(streams []media.StreamRecord) string {
	if len(streams) == 0 {
		return "-"
	}
	labels := make([]string, 0, len(streams))
	for _, stream := range streams {
		labels = append(labels, language.Label(stream.Language()))
	}
	return strings.Join(labels, ", ")
}
