package script

import (
	"log/slog"
	"strings"

	"trackstrip/internal/language"
	"trackstrip/internal/logging"
	"trackstrip/internal/media"
	"trackstrip/internal/selection"
)

// Header is the first line of every generated script.
const Header = "#!/bin/bash"

// Entry is the rendered plan for one file.
type Entry struct {
	File  media.MediaFile
	Drops selection.Drops
	Args  []string
}

// Generator renders scripts for a configured ffmpeg binary.
type Generator struct {
	FFmpeg string
	Logger *slog.Logger
}

// BuildScript renders the script for files with the default ffmpeg binary.
func BuildScript(logger *slog.Logger, files []media.MediaFile, allow language.AllowList) string {
	return Generator{Logger: logger}.Script(files, allow)
}

// Script renders every file in inventory order.
func (g Generator) Script(files []media.MediaFile, allow language.AllowList) string {
	entries := make([]Entry, 0, len(files))
	for _, file := range files {
		entries = append(entries, g.Entry(file, allow))
	}
	return Render(entries)
}

// Entry selects the drops for file and builds its command.
func (g Generator) Entry(file media.MediaFile, allow language.AllowList) Entry {
	binary := strings.TrimSpace(g.FFmpeg)
	if binary == "" {
		binary = DefaultFFmpeg
	}
	drops := selection.SelectDrops(g.Logger, file, allow)
	logging.NewComponentLogger(g.Logger, "script").Debug("command generated",
		logging.String(logging.FieldPath, file.Path),
		logging.Int("audio_drops", len(drops.Audio)),
		logging.Int("subtitle_drops", len(drops.Subtitle)),
	)
	return Entry{File: file, Drops: drops, Args: buildCommand(binary, file, drops)}
}

// Render writes the header, a blank line, then one echo line and one command
// line per entry, each block followed by a blank line.
func Render(entries []Entry) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n\n")
	for _, entry := range entries {
		b.WriteString(`echo "Processing `)
		b.WriteString(doubleQuoteEscaper.Replace(entry.File.Path))
		b.WriteString(`..."`)
		b.WriteByte('\n')
		b.WriteString(JoinCommand(entry.Args))
		b.WriteString("\n\n")
	}
	return b.String()
}
