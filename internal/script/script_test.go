package script_test

import (
	"os/exec"
	"slices"
	"strings"
	"testing"

	"trackstrip/internal/language"
	"trackstrip/internal/media"
	"trackstrip/internal/script"
	"trackstrip/internal/selection"
	"trackstrip/internal/testsupport"
)

func TestBuildCommandForMixedLanguages(t *testing.T) {
	file := testsupport.MediaFile("movie.mkv", media.ContainerMKV, []string{"jpn", "eng"}, []string{"eng"})
	drops := selection.SelectDrops(nil, file, language.NewAllowList("jpn"))

	got := script.BuildCommand(file, drops)
	want := []string{"ffmpeg", "-i", "movie.mkv", "-map", "0", "-map", "-0:a:1", "-map", "-0:s:0", "-c", "copy", "movie.cleaned.mkv"}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected command:\n got  %q\n want %q", got, want)
	}
}

func TestBuildCommandWithoutDrops(t *testing.T) {
	file := testsupport.MediaFile("/lib/show.mp4", media.ContainerMP4, []string{"jpn"}, nil)
	got := script.BuildCommand(file, selection.Drops{})
	want := []string{"ffmpeg", "-i", "/lib/show.mp4", "-map", "0", "-c", "copy", "/lib/show.cleaned.mp4"}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected command:\n got  %q\n want %q", got, want)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		path      string
		container media.Container
		want      string
	}{
		{"movie.mkv", media.ContainerMKV, "movie.cleaned.mkv"},
		{"/mkv/mkv.show.MKV", media.ContainerMKV, "/mkv/mkv.show.cleaned.mkv"},
		{"/avi/film.2019.avi", media.ContainerAVI, "/avi/film.2019.cleaned.avi"},
		{"/media/clip.mp4", media.ContainerMP4, "/media/clip.cleaned.mp4"},
		{"/media/poster.jpg", media.ContainerUnknown, "/media/poster.cleaned.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			file := media.MediaFile{Path: tt.path, Info: media.MediaFileInfo{Container: tt.container}}
			if got := script.OutputPath(file); got != tt.want {
				t.Fatalf("OutputPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	tests := map[string]string{
		"plain.mkv":            "plain.mkv",
		"-0:a:1":               "-0:a:1",
		"/media/My Movie.mkv":  `"/media/My Movie.mkv"`,
		`/media/say "hi".mkv`:  `"/media/say \"hi\".mkv"`,
		"/media/$HOME bad.mkv": `"/media/\$HOME bad.mkv"`,
		"/media/tab\there.mkv": "\"/media/tab\there.mkv\"",
		"/lib/Tom&Jerry.mkv":   `"/lib/Tom&Jerry.mkv"`,
		"/lib/Kid's.mkv":       `"/lib/Kid's.mkv"`,
		"/lib/a;b.mkv":         `"/lib/a;b.mkv"`,
		"/lib/$x.mkv":          `"/lib/\$x.mkv"`,
		"/lib/back\\slash.mkv": `"/lib/back\\slash.mkv"`,
		"/lib/(2019) [x].mkv":  `"/lib/(2019) [x].mkv"`,
		"/lib/a|b<c>d*.mkv":    `"/lib/a|b<c>d*.mkv"`,
		"/lib/`id`.mkv":        "\"/lib/\\`id\\`.mkv\"",
	}
	for in, want := range tests {
		if got := script.Quote(in); got != want {
			t.Fatalf("Quote(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildScript(t *testing.T) {
	files := []media.MediaFile{
		testsupport.MediaFile("/lib/A Movie.mkv", media.ContainerMKV, []string{"jpn", "eng", ""}, []string{"eng", "jpn"}),
		testsupport.MediaFile("/lib/b.avi", media.ContainerAVI, []string{"jpn"}, nil),
	}
	allow := language.ParseAllowList("jpn")

	got := script.BuildScript(nil, files, allow)
	want := strings.Join([]string{
		"#!/bin/bash",
		"",
		`echo "Processing /lib/A Movie.mkv..."`,
		`ffmpeg -i "/lib/A Movie.mkv" -map 0 -map -0:a:1 -map -0:s:0 -c copy "/lib/A Movie.cleaned.mkv"`,
		"",
		`echo "Processing /lib/b.avi..."`,
		"ffmpeg -i /lib/b.avi -map 0 -c copy /lib/b.cleaned.avi",
		"",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected script:\n%s\nwant:\n%s", got, want)
	}
	if again := script.BuildScript(nil, files, allow); again != got {
		t.Fatal("script generation is not deterministic")
	}
}

func TestBuildScriptEmptyInventory(t *testing.T) {
	if got := script.BuildScript(nil, nil, language.NewAllowList("eng")); got != "#!/bin/bash\n\n" {
		t.Fatalf("unexpected empty script: %q", got)
	}
}

func TestGeneratorUsesConfiguredBinary(t *testing.T) {
	files := []media.MediaFile{testsupport.MediaFile("/lib/x.mkv", media.ContainerMKV, nil, nil)}
	got := script.Generator{FFmpeg: "/opt/ffmpeg/bin/ffmpeg"}.Script(files, language.NewAllowList("eng"))
	if !strings.Contains(got, "\n/opt/ffmpeg/bin/ffmpeg -i /lib/x.mkv -map 0 -c copy /lib/x.cleaned.mkv\n") {
		t.Fatalf("configured binary not used:\n%s", got)
	}
}

func TestJoinCommandSurvivesBash(t *testing.T) {
	bash, err := exec.LookPath("bash")
	if err != nil {
		t.Skip("bash not available")
	}
	paths := []string{
		"/lib/Tom&Jerry.mkv",
		"/lib/Kid's.mkv",
		"/lib/a;b.mkv",
		"/lib/My Movie (2019).mkv",
		`/lib/say "hi" $HOME \ ` + "`id`.mkv",
		"/lib/#1 ~x !y {z}.mkv",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			line := script.JoinCommand([]string{"printf", `%s\n`, path})
			out, err := exec.Command(bash, "-c", line).Output()
			if err != nil {
				t.Fatalf("bash -c %q: %v", line, err)
			}
			if string(out) != path+"\n" {
				t.Fatalf("argument changed by the shell:\n line %s\n got  %q\n want %q", line, out, path)
			}
		})
	}
}
