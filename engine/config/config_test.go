package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/spaghettifunk/anima-hengine/engine/content"
	"github.com/spaghettifunk/anima-hengine/engine/core"
)

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[log]
level = "debug"

[package]
mode = "bake"
bake_folder = "/Game/Characters"

[translator]
import_scale = 100.0
max_influences = 8
`))
	if err != nil {
		t.Fatal(err)
	}

	want := Default()
	want.Log.Level = "debug"
	want.Package.Mode = "bake"
	want.Package.BakeFolder = "/Game/Characters"
	want.Translator.ImportScale = 100
	want.Translator.MaxInfluences = 8
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	params := cfg.PackageParams("hero")
	if params.PackageMode != content.PackageModeBake || params.GetPackagePath() != "/Game/Characters" {
		t.Errorf("unexpected package params %+v", params)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"zero scale":   "[translator]\nimport_scale = 0.0\n",
		"influences":   "[translator]\nmax_influences = 13\n",
		"texcoords":    "[translator]\nnum_texcoords = -1\n",
		"package mode": "[package]\nmode = \"ship\"\n",
		"replace mode": "[package]\nreplace_mode = \"sometimes\"\n",
		"log level":    "[log]\nlevel = \"loud\"\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(data)); !errors.Is(err, core.ErrInvalidSettings) {
				t.Errorf("err = %v, want ErrInvalidSettings", err)
			}
		})
	}

	if _, err := Parse([]byte("[translator]\nwhatever = 1\n")); err == nil {
		t.Error("unknown key accepted")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hengine.toml")
	if err := os.WriteFile(path, []byte("[translator]\nimport_scale = 1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	changed := make(chan Config, 4)
	w.OnChange(func(c Config) { changed <- c })

	if err := os.WriteFile(path, []byte("[translator]\nimport_scale = 2.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// A write may be observed half done; wait for the final content.
	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case cfg := <-changed:
			done = cfg.Translator.ImportScale == 2.5
		case <-timeout:
			t.Fatal("no reload observed")
		}
	}
	if got := w.Current().Translator.ImportScale; got != 2.5 {
		t.Errorf("Current().ImportScale = %g", got)
	}
}
