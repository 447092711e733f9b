package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, buf.String())
	}
	return buf.String()
}

func TestDemoDumpClassifyAndCook(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "demo.yaml")
	run(t, "demo", "--write-dump", dump)

	got := run(t, "classify", "--dump", dump)
	for _, want := range []string{"Skeletal meshes: 2", "hero", "sidekick"} {
		if !strings.Contains(got, want) {
			t.Errorf("classify output lacks %q:\n%s", want, got)
		}
	}

	got = run(t, "cook", "--dump", dump, "--dump", dump, "--parallel", "2")
	if n := strings.Count(got, "Asset:   demo"); n != 2 {
		t.Errorf("cook printed %d reports, want 2:\n%s", n, got)
	}
	for _, want := range []string{"Objects: 2", "SkeletalMesh'/Game/HoudiniEngine/Temp/demo/", "Components on 'demo': 2"} {
		if !strings.Contains(got, want) {
			t.Errorf("cook output lacks %q:\n%s", want, got)
		}
	}
}

func TestLogFile(t *testing.T) {
	logs := filepath.Join(t.TempDir(), "hengine.log")
	run(t, "demo", "--write-dump", "", "--cooks", "1", "--log-file", logs)
	t.Cleanup(func() { rootFlags.logFile = "" })

	data, err := os.ReadFile(logs)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "engine initialized") {
		t.Errorf("log file lacks the engine start:\n%s", data)
	}
}
