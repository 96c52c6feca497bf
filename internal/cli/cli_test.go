package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var ansiRe = regexp.MustCompile("\x1b\\[[0-9;]*m")

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := New(&out, &errOut).RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return ansiRe.ReplaceAllString(out.String(), ""), errOut.String(), err
}

func TestLocate(t *testing.T) {
	out, _, err := run(t, "locate", "-g", "quad", "1.4,2", "3,4", "5,5")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	for _, want := range []string{"face 2", "face 1", "face 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestLocateOutside(t *testing.T) {
	out, _, err := run(t, "locate", "-g", "quad", "3,4", "100,100")
	if err == nil || !strings.Contains(err.Error(), "1 of 2 points outside") {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(out, "outside the map") {
		t.Errorf("output:\n%s", out)
	}
}

func TestLocateBadPoint(t *testing.T) {
	if _, _, err := run(t, "locate", "-g", "quad", "3;4"); err == nil {
		t.Error("expected an error")
	}
}

func TestVerboseLogsInsertions(t *testing.T) {
	_, errOut, err := run(t, "locate", "-v", "-g", "quad", "3,4")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(errOut, "[t] segment inserted") != 5 {
		t.Errorf("want one record per edge, got:\n%s", errOut)
	}
}

func TestGenerateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	wkt := filepath.Join(dir, "scene.wkt")
	if _, _, err := run(t, "generate", "-g", "random", "-n", "15", "--seed", "4", "-o", wkt); err != nil {
		t.Fatalf("generate: %v", err)
	}
	data, err := os.ReadFile(wkt)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "LINESTRING"); got != 15 {
		t.Fatalf("%d linestrings, want 15", got)
	}

	out, _, err := run(t, "stats", "--wkt", wkt, "--trials", "3")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"segments", "15", "nodes avg", "depth max"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output lacks %q:\n%s", want, out)
		}
	}
}

func TestGenerateRejectsWKTScene(t *testing.T) {
	if _, _, err := run(t, "generate", "--wkt", "scene.wkt"); err == nil {
		t.Error("expected an error")
	}
}

func TestDAG(t *testing.T) {
	out, _, err := run(t, "dag", "-g", "quad")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "digraph G {") {
		t.Errorf("not DOT:\n%.80s", out)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trapmap.toml")
	if err := os.WriteFile(path, []byte("[scene]\ngenerator = \"quad\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := run(t, "locate", "--config", path, "1.4,2")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "face 2") {
		t.Errorf("output:\n%s", out)
	}

	if _, _, err := run(t, "locate", "--config", filepath.Join(t.TempDir(), "none.toml"), "1,1"); err == nil {
		t.Error("missing config should fail")
	}
}

func TestStatsRejectsZeroTrials(t *testing.T) {
	if _, _, err := run(t, "stats", "-g", "quad", "--trials", "0"); err == nil {
		t.Error("expected an error")
	}
}

func TestTeardownFlushesLogger(t *testing.T) {
	var out, errOut bytes.Buffer
	c := New(&out, &errOut)
	root := c.RootCommand()
	root.SetArgs([]string{"locate", "-v", "-g", "quad", "3,4"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.teardown(root, nil); err != nil {
		t.Errorf("teardown: %v", err)
	}
	if !strings.Contains(errOut.String(), "[t] structure built") {
		t.Errorf("log not written:\n%s", errOut.String())
	}
}
