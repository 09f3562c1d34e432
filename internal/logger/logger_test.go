package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// capture redirects stdout around fn and returns what was printed.
func capture(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	w.Close()
	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestTaggedLines(t *testing.T) {
	out := capture(t, func() {
		Info("AO", "Loading Charts chunk 1/3...")
		Success("DB", "Opened albion-arb.db")
		Warn("CACHE", "Bad charts payload")
		Error("Server", "Failed")
	})

	for _, want := range []string{"[AO]", "Loading Charts chunk 1/3...", "[DB]", "[CACHE]", "[Server]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBanner(t *testing.T) {
	out := capture(t, func() { Banner("v1.0.0") })
	if !strings.Contains(out, "albion-arb") || !strings.Contains(out, "v1.0.0") {
		t.Errorf("banner = %q", out)
	}

	out = capture(t, func() { Banner("") })
	if !strings.Contains(out, "dev") {
		t.Errorf("empty version should fall back to dev: %q", out)
	}
}

func TestSectionAndStats(t *testing.T) {
	out := capture(t, func() {
		Section("Analysis")
		Stats("rows", 42)
		Stats("top coefficient", 2.0)
	})

	if !strings.Contains(out, "Analysis") {
		t.Errorf("section title missing: %q", out)
	}
	if !strings.Contains(out, "rows") || !strings.Contains(out, "42") {
		t.Errorf("stats line missing: %q", out)
	}
}

func TestServer(t *testing.T) {
	out := capture(t, func() { Server("127.0.0.1:13380") })
	if !strings.Contains(out, "http://127.0.0.1:13380") {
		t.Errorf("server line = %q", out)
	}
}
