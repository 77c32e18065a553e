package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestExtractPlainText(t *testing.T) {
	path := writeFile(t, "resume.txt", "\n\n  Jane Doe\nPython developer with Django experience  \n")

	got := New(zap.NewNop(), 0).Extract(path)
	if got != "Jane Doe\nPython developer with Django experience" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestExtractHTML(t *testing.T) {
	html := `<html><head><style>body{color:red}</style><script>var x = 1;</script></head>
<body><h1>Jane Doe</h1><p>Python developer</p><ul><li>Django</li><li>PostgreSQL</li></ul></body></html>`
	path := writeFile(t, "resume.HTML", html)

	got := New(zap.NewNop(), 0).Extract(path)
	if got != "Jane Doe Python developer Django PostgreSQL" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestExtractSoftFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cases := []struct {
		name    string
		path    string
		message string
	}{
		{
			name:    "missing file",
			path:    filepath.Join(dir, "missing.pdf"),
			message: "document extraction failed",
		},
		{
			name:    "corrupt pdf",
			path:    writeFile(t, "broken.pdf", "this is not a pdf at all"),
			message: "document extraction failed",
		},
		{
			name:    "unsupported type",
			path:    writeFile(t, "resume.docx", "binary"),
			message: "document extraction failed",
		},
		{
			name:    "blank text",
			path:    writeFile(t, "blank.txt", " \n\t "),
			message: "document has no extractable text",
		},
		{
			name:    "invalid utf8",
			path:    writeFile(t, "latin1.txt", "caf\xe9"),
			message: "document extraction failed",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			core, observed := observer.New(zapcore.WarnLevel)
			got := New(zap.New(core), 0).Extract(tc.path)
			if got != "" {
				t.Fatalf("expected empty text, got %q", got)
			}

			entries := observed.FilterMessage(tc.message).All()
			if len(entries) != 1 {
				t.Fatalf("expected one %q warning, got %d", tc.message, len(entries))
			}

			ctx := entries[0].ContextMap()
			if ctx["resume_path"] != tc.path {
				t.Fatalf("expected resume_path %q, got %v", tc.path, ctx["resume_path"])
			}
			if ctx["engine_component"] != "text_extractor" {
				t.Fatalf("expected engine_component field, got %v", ctx["engine_component"])
			}
		})
	}
}

func TestExtractDebugPreviewIsTruncated(t *testing.T) {
	path := writeFile(t, "long.md", strings.Repeat("python ", 100))

	core, observed := observer.New(zapcore.DebugLevel)
	if got := New(zap.New(core), 10).Extract(path); got == "" {
		t.Fatalf("expected text")
	}

	entries := observed.FilterMessage("document extracted").All()
	if len(entries) != 1 {
		t.Fatalf("expected one debug entry, got %d", len(entries))
	}
	if preview := entries[0].ContextMap()["text_preview"]; preview != "python pyt..." {
		t.Fatalf("unexpected preview: %q", preview)
	}
}

func TestHTMLText(t *testing.T) {
	got, err := HTMLText(strings.NewReader("<div>Senior<br>Go&nbsp;engineer</div><noscript>enable js</noscript>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Senior Go engineer" {
		t.Fatalf("unexpected text: %q", got)
	}
}
