package cmd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/root-daemon/auto-resume/pkg/config"
	"github.com/root-daemon/auto-resume/pkg/fetch"
	"github.com/root-daemon/auto-resume/pkg/render"
)

const githubResponse = `{"data": {"viewer": {
  "login": "ada", "name": "Ada Lovelace", "location": "London",
  "websiteUrl": "https://ada.dev", "email": "ada@example.com",
  "repositories": {"nodes": [
    {"name": "engine", "url": "https://github.com/ada/engine", "stargazerCount": 42,
     "languages": {"nodes": [{"name": "Go"}]}}
  ]}
}}}`

const linkedinResponse = `{
  "firstName": "Ada", "lastName": "Lovelace", "username": "ada",
  "summary": "R&D engineer.",
  "position": [{"title": "Engineer", "companyName": "Engines", "location": "London",
    "description": "Built it.", "start": {"year": 2020, "month": 1}}],
  "certifications": [{"name": "CKA"}],
  "languages": [{"name": "English", "proficiency": "NATIVE_OR_BILINGUAL"}]
}`

const testTemplate = "<NAME>|<EMAIL>|<URL>|<LINKEDIN>|<GITHUB_LANGS>|<CERTIFICATIONS>|<SPEAKS>|<SUMMARY>\n<REPOSITORIES><EXPERIENCES>"

func newTestServers(t *testing.T) (gh, li *httptest.Server) {
	t.Helper()
	gh = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(githubResponse))
	}))
	li = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(linkedinResponse))
	}))
	t.Cleanup(gh.Close)
	t.Cleanup(li.Close)
	return gh, li
}

func testConfig(t *testing.T, gh, li *httptest.Server) config.Config {
	t.Helper()
	tmpDir := t.TempDir()

	templateFile := filepath.Join(tmpDir, "template.tex")
	err := os.WriteFile(templateFile, []byte(testTemplate), 0600)
	if err != nil {
		t.Fatalf("Failed to create template: %v", err)
	}

	cfg := config.Default()
	cfg.GitHub.Token = "test-token"
	cfg.GitHub.Endpoint = gh.URL
	cfg.GitHub.CachePath = filepath.Join(tmpDir, "github_data.json")
	cfg.LinkedIn.APIKey = "test-key"
	cfg.LinkedIn.Endpoint = li.URL
	cfg.LinkedIn.ProfileURL = "https://www.linkedin.com/in/ada"
	cfg.LinkedIn.CachePath = filepath.Join(tmpDir, "linkedin_data.json")
	cfg.TemplatePath = templateFile
	cfg.OutputPath = filepath.Join(tmpDir, "out", "resume.tex")
	cfg.RequestTimeout = 5 * time.Second
	return cfg
}

func TestGenerate(t *testing.T) {
	gh, li := newTestServers(t)
	cfg := testConfig(t, gh, li)

	err := generate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	data, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	output := string(data)

	firstLine := strings.SplitN(output, "\n", 2)[0]
	expected := "Ada Lovelace|ada@example.com|ada.dev|linkedin.com/in/ada|Go|CKA|English (Native)|R\\&D engineer."
	if firstLine != expected {
		t.Errorf("Expected '%s', got '%s'", expected, firstLine)
	}

	if !strings.Contains(output, render.NoDescription) {
		t.Error("Expected fallback description for repository without a project")
	}

	if !strings.Contains(output, "Jan 2020 - Present") {
		t.Error("Expected ongoing position to end in Present")
	}

	// Caches are only written in local mode.
	_, err = os.Stat(cfg.GitHub.CachePath)
	if !os.IsNotExist(err) {
		t.Error("Cache file should not be written outside local mode")
	}
}

func TestGenerateLocalReplay(t *testing.T) {
	gh, li := newTestServers(t)
	cfg := testConfig(t, gh, li)
	cfg.Local = true

	err := generate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	first, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}

	// With both sources gone the run must be served from the caches.
	gh.Close()
	li.Close()

	err = generate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Offline generate failed: %v", err)
	}

	second, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}

	if string(first) != string(second) {
		t.Error("Expected offline output to match online output")
	}
}

func TestGenerateFetchError(t *testing.T) {
	gh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("Bad credentials"))
	}))
	defer gh.Close()
	_, li := newTestServers(t)

	cfg := testConfig(t, gh, li)

	err := generate(context.Background(), cfg)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var fetchErr *fetch.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *fetch.FetchError, got %T", err)
	}

	// Nothing is written on failure.
	_, err = os.Stat(cfg.OutputPath)
	if !os.IsNotExist(err) {
		t.Error("Output file should not be written when a fetch fails")
	}
}

func TestGenerateMissingTemplate(t *testing.T) {
	gh, li := newTestServers(t)
	cfg := testConfig(t, gh, li)
	cfg.TemplatePath = filepath.Join(t.TempDir(), "missing.tex")

	err := generate(context.Background(), cfg)

	var renderErr *render.RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("Expected *render.RenderError, got %v", err)
	}
}
