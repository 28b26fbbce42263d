package linkedin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/root-daemon/auto-resume/pkg/fetch"
	"github.com/root-daemon/auto-resume/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProfile = `{
  "id": 12345,
  "urn": "ACoAAA",
  "firstName": "Ada",
  "lastName": "Lovelace",
  "username": "ada-lovelace",
  "summary": "Analyst & engineer.",
  "headline": "Engineer",
  "languages": [
    {"name": "English", "proficiency": "NATIVE_OR_BILINGUAL"},
    {"name": "French", "proficiency": "PROFESSIONAL_WORKING"}
  ],
  "skills": [{"name": "Go"}],
  "position": [
    {"title": "Engineer", "companyName": "Analytical Engines", "location": "London",
     "description": "Built things. - Designed the mill - Wrote programs",
     "start": {"year": 2020, "month": 3, "day": 0},
     "end": {"year": 0, "month": 0, "day": 0}}
  ],
  "certifications": [{"name": "CKA"}],
  "projects": {
    "total": 1,
    "items": [
      {"title": "Engine", "description": "Built a tool. - Used X - Used Y",
       "start": {"year": 2021, "month": 1, "day": 0}}
    ]
  }
}`

func TestParseProfile(t *testing.T) {
	profile, err := ParseProfile([]byte(sampleProfile))
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", profile.FullName())
	assert.Equal(t, int64(12345), profile.ID)
	require.Len(t, profile.Positions, 1)
	assert.Equal(t, DefaultEmploymentType, profile.Positions[0].EmploymentType)
	assert.True(t, profile.Positions[0].Ongoing())
	require.NotNil(t, profile.Projects)
	assert.Equal(t, 1, profile.Projects.Total)
	require.Len(t, profile.Projects.Items, 1)
	assert.Nil(t, profile.Projects.Items[0].End)
}

func TestParseProfileMinimal(t *testing.T) {
	profile, err := ParseProfile([]byte(`{"firstName": "Ada", "lastName": "Lovelace"}`))
	require.NoError(t, err)

	assert.NotNil(t, profile.Languages)
	assert.Empty(t, profile.Languages)
	assert.Empty(t, profile.Skills)
	assert.Empty(t, profile.Positions)
	assert.Empty(t, profile.Certifications)
	assert.Nil(t, profile.Projects)
	assert.Nil(t, profile.IsOpenToWork)
	assert.Equal(t, "", profile.Summary)
}

func TestParseProfileProjects(t *testing.T) {
	tests := []struct {
		name      string
		projects  string
		wantNil   bool
		wantTotal int
		wantItems int
	}{
		{name: "null", projects: `null`, wantNil: true},
		{name: "string", projects: `"none"`, wantNil: true},
		{name: "list", projects: `[]`, wantNil: true},
		{name: "bad item", projects: `{"items": [{"description": "no title"}]}`, wantNil: true},
		{name: "empty object", projects: `{}`, wantTotal: 0, wantItems: 0},
		{name: "items only", projects: `{"items": [{"title": "a"}]}`, wantTotal: 0, wantItems: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"firstName": "Ada", "lastName": "Lovelace", "projects": ` + tt.projects + `}`
			profile, err := ParseProfile([]byte(raw))
			require.NoError(t, err)

			if tt.wantNil {
				assert.Nil(t, profile.Projects)
				return
			}

			require.NotNil(t, profile.Projects)
			assert.Equal(t, tt.wantTotal, profile.Projects.Total)
			assert.Len(t, profile.Projects.Items, tt.wantItems)
		})
	}
}

func TestParseProfileInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		path string
	}{
		{name: "missing first name", raw: `{"lastName": "L"}`, path: "profile.firstName"},
		{name: "position without start", raw: `{"firstName": "A", "lastName": "L", "position": [{"title": "t", "companyName": "c"}]}`, path: "profile.position[0].start"},
		{name: "date without month", raw: `{"firstName": "A", "lastName": "L", "position": [{"title": "t", "companyName": "c", "start": {"year": 2020}}]}`, path: "profile.position[0].start.month"},
		{name: "language without name", raw: `{"firstName": "A", "lastName": "L", "languages": [{"proficiency": "NATIVE_OR_BILINGUAL"}]}`, path: "profile.languages[0].name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfile([]byte(tt.raw))
			require.Error(t, err)

			var verr *schema.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.path, verr.Path)
		})
	}
}

func TestFindProject(t *testing.T) {
	profile, err := ParseProfile([]byte(sampleProfile))
	require.NoError(t, err)

	project, ok := profile.FindProject("ENGINE")
	assert.True(t, ok)
	assert.Equal(t, "Engine", project.Title)

	_, ok = profile.FindProject("engine-v2")
	assert.False(t, ok)

	_, ok = Profile{}.FindProject("engine")
	assert.False(t, ok)
}

func TestFetchProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-rapidapi-key"))
		assert.Equal(t, APIHost, r.Header.Get("x-rapidapi-host"))
		assert.Equal(t, "https://www.linkedin.com/in/ada-lovelace", r.URL.Query().Get("url"))

		_, _ = w.Write([]byte(sampleProfile))
	}))
	defer server.Close()

	client := NewClient(Options{
		APIKey:     "test-key",
		Endpoint:   server.URL,
		ProfileURL: "https://www.linkedin.com/in/ada-lovelace",
		Timeout:    5 * time.Second,
	})

	profile, err := client.FetchProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada-lovelace", profile.Username)
}

func TestFetchProfileStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("rate limited"))
	}))
	defer server.Close()

	client := NewClient(Options{APIKey: "test-key", Endpoint: server.URL, Timeout: 5 * time.Second})

	_, err := client.FetchProfile(context.Background())
	require.Error(t, err)

	var fetchErr *fetch.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusTooManyRequests, fetchErr.StatusCode)
	assert.Equal(t, "rate limited", fetchErr.Body)
}

func TestFetchProfileCacheRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleProfile))
	}))
	defer server.Close()

	cachePath := filepath.Join(t.TempDir(), "linkedin_data.json")
	opts := Options{APIKey: "test-key", Endpoint: server.URL, Timeout: 5 * time.Second}

	direct, err := NewClient(opts).FetchProfile(context.Background())
	require.NoError(t, err)

	opts.Cache = fetch.CacheOptions{Local: true, Path: cachePath}
	_, err = NewClient(opts).FetchProfile(context.Background())
	require.NoError(t, err)

	// Replay from the snapshot with the server gone.
	server.Close()
	replayed, err := NewClient(opts).FetchProfile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, direct, replayed)
}

func TestFetchProfileLocalSkipsNonJSONResponse(t *testing.T) {
	var maintenance atomic.Bool
	maintenance.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if maintenance.Load() {
			_, _ = w.Write([]byte("<html>maintenance</html>"))
			return
		}
		_, _ = w.Write([]byte(sampleProfile))
	}))
	defer server.Close()

	cachePath := filepath.Join(t.TempDir(), "linkedin_data.json")
	opts := Options{
		APIKey:   "test-key",
		Endpoint: server.URL,
		Timeout:  5 * time.Second,
		Cache:    fetch.CacheOptions{Local: true, Path: cachePath},
	}

	_, err := NewClient(opts).FetchProfile(context.Background())
	var fetchErr *fetch.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.NoFileExists(t, cachePath)

	// Once the source recovers the next local run fetches again.
	maintenance.Store(false)
	profile, err := NewClient(opts).FetchProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FirstName)
	assert.FileExists(t, cachePath)
}
