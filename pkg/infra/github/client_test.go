package github_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	githubinfra "github.com/m-mizutani/relnotes/pkg/infra/github"
)

const releasesPage = `[
  {
    "created_at": "2024-05-01T10:00:00Z",
    "name": "v1.2.0",
    "tag_name": "v1.2.0",
    "html_url": "https://github.com/test-owner/test-repo/releases/tag/v1.2.0",
    "body": "## Features\nAdded X"
  },
  {
    "created_at": "2023-12-31T23:00:00Z",
    "name": null,
    "tag_name": "v1.1.0",
    "html_url": "https://github.com/test-owner/test-repo/releases/tag/v1.1.0",
    "body": null
  }
]`

func TestClient_ListReleases_Success(t *testing.T) {
	var gotPath, gotPage, gotPerPage, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPage = r.URL.Query().Get("page")
		gotPerPage = r.URL.Query().Get("per_page")
		gotAuth = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(releasesPage))
	}))
	defer server.Close()

	client, err := githubinfra.NewClient(context.Background(),
		githubinfra.WithBaseURL(server.URL),
		githubinfra.WithToken("test-token"),
	)
	gt.NoError(t, err)

	releases, err := client.ListReleases(context.Background(), "test-owner", "test-repo", 2, 100)
	gt.NoError(t, err)

	gt.Value(t, gotPath).Equal("/repos/test-owner/test-repo/releases")
	gt.Value(t, gotPage).Equal("2")
	gt.Value(t, gotPerPage).Equal("100")
	gt.Value(t, gotAuth).Equal("token test-token")

	gt.Array(t, releases).Length(2)
	gt.Value(t, releases[0].TagName).Equal("v1.2.0")
	gt.Value(t, releases[0].Name).Equal("v1.2.0")
	gt.Value(t, releases[0].Body).Equal("## Features\nAdded X")
	gt.Value(t, releases[0].HTMLURL).Equal("https://github.com/test-owner/test-repo/releases/tag/v1.2.0")
	gt.Value(t, releases[0].CreatedAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))).Equal(true)
	gt.Value(t, releases[0].Year()).Equal(2024)

	// null fields map to zero values
	gt.Value(t, releases[1].Name).Equal("")
	gt.Value(t, releases[1].Body).Equal("")
	gt.Value(t, releases[1].Year()).Equal(2023)
}

func TestClient_ListReleases_NoToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := githubinfra.NewClient(context.Background(), githubinfra.WithBaseURL(server.URL+"/"))
	gt.NoError(t, err)

	releases, err := client.ListReleases(context.Background(), "test-owner", "test-repo", 1, 100)
	gt.NoError(t, err)
	gt.Array(t, releases).Length(0)
	gt.Value(t, gotAuth).Equal("")
}

func TestClient_ListReleases_WithHTTPClient(t *testing.T) {
	var gotAuth string
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(releasesPage))
	}))
	defer server.Close()

	t.Run("Token auth wraps the given transport", func(t *testing.T) {
		client, err := githubinfra.NewClient(context.Background(),
			githubinfra.WithBaseURL(server.URL),
			githubinfra.WithHTTPClient(server.Client()),
			githubinfra.WithToken("test-token"),
		)
		gt.NoError(t, err)

		releases, err := client.ListReleases(context.Background(), "test-owner", "test-repo", 1, 100)
		gt.NoError(t, err)
		gt.Array(t, releases).Length(2)
		gt.Value(t, gotAuth).Equal("token test-token")
	})

	t.Run("Unauthenticated client is used as is", func(t *testing.T) {
		client, err := githubinfra.NewClient(context.Background(),
			githubinfra.WithBaseURL(server.URL),
			githubinfra.WithHTTPClient(server.Client()),
		)
		gt.NoError(t, err)

		releases, err := client.ListReleases(context.Background(), "test-owner", "test-repo", 1, 100)
		gt.NoError(t, err)
		gt.Array(t, releases).Length(2)
		gt.Value(t, gotAuth).Equal("")
	})

	t.Run("Default client does not trust the test certificate", func(t *testing.T) {
		client, err := githubinfra.NewClient(context.Background(),
			githubinfra.WithBaseURL(server.URL),
		)
		gt.NoError(t, err)

		_, err = client.ListReleases(context.Background(), "test-owner", "test-repo", 1, 100)
		gt.Error(t, err)
	})
}

func TestClient_ListReleases_PerPageCapped(t *testing.T) {
	var gotPerPage string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPerPage = r.URL.Query().Get("per_page")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := githubinfra.NewClient(context.Background(), githubinfra.WithBaseURL(server.URL))
	gt.NoError(t, err)

	_, err = client.ListReleases(context.Background(), "o", "r", 1, 500)
	gt.NoError(t, err)
	gt.Value(t, gotPerPage).Equal(strconv.Itoa(githubinfra.MaxPerPage))
}

func TestClient_ListReleases_HTTPError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{
			name:   "Not found with JSON body",
			status: http.StatusNotFound,
			body:   `{"message":"Not Found"}`,
		},
		{
			name:   "Server error with plain body",
			status: http.StatusInternalServerError,
			body:   "upstream exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := githubinfra.NewClient(context.Background(), githubinfra.WithBaseURL(server.URL))
			gt.NoError(t, err)

			releases, err := client.ListReleases(context.Background(), "test-owner", "test-repo", 1, 100)
			gt.Error(t, err)
			gt.True(t, releases == nil)
			gt.String(t, err.Error()).Contains("failed to fetch releases")
			gt.String(t, err.Error()).Contains(strconv.Itoa(tt.status))
			gt.String(t, err.Error()).Contains(tt.body)
		})
	}
}

func TestClient_ListReleases_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client, err := githubinfra.NewClient(context.Background(), githubinfra.WithBaseURL(server.URL))
	gt.NoError(t, err)

	_, err = client.ListReleases(context.Background(), "test-owner", "test-repo", 1, 100)
	gt.Error(t, err)
}

func TestClient_NewClient_InvalidPrivateKey(t *testing.T) {
	_, err := githubinfra.NewClient(context.Background(),
		githubinfra.WithAppAuth(1, 2, []byte("not a pem key")),
	)
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("failed to create GitHub App transport")
}

func TestClient_ListReleases_WithRealAPI(t *testing.T) {
	owner := os.Getenv("TEST_GITHUB_OWNER")
	repo := os.Getenv("TEST_GITHUB_REPO")
	if owner == "" || repo == "" {
		t.Skip("TEST_GITHUB_OWNER and TEST_GITHUB_REPO are not set")
	}

	client, err := githubinfra.NewClient(context.Background(),
		githubinfra.WithToken(os.Getenv("TEST_GITHUB_TOKEN")),
	)
	gt.NoError(t, err)

	releases, err := client.ListReleases(context.Background(), owner, repo, 1, 10)
	gt.NoError(t, err)
	t.Logf("Fetched %d releases from %s/%s", len(releases), owner, repo)
}
