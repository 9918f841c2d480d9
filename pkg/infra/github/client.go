package github

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/interfaces"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
	"golang.org/x/oauth2"
)

// MaxPerPage is the largest page size accepted by the list releases endpoint
const MaxPerPage = 100

// config holds internal GitHub client configuration
type config struct {
	token          string
	appID          int64
	installationID int64
	privateKey     []byte
	baseURL        string
	httpClient     *http.Client
}

// Option is a functional option for client configuration
type Option func(*config)

// WithToken authenticates requests with a personal access token
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithAppAuth authenticates requests as a GitHub App installation
func WithAppAuth(appID, installationID int64, privateKey []byte) Option {
	return func(c *config) {
		c.appID = appID
		c.installationID = installationID
		c.privateKey = privateKey
	}
}

// WithBaseURL overrides the REST API base URL (GitHub Enterprise or test servers)
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the base HTTP client. Its transport is wrapped by token or App
// authentication when either is configured.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) {
		c.httpClient = httpClient
	}
}

type client struct {
	githubClient *github.Client
}

// NewClient creates a new GitHub client
func NewClient(ctx context.Context, opts ...Option) (interfaces.GitHubClient, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient, err := cfg.newHTTPClient(ctx)
	if err != nil {
		return nil, err
	}

	githubClient := github.NewClient(httpClient)

	if cfg.baseURL != "" {
		baseURL, err := parseBaseURL(cfg.baseURL)
		if err != nil {
			return nil, err
		}
		githubClient.BaseURL = baseURL
	}

	return &client{
		githubClient: githubClient,
	}, nil
}

func (c *config) newHTTPClient(ctx context.Context) (*http.Client, error) {
	base := c.httpClient
	if base == nil {
		base = &http.Client{}
	}
	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	switch {
	case c.appID != 0:
		// Create GitHub App transport
		itr, err := ghinstallation.New(transport, c.appID, c.installationID, c.privateKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create GitHub App transport",
				goerr.V("app_id", c.appID),
				goerr.V("installation_id", c.installationID),
			)
		}
		if c.baseURL != "" {
			itr.BaseURL = strings.TrimSuffix(c.baseURL, "/")
		}
		return &http.Client{Transport: itr}, nil

	case c.token != "":
		// GitHub accepts the legacy "token" scheme for personal access tokens
		ts := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: c.token,
			TokenType:   "token",
		})
		ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: transport})
		return oauth2.NewClient(ctx, ts), nil

	default:
		return base, nil
	}
}

func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid GitHub API URL", goerr.V("url", raw))
	}
	return u, nil
}

// ListReleases returns one page of releases for owner/repo
func (c *client) ListReleases(ctx context.Context, owner, repo string, page, perPage int) ([]*model.Release, error) {
	logger := ctxlog.From(ctx)

	if perPage <= 0 || perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	logger.Debug("Requesting releases page",
		"owner", owner,
		"repo", repo,
		"page", page,
		"per_page", perPage,
	)

	releases, resp, err := c.githubClient.Repositories.ListReleases(ctx, owner, repo, &github.ListOptions{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return nil, responseError(err, resp, owner, repo, page)
	}

	result := make([]*model.Release, 0, len(releases))
	for _, r := range releases {
		result = append(result, toRelease(r))
	}

	return result, nil
}

// responseError converts a go-github failure into an error carrying the HTTP status and body text
func responseError(err error, resp *github.Response, owner, repo string, page int) error {
	opts := []goerr.Option{
		goerr.V("owner", owner),
		goerr.V("repo", repo),
		goerr.V("page", page),
	}

	var httpResp *http.Response
	if resp != nil {
		httpResp = resp.Response
	}
	var errResp *github.ErrorResponse
	if httpResp == nil && errors.As(err, &errResp) {
		httpResp = errResp.Response
	}

	// 2xx with an error means transport or decode failure, not an HTTP error
	if httpResp == nil || (httpResp.StatusCode >= 200 && httpResp.StatusCode < 300) {
		return goerr.Wrap(err, "failed to fetch releases", opts...)
	}

	body := readBody(httpResp)
	opts = append(opts,
		goerr.V("status", httpResp.StatusCode),
		goerr.V("body", body),
	)

	return goerr.Wrap(err, "failed to fetch releases: "+httpResp.Status+" - "+body, opts...)
}

func readBody(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func toRelease(r *github.RepositoryRelease) *model.Release {
	return &model.Release{
		CreatedAt: r.GetCreatedAt().Time,
		Name:      r.GetName(),
		TagName:   r.GetTagName(),
		HTMLURL:   r.GetHTMLURL(),
		Body:      r.GetBody(),
	}
}
