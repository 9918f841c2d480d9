package config

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/interfaces"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
	"github.com/m-mizutani/relnotes/pkg/domain/types"
	githubinfra "github.com/m-mizutani/relnotes/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// Usage lists the environment variables the fetch command reads
const Usage = "You need to define the following variables:\n" +
	" - TOKEN: token to access the repo\n" +
	" - OWNER: github owner\n" +
	" - REPO: github repository name\n" +
	" - YEAR: set to 2024 by default\n"

// GitHub holds GitHub configuration
type GitHub struct {
	Token string `masq:"secret"`
	Owner string
	Repo  string
	Year  string

	APIURL            string
	AppID             int64
	AppInstallationID int64
	AppPrivateKey     string `masq:"secret"`
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "token",
			Usage:       "GitHub token to access the repository",
			Destination: &c.Token,
			Sources:     cli.EnvVars("TOKEN"),
		},
		&cli.StringFlag{
			Name:        "owner",
			Usage:       "Repository owner",
			Destination: &c.Owner,
			Sources:     cli.EnvVars("OWNER"),
		},
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Repository name",
			Destination: &c.Repo,
			Sources:     cli.EnvVars("REPO"),
		},
		&cli.StringFlag{
			Name:        "year",
			Usage:       "Target year, matched against release creation time in UTC (defaults to 2024 when absent or not a number)",
			Destination: &c.Year,
			Sources:     cli.EnvVars("YEAR"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub REST API base URL (GitHub Enterprise)",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("RELNOTES_GITHUB_API_URL"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID, used instead of a token",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("RELNOTES_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.AppInstallationID,
			Sources:     cli.EnvVars("RELNOTES_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM content or file path)",
			Destination: &c.AppPrivateKey,
			Sources:     cli.EnvVars("RELNOTES_GITHUB_APP_PRIVATE_KEY"),
		},
	}
}

// Validate checks that owner and repo are set. The returned error is tagged with types.ErrTagConfig.
func (c *GitHub) Validate() error {
	var missing []string
	if c.Owner == "" {
		missing = append(missing, "OWNER")
	}
	if c.Repo == "" {
		missing = append(missing, "REPO")
	}

	if len(missing) > 0 {
		return goerr.New("missing required configuration",
			goerr.V("missing", strings.Join(missing, ",")),
			goerr.T(types.ErrTagConfig),
		)
	}

	if c.AppID != 0 && (c.AppInstallationID == 0 || c.AppPrivateKey == "") {
		return goerr.New("GitHub App authentication requires installation ID and private key",
			goerr.V("app_id", c.AppID),
			goerr.T(types.ErrTagConfig),
		)
	}

	return nil
}

// TargetYear parses Year, falling back to model.DefaultYear when absent, zero or not a number
func (c *GitHub) TargetYear() int {
	year, err := strconv.Atoi(strings.TrimSpace(c.Year))
	if err != nil || year == 0 {
		return model.DefaultYear
	}
	return year
}

// NewClient creates a GitHub client from the configuration
func (c *GitHub) NewClient(ctx context.Context) (interfaces.GitHubClient, error) {
	var opts []githubinfra.Option

	if c.APIURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.APIURL))
	}

	switch {
	case c.AppID != 0:
		key, err := c.privateKey()
		if err != nil {
			return nil, err
		}
		opts = append(opts, githubinfra.WithAppAuth(c.AppID, c.AppInstallationID, key))

	case c.Token != "":
		opts = append(opts, githubinfra.WithToken(c.Token))
	}

	client, err := githubinfra.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub client")
	}
	return client, nil
}

func (c *GitHub) privateKey() ([]byte, error) {
	if strings.HasPrefix(strings.TrimSpace(c.AppPrivateKey), "-----BEGIN") {
		return []byte(c.AppPrivateKey), nil
	}

	data, err := os.ReadFile(c.AppPrivateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read GitHub App private key",
			goerr.V("path", c.AppPrivateKey),
			goerr.T(types.ErrTagConfig),
		)
	}
	return data, nil
}
