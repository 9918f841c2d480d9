package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/relnotes/pkg/cli/config"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
	"github.com/m-mizutani/relnotes/pkg/domain/types"
)

func TestGitHub_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.GitHub
		wantErr bool
	}{
		{
			name: "Owner and repo set",
			cfg:  config.GitHub{Owner: "owner", Repo: "repo"},
		},
		{
			name: "Token is optional",
			cfg:  config.GitHub{Owner: "owner", Repo: "repo", Token: ""},
		},
		{
			name:    "Missing owner",
			cfg:     config.GitHub{Repo: "repo"},
			wantErr: true,
		},
		{
			name:    "Missing repo",
			cfg:     config.GitHub{Owner: "owner"},
			wantErr: true,
		},
		{
			name:    "App ID without private key",
			cfg:     config.GitHub{Owner: "owner", Repo: "repo", AppID: 1, AppInstallationID: 2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				gt.True(t, goerr.HasTag(err, types.ErrTagConfig))
			}
		})
	}
}

func TestGitHub_TargetYear(t *testing.T) {
	tests := []struct {
		year     string
		expected int
	}{
		{year: "2023", expected: 2023},
		{year: " 2025 ", expected: 2025},
		{year: "", expected: model.DefaultYear},
		{year: "abc", expected: model.DefaultYear},
		{year: "0", expected: model.DefaultYear},
		{year: "2023.5", expected: model.DefaultYear},
	}

	for _, tt := range tests {
		t.Run("year="+tt.year, func(t *testing.T) {
			cfg := config.GitHub{Year: tt.year}
			gt.Value(t, cfg.TargetYear()).Equal(tt.expected)
		})
	}
}

func TestGitHub_NewClient_PrivateKeyFileMissing(t *testing.T) {
	cfg := config.GitHub{
		Owner:             "owner",
		Repo:              "repo",
		AppID:             1,
		AppInstallationID: 2,
		AppPrivateKey:     filepath.Join(t.TempDir(), "missing.pem"),
	}

	_, err := cfg.NewClient(context.Background())
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagConfig))
}

func TestGitHub_NewClient_PrivateKeyFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.pem")
	gt.NoError(t, os.WriteFile(path, []byte("garbage"), 0600))

	cfg := config.GitHub{
		Owner:             "owner",
		Repo:              "repo",
		AppID:             1,
		AppInstallationID: 2,
		AppPrivateKey:     path,
	}

	_, err := cfg.NewClient(context.Background())
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("failed to create GitHub client")
}

func TestGitHub_NewClient_Token(t *testing.T) {
	cfg := config.GitHub{Owner: "owner", Repo: "repo", Token: "t"}
	client, err := cfg.NewClient(context.Background())
	gt.NoError(t, err)
	gt.Value(t, client).NotNil()
}

func TestGitHub_Flags_YearUsage(t *testing.T) {
	var cfg config.GitHub
	var found bool
	for _, f := range cfg.Flags() {
		sf, ok := f.(*cli.StringFlag)
		if !ok || sf.Name != "year" {
			continue
		}
		found = true
		gt.String(t, sf.Usage).Contains("UTC")
	}
	gt.True(t, found)
}
