package config

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
	"github.com/m-mizutani/relnotes/pkg/domain/types"
	"github.com/m-mizutani/relnotes/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Report holds release filtering and report configuration
type Report struct {
	Categories    []string
	CategoryFile  string
	HeadingPrefix string
	PerPage       int
	MaxPages      int
	Color         bool
}

// Flags returns CLI flags for report configuration
func (c *Report) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "category",
			Aliases:     []string{"c"},
			Usage:       "Category to keep, matched case-insensitively against section headings (default: Customer Value, Features; with --category-file: every file category)",
			Destination: &c.Categories,
			Sources:     cli.EnvVars("RELNOTES_CATEGORIES"),
		},
		&cli.StringFlag{
			Name:        "category-file",
			Usage:       "TOML or YAML file defining categories and their matching labels",
			Destination: &c.CategoryFile,
			Sources:     cli.EnvVars("RELNOTES_CATEGORY_FILE"),
		},
		&cli.StringFlag{
			Name:        "heading-prefix",
			Usage:       "Prefix of section heading lines in release bodies",
			Value:       model.DefaultHeadingPrefix,
			Destination: &c.HeadingPrefix,
			Sources:     cli.EnvVars("RELNOTES_HEADING_PREFIX"),
		},
		&cli.IntFlag{
			Name:        "per-page",
			Usage:       "Releases requested per page (1-100)",
			Value:       usecase.DefaultPerPage,
			Destination: &c.PerPage,
			Sources:     cli.EnvVars("RELNOTES_PER_PAGE"),
		},
		&cli.IntFlag{
			Name:        "max-pages",
			Usage:       "Stop after this many pages (0 for unlimited)",
			Destination: &c.MaxPages,
			Sources:     cli.EnvVars("RELNOTES_MAX_PAGES"),
		},
		&cli.BoolFlag{
			Name:        "color",
			Usage:       "Colorize report labels",
			Destination: &c.Color,
			Sources:     cli.EnvVars("RELNOTES_COLOR"),
		},
	}
}

// SectionFilter builds the body filter from the configured categories
func (c *Report) SectionFilter() (*model.SectionFilter, error) {
	categories, err := c.categories()
	if err != nil {
		return nil, err
	}
	return model.NewSectionFilter(c.HeadingPrefix, categories), nil
}

// categories resolves the allow-list. Without a category file every name becomes a
// category. With a file, names select the file categories whose name contains them.
func (c *Report) categories() ([]model.Category, error) {
	names := nonEmpty(c.Categories)

	if c.CategoryFile == "" {
		if len(names) == 0 {
			return model.DefaultCategories(), nil
		}
		categories := make([]model.Category, 0, len(names))
		for _, name := range names {
			categories = append(categories, model.Category{Name: name})
		}
		return categories, nil
	}

	loaded, err := LoadCategories(c.CategoryFile)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return loaded, nil
	}

	var selected []model.Category
	for _, cat := range loaded {
		for _, name := range names {
			if strings.Contains(strings.ToLower(cat.Name), strings.ToLower(name)) {
				selected = append(selected, cat)
				break
			}
		}
	}

	if len(selected) == 0 {
		return nil, goerr.New("no category in file matches the selected categories",
			goerr.V("file", c.CategoryFile),
			goerr.V("categories", strings.Join(names, ",")),
			goerr.T(types.ErrTagConfig),
		)
	}

	return selected, nil
}

func nonEmpty(values []string) []string {
	var result []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
