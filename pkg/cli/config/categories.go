package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
	"github.com/m-mizutani/relnotes/pkg/domain/types"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// categoryFile is the on-disk category mapping. YAML files follow the release-drafter
// layout (`categories: [{title, labels}]`); labels are PR labels and are ignored.
type categoryFile struct {
	Categories []model.Category `toml:"categories" yaml:"categories"`
}

// LoadCategories reads a category mapping from a .toml, .yml or .yaml file
func LoadCategories(path string) ([]model.Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read category file",
			goerr.V("path", path),
			goerr.T(types.ErrTagConfig),
		)
	}

	var file categoryFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, goerr.Wrap(err, "failed to parse TOML category file",
				goerr.V("path", path),
				goerr.T(types.ErrTagConfig),
			)
		}

	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, goerr.Wrap(err, "failed to parse YAML category file",
				goerr.V("path", path),
				goerr.T(types.ErrTagConfig),
			)
		}

	default:
		return nil, goerr.New("unsupported category file extension",
			goerr.V("path", path),
			goerr.V("ext", ext),
			goerr.T(types.ErrTagConfig),
		)
	}

	var categories []model.Category
	for _, c := range file.Categories {
		if c.Name == "" && len(c.Match) == 0 {
			continue
		}
		categories = append(categories, c)
	}

	if len(categories) == 0 {
		return nil, goerr.New("category file defines no categories",
			goerr.V("path", path),
			goerr.T(types.ErrTagConfig),
		)
	}

	return categories, nil
}
