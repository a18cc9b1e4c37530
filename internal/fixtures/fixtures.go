// Package fixtures holds the catalog data compiled into the binary: the
// movie list served by the static source and the concession menu.
package fixtures

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

//go:embed data/*.yaml
var files embed.FS

// Movies returns the embedded movie catalog in file order.
func Movies() ([]model.Movie, error) {
	var out []model.Movie
	if err := decode("data/movies.yaml", &out); err != nil {
		return nil, err
	}
	for i, m := range out {
		if m.ID == "" {
			return nil, fmt.Errorf("fixtures: movie %d has no id", i)
		}
	}
	return out, nil
}

// Snacks returns the concession catalog.
func Snacks() ([]model.SnackItem, error) {
	var out []model.SnackItem
	if err := decode("data/snacks.yaml", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decode(path string, v any) error {
	b, err := files.ReadFile(path)
	if err != nil {
		return fmt.Errorf("fixtures: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, v); err != nil {
		return fmt.Errorf("fixtures: parse %s: %w", path, err)
	}
	return nil
}
