package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/showcase/pkg/core"
)

// SiteConfigFiles are probed in order at the site root. JSON is read with
// the YAML decoder.
var SiteConfigFiles = []string{"showcase.yaml", "showcase.yml", "showcase.json"}

// SiteConfig is the optional per-site configuration file.
type SiteConfig struct {
	Pattern  string                   `yaml:"pattern" json:"pattern,omitempty"`
	Language string                   `yaml:"language" json:"language,omitempty"`
	StateDir string                   `yaml:"state_dir" json:"state_dir,omitempty"`
	Catalogs map[string]CatalogConfig `yaml:"catalogs" json:"catalogs,omitempty"`
}

// CatalogConfig parameterizes one catalog page.
type CatalogConfig struct {
	// Pattern overrides the site pattern for this catalog.
	Pattern string `yaml:"pattern" json:"pattern,omitempty"`
	// Search lists the fields matched by the query.
	Search []string `yaml:"search" json:"search,omitempty"`
	// Facet names the field supplying facet values (default "tags").
	Facet string `yaml:"facet" json:"facet,omitempty"`
}

// LoadSiteConfig reads the first configuration file found at root.
// It reports false when there is none.
func LoadSiteConfig(root string) (SiteConfig, bool, error) {
	for _, name := range SiteConfigFiles {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return SiteConfig{}, false, fmt.Errorf("failed to read %s: %w", name, err)
		}
		var cfg SiteConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return SiteConfig{}, false, fmt.Errorf("invalid %s: %w", name, err)
		}
		return cfg, true, nil
	}
	return SiteConfig{}, false, nil
}

// apply fills options the caller did not set from the file.
func (c SiteConfig) apply(catalog string, o *options) error {
	cat := c.Catalogs[catalog]

	if o.pattern == "" {
		o.pattern = c.Pattern
		if cat.Pattern != "" {
			o.pattern = cat.Pattern
		}
	}
	if o.stateDir == "" {
		o.stateDir = c.StateDir
	}
	if o.language == language.Und && c.Language != "" {
		tag, err := language.Parse(c.Language)
		if err != nil {
			return fmt.Errorf("invalid language %q: %w", c.Language, err)
		}
		o.language = tag
	}
	if o.schema == nil && (len(cat.Search) > 0 || cat.Facet != "") {
		search := cat.Search
		if len(search) == 0 {
			search = []string{"title", "description", "tags"}
		}
		s := core.FieldSchema(search, cat.Facet)
		o.schema = &s
	}
	return nil
}
