package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed bundles.yaml
var defaultBundles []byte

var (
	ErrUnknownBundle = errors.New("unknown bundle")

	// CodePattern is the shape of a bundle code, e.g. "10GB".
	CodePattern = regexp.MustCompile(`^\d+GB$`)
)

type Bundle struct {
	Code  string `yaml:"code"`
	Price string `yaml:"price"`
}

// Label is the button text shown to the user: "10 GB - GHC 72".
func (b Bundle) Label() string {
	size := strings.TrimSuffix(b.Code, "GB")
	return fmt.Sprintf("%s GB - %s", size, b.Price)
}

// Catalog is an immutable, ordered set of bundles.
type Catalog struct {
	bundles []Bundle
	byCode  map[string]Bundle
}

type document struct {
	Bundles []Bundle `yaml:"bundles"`
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultBundles)
}

// Load reads a catalog from path, or the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(doc.Bundles)
}

// New validates bundles and freezes them in the given order.
func New(bundles []Bundle) (*Catalog, error) {
	if len(bundles) == 0 {
		return nil, errors.New("catalog: no bundles defined")
	}

	c := &Catalog{
		bundles: make([]Bundle, 0, len(bundles)),
		byCode:  make(map[string]Bundle, len(bundles)),
	}

	for _, b := range bundles {
		if !CodePattern.MatchString(b.Code) {
			return nil, fmt.Errorf("catalog: invalid bundle code %q", b.Code)
		}
		if strings.TrimSpace(b.Price) == "" {
			return nil, fmt.Errorf("catalog: bundle %s has no price", b.Code)
		}
		if _, dup := c.byCode[b.Code]; dup {
			return nil, fmt.Errorf("catalog: duplicate bundle code %s", b.Code)
		}
		c.bundles = append(c.bundles, b)
		c.byCode[b.Code] = b
	}

	return c, nil
}

// Lookup returns the bundle for code or ErrUnknownBundle.
func (c *Catalog) Lookup(code string) (Bundle, error) {
	b, ok := c.byCode[code]
	if !ok {
		return Bundle{}, fmt.Errorf("%w: %q", ErrUnknownBundle, code)
	}
	return b, nil
}

// Bundles returns a copy of the catalog in display order.
func (c *Catalog) Bundles() []Bundle {
	out := make([]Bundle, len(c.bundles))
	copy(out, c.bundles)
	return out
}
