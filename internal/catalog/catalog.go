// Package catalog loads the reference catalog of common course numbering
// standards that course outlines are matched against.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/ccn"
)

// SupportedMajor is the catalog format major version this build reads.
const SupportedMajor = "v1"

//go:embed standards.yaml
var embedded []byte

var (
	ErrUnsupportedVersion = errors.New("unsupported catalog version")
	ErrDuplicateStandard  = errors.New("duplicate standard id")
)

// Catalog is an ordered, read-only list of standards. Order is authority
// order and is what the selector falls back on when scores tie.
type Catalog struct {
	version   string
	standards []ccn.Standard
	byID      map[string]int
}

type document struct {
	Version   string         `yaml:"version"`
	Standards []ccn.Standard `yaml:"standards"`
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	generic, err := jsonValue(raw)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := api.ValidateValue(Schema, generic); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if !semver.IsValid(doc.Version) || semver.Major(doc.Version) != SupportedMajor {
		return nil, fmt.Errorf("%w: %q (want %s.x.y)", ErrUnsupportedVersion, doc.Version, SupportedMajor)
	}

	c := &Catalog{
		version:   doc.Version,
		standards: doc.Standards,
		byID:      make(map[string]int, len(doc.Standards)),
	}
	for i, std := range doc.Standards {
		if err := std.Validate(); err != nil {
			return nil, fmt.Errorf("standard %d: %w", i+1, err)
		}
		key := normalizeID(std.ID)
		if _, dup := c.byID[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStandard, std.ID)
		}
		c.byID[key] = i
	}
	return c, nil
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return Parse(embedded)
})

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return defaultCatalog()
}

// Open loads the catalog at path, or the built-in one when path is empty.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Version returns the catalog's semantic version.
func (c *Catalog) Version() string {
	return c.version
}

// Len returns the number of standards.
func (c *Catalog) Len() int {
	return len(c.standards)
}

// Standards returns a copy of the standards in catalog order.
func (c *Catalog) Standards() []ccn.Standard {
	out := make([]ccn.Standard, len(c.standards))
	copy(out, c.standards)
	return out
}

// Lookup finds a standard by id. Case and inner spacing are ignored, so
// "engl  c1000" finds "ENGL C1000".
func (c *Catalog) Lookup(id string) (ccn.Standard, bool) {
	i, ok := c.byID[normalizeID(id)]
	if !ok {
		return ccn.Standard{}, false
	}
	return c.standards[i], true
}

// Discipline returns the standards of one discipline in catalog order.
func (c *Catalog) Discipline(discipline string) []ccn.Standard {
	var out []ccn.Standard
	for _, std := range c.standards {
		if strings.EqualFold(std.Discipline, discipline) {
			out = append(out, std)
		}
	}
	return out
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.Join(strings.Fields(id), " "))
}

// jsonValue converts a YAML-decoded tree into the shapes encoding/json
// produces, which is what the schema validator expects.
func jsonValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
