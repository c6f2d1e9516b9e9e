// Package catalog holds the declarative per-model presentation presets:
// base scale factor, ambient light intensity, framing zoom and the model
// shown alongside in the second panel.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// Supported scene formats.
const (
	FormatGLTF = "gltf"
	FormatGLB  = "glb"
)

var (
	// ErrUnknownModel is returned when a model identifier has no preset.
	ErrUnknownModel = errors.New("unknown model")
	// ErrInvalidName is returned for identifiers that cannot form an asset path.
	ErrInvalidName = errors.New("invalid model name")
)

// Preset is the presentation data for one model. Zero ZoomFactor and
// AmbientIntensity mean "use the viewer default".
type Preset struct {
	Name             string  `yaml:"-"`
	Label            string  `yaml:"label"`
	ScaleFactor      float32 `yaml:"scale_factor"`
	AmbientIntensity float32 `yaml:"ambient_intensity"`
	ZoomFactor       float32 `yaml:"zoom_factor"`
	Pair             string  `yaml:"pair"`
	Format           string  `yaml:"format"`
}

// DisplayLabel returns the label, falling back to the identifier.
func (p Preset) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return strings.ReplaceAll(p.Name, "_", " ")
}

type document struct {
	Models map[string]Preset `yaml:"models"`
}

// Catalog is a set of presets keyed by model identifier. It is safe for
// concurrent use so a file watcher may replace its contents.
type Catalog struct {
	mu      sync.RWMutex
	presets map[string]Preset
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{presets: make(map[string]Preset)}
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}
	return c, nil
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	c := New()
	for name, p := range doc.Models {
		if err := checkName(name); err != nil {
			return nil, err
		}
		p.Name = name
		p, err := normalize(p)
		if err != nil {
			return nil, err
		}
		c.presets[name] = p
	}
	return c, nil
}

// LoadFile reads a catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return c, nil
}

// Load returns the built-in catalog overlaid with the presets from path.
// An empty path yields the built-in catalog alone.
func Load(path string) (*Catalog, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path != "" {
		user, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		c.Merge(user)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func normalize(p Preset) (Preset, error) {
	if p.ScaleFactor == 0 {
		p.ScaleFactor = 1
	}
	if p.ScaleFactor < 0 || p.ZoomFactor < 0 || p.AmbientIntensity < 0 {
		return p, fmt.Errorf("model %s: factors must not be negative", p.Name)
	}
	p.Format = strings.ToLower(strings.TrimPrefix(p.Format, "."))
	switch p.Format {
	case "":
		p.Format = FormatGLTF
	case FormatGLTF, FormatGLB:
	default:
		return p, fmt.Errorf("model %s: unsupported format %q", p.Name, p.Format)
	}
	return p, nil
}

// Merge overlays other's presets onto c, replacing entries with the same name.
func (c *Catalog) Merge(other *Catalog) {
	if other == c {
		return
	}
	other.mu.RLock()
	defer other.mu.RUnlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, p := range other.presets {
		c.presets[name] = p
	}
}

// Replace swaps in other's presets wholesale.
func (c *Catalog) Replace(other *Catalog) {
	other.mu.RLock()
	presets := make(map[string]Preset, len(other.presets))
	for name, p := range other.presets {
		presets[name] = p
	}
	other.mu.RUnlock()

	c.mu.Lock()
	c.presets = presets
	c.mu.Unlock()
}

// Validate checks cross-references between presets.
func (c *Catalog) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var errs []error
	for _, name := range c.sortedNames() {
		p := c.presets[name]
		if p.Pair == "" {
			continue
		}
		if _, ok := c.presets[p.Pair]; !ok {
			errs = append(errs, fmt.Errorf("model %s: pair %s: %w", name, p.Pair, ErrUnknownModel))
		}
	}
	return errors.Join(errs...)
}

// Lookup returns the preset for name.
func (c *Catalog) Lookup(name string) (Preset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return p, nil
}

// PairOf returns the identifier shown in the second panel for name: the
// preset's pair, or name itself when it has none.
func (c *Catalog) PairOf(name string) (string, error) {
	p, err := c.Lookup(name)
	if err != nil {
		return "", err
	}
	if p.Pair == "" {
		return name, nil
	}
	return p.Pair, nil
}

// AssetPath returns models/<name>/scene.<format> for name.
func (c *Catalog) AssetPath(name string) (string, error) {
	p, err := c.Lookup(name)
	if err != nil {
		return "", err
	}
	return AssetPath(name, p.Format)
}

// AssetPath builds the conventional asset path for a model identifier.
func AssetPath(name, format string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if format == "" {
		format = FormatGLTF
	}
	return path.Join("models", name, "scene."+format), nil
}

// Names returns all identifiers in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sortedNames()
}

// Len returns the number of presets.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.presets)
}

func (c *Catalog) sortedNames() []string {
	names := make([]string, 0, len(c.presets))
	for name := range c.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
