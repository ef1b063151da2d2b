package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ErrUnknownProject is returned when a name is not in the catalog.
var ErrUnknownProject = errors.New("unknown project")

// Catalog is an ordered, read-only set of project templates.
type Catalog struct {
	projects []Project
	byName   map[string]int
}

// Progress is what a catalog needs to know about a website to answer
// availability queries.
type Progress interface {
	Started(name string) bool
	Completed(name string) bool
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Projects []Project `yaml:"projects"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(doc.Projects)
}

// New builds a catalog from templates, checking names, dependencies and
// role/score references.
func New(projects []Project) (*Catalog, error) {
	c := &Catalog{
		projects: make([]Project, len(projects)),
		byName:   make(map[string]int, len(projects)),
	}
	copy(c.projects, projects)

	for i, p := range c.projects {
		if p.Name == "" {
			return nil, fmt.Errorf("project %d: missing name", i)
		}
		if _, dup := c.byName[p.Name]; dup {
			return nil, fmt.Errorf("project %q: duplicate name", p.Name)
		}
		c.byName[p.Name] = i
	}

	for _, p := range c.projects {
		for _, dep := range p.Dependencies {
			if _, ok := c.byName[dep]; !ok {
				return nil, fmt.Errorf("project %q: dependency %q: %w", p.Name, dep, ErrUnknownProject)
			}
		}
		for role := range p.RequiredRoles {
			if !role.Valid() {
				return nil, fmt.Errorf("project %q: unknown role %q", p.Name, role)
			}
		}
		if p.TargetScore != "" && !validScore(p.TargetScore) {
			return nil, fmt.Errorf("project %q: unknown target score %q", p.Name, p.TargetScore)
		}
		if m := p.Monetization; m != nil && (m.MinRate > m.MaxRate || m.DefaultRate < m.MinRate || m.DefaultRate > m.MaxRate) {
			return nil, fmt.Errorf("project %q: invalid monetization band", p.Name)
		}
		if m := p.Marketing; m != nil && (m.MinSpend > m.MaxSpend || m.DefaultSpend < m.MinSpend || m.DefaultSpend > m.MaxSpend) {
			return nil, fmt.Errorf("project %q: invalid marketing band", p.Name)
		}
	}
	return c, nil
}

func validScore(k ScoreKey) bool {
	for _, s := range ScoreKeys {
		if s == k {
			return true
		}
	}
	return false
}

// Get returns the template with the given name.
func (c *Catalog) Get(name string) (Project, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Project{}, false
	}
	return c.projects[i], true
}

// All returns every template in catalog order.
func (c *Catalog) All() []Project {
	out := make([]Project, len(c.projects))
	copy(out, c.projects)
	return out
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.projects)
}

// Available returns templates that are neither started nor completed and
// whose dependencies are all completed, in catalog order.
func (c *Catalog) Available(p Progress) []Project {
	var out []Project
	for _, proj := range c.projects {
		if p.Started(proj.Name) || p.Completed(proj.Name) {
			continue
		}
		ready := true
		for _, dep := range proj.Dependencies {
			if !p.Completed(dep) {
				ready = false
				break
			}
		}
		if ready {
			out = append(out, proj)
		}
	}
	return out
}

// Filter returns templates matching pred, in catalog order.
func (c *Catalog) Filter(pred func(Project) bool) []Project {
	var out []Project
	for _, p := range c.projects {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}
