package engineering

import (
	"sort"
	"strings"
)

// Artifacts maps artifact names (e.g. "prd.md") to content. Last write wins.
type Artifacts map[string]string

// SaveArtifact inserts or overwrites an artifact.
func (p *Project) SaveArtifact(name, content string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return InvalidArgument("artifact 'name' is required")
	}
	if p.Artifacts == nil {
		p.Artifacts = Artifacts{}
	}
	p.Artifacts[name] = content
	p.touch()
	return nil
}

// Get returns an artifact's content and whether it exists.
func (a Artifacts) Get(name string) (string, bool) {
	content, ok := a[strings.TrimSpace(name)]
	return content, ok
}

// List returns artifact names in sorted order.
func (a Artifacts) List() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
