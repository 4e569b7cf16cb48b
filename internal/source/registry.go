package source

import "fmt"

// Registry holds the adapters resolved at startup. The set is fixed
// for the process lifetime; enablement is re-checked per cycle.
type Registry struct {
	sources []DataSource
}

func NewRegistry(sources ...DataSource) *Registry {
	return &Registry{sources: sources}
}

func (r *Registry) All() []DataSource {
	if r == nil {
		return nil
	}
	out := make([]DataSource, len(r.sources))
	copy(out, r.sources)
	return out
}

func (r *Registry) Enabled() []DataSource {
	if r == nil {
		return nil
	}
	out := make([]DataSource, 0, len(r.sources))
	for _, s := range r.sources {
		if s.Enabled() {
			out = append(out, s)
		}
	}
	return out
}

func (r *Registry) ByName(name string) (DataSource, error) {
	if r != nil {
		for _, s := range r.sources {
			if s.Name() == name {
				return s, nil
			}
		}
	}
	return nil, fmt.Errorf("data source %q not found", name)
}
