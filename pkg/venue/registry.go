package venue

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Venue describes a single venue from the registry file
type Venue struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Capacity  int     `yaml:"capacity"`
	Timezone  string  `yaml:"timezone"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// HasCoordinates reports whether the venue has a configured location
func (v Venue) HasCoordinates() bool {
	return v.Latitude != 0 || v.Longitude != 0
}

// registryFile is the on-disk shape of the venue registry
type registryFile struct {
	Venues []Venue `yaml:"venues"`
}

// Registry resolves venue IDs to their configured metadata.
// "Last night" reporting uses the venue's own timezone, so a venue
// missing from the registry falls back to the configured defaults.
type Registry struct {
	venues          map[string]Venue
	defaultCapacity int
	defaultLocation *time.Location
}

// LoadRegistry loads the venue registry from a YAML file
func LoadRegistry(path string, defaultCapacity int, defaultTimezone string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read venue registry: %w", err)
	}

	return ParseRegistry(data, defaultCapacity, defaultTimezone)
}

// ParseRegistry builds a registry from raw YAML data
func ParseRegistry(data []byte, defaultCapacity int, defaultTimezone string) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse venue registry YAML: %w", err)
	}

	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid default timezone %q: %w", defaultTimezone, err)
	}

	venues := make(map[string]Venue, len(file.Venues))
	for _, v := range file.Venues {
		if v.ID == "" {
			return nil, fmt.Errorf("venue registry entry missing id (name=%q)", v.Name)
		}
		if v.Timezone != "" {
			if _, err := time.LoadLocation(v.Timezone); err != nil {
				return nil, fmt.Errorf("venue %s has invalid timezone %q: %w", v.ID, v.Timezone, err)
			}
		}
		if _, exists := venues[v.ID]; exists {
			return nil, fmt.Errorf("duplicate venue id %s in registry", v.ID)
		}
		venues[v.ID] = v
	}

	return &Registry{
		venues:          venues,
		defaultCapacity: defaultCapacity,
		defaultLocation: loc,
	}, nil
}

// EmptyRegistry returns a registry with no venues, using only defaults.
// An unparseable default timezone falls back to UTC.
func EmptyRegistry(defaultCapacity int, defaultTimezone string) *Registry {
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return &Registry{
		venues:          map[string]Venue{},
		defaultCapacity: defaultCapacity,
		defaultLocation: loc,
	}
}

// Get returns the venue with the given ID
func (r *Registry) Get(id string) (Venue, bool) {
	v, ok := r.venues[id]
	return v, ok
}

// Capacity returns the configured capacity for a venue, or the default
func (r *Registry) Capacity(id string) int {
	if v, ok := r.venues[id]; ok && v.Capacity > 0 {
		return v.Capacity
	}
	return r.defaultCapacity
}

// Location returns the venue's timezone, or the default location.
// Registry entries are validated at load time, so the parse here
// only falls through for venues not in the registry.
func (r *Registry) Location(id string) *time.Location {
	if v, ok := r.venues[id]; ok && v.Timezone != "" {
		if loc, err := time.LoadLocation(v.Timezone); err == nil {
			return loc
		}
	}
	return r.defaultLocation
}

// Len returns the number of registered venues
func (r *Registry) Len() int {
	return len(r.venues)
}
