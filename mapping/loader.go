package mapping

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var embeddedProfiles embed.FS

// ProfileRegistry holds loaded profiles.
type ProfileRegistry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewProfileRegistry creates a new profile registry with embedded profiles loaded.
func NewProfileRegistry() (*ProfileRegistry, error) {
	r := &ProfileRegistry{
		profiles: make(map[string]*Profile),
	}

	entries, err := embeddedProfiles.ReadDir("profiles")
	if err != nil {
		return nil, fmt.Errorf("reading embedded profiles: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := embeddedProfiles.ReadFile("profiles/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded profile %s: %w", entry.Name(), err)
		}

		profile, err := parseProfile(data)
		if err != nil {
			return nil, fmt.Errorf("embedded profile %s: %w", entry.Name(), err)
		}

		// Use filename without extension as profile name if not set
		if profile.Name == "" {
			profile.Name = strings.TrimSuffix(entry.Name(), ".yaml")
		}
		r.profiles[profile.Name] = profile
	}

	return r, nil
}

// LoadProfile loads a profile from a file path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	return parseProfile(data)
}

// LoadProfileFromString loads a profile from YAML content.
func LoadProfileFromString(content string) (*Profile, error) {
	return parseProfile([]byte(content))
}

func parseProfile(data []byte) (*Profile, error) {
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parsing profile YAML: %w", err)
	}
	for field, m := range profile.Fields {
		if m.Element == "" {
			return nil, fmt.Errorf("field %s: missing element", field)
		}
	}
	return &profile, nil
}

// Get retrieves a profile by name.
func (r *ProfileRegistry) Get(name string) (*Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[name]
	return p, ok
}

// MustGet retrieves a profile by name or returns an error naming it.
func (r *ProfileRegistry) MustGet(name string) (*Profile, error) {
	p, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("mapping profile %q not found", name)
	}
	return p, nil
}

// Register adds a profile to the registry. A profile with the same name is
// merged over the existing one.
func (r *ProfileRegistry) Register(profile *Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if base, ok := r.profiles[profile.Name]; ok {
		profile = MergeProfiles(base, profile)
	}
	r.profiles[profile.Name] = profile
}

// List returns all registered profile names in sorted order.
func (r *ProfileRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFromDirectory loads all profiles from a directory.
func (r *ProfileRegistry) LoadFromDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading profile directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		profile, err := LoadProfile(path)
		if err != nil {
			slog.Warn("skipping invalid mapping profile", "path", path, "err", err)
			continue
		}

		if profile.Name == "" {
			profile.Name = strings.TrimSuffix(entry.Name(), ".yaml")
		}
		r.Register(profile)
	}

	return nil
}
