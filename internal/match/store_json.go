package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// JSONStore persists the profile mapping as a single JSON object keyed by
// company name, the format the offline preprocessing pipeline writes.
type JSONStore struct {
	Path string
}

// NewJSONStore creates a store backed by the given file path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{Path: path}
}

// Load reads every profile from the file. A missing file is not an error: it
// yields an empty set so the service can start before profiles are built.
func (s *JSONStore) Load(ctx context.Context) ([]CompanyProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("load profiles %s: %w", s.Path, err)
	}

	var byName map[string]json.RawMessage
	if err := json.Unmarshal(data, &byName); err != nil {
		return nil, fmt.Errorf("load profiles %s: %w", s.Path, err)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	profiles := make([]CompanyProfile, 0, len(names))
	for _, name := range names {
		// Experience fields absent from hand-edited files get the same
		// read-time defaults the aggregation applies.
		profile := CompanyProfile{
			AvgExperienceRequired: defaultAvgExperience,
			MinExperience:         defaultMinExperience,
			MaxExperience:         defaultMaxExperience,
		}
		if err := json.Unmarshal(byName[name], &profile); err != nil {
			return nil, fmt.Errorf("load profiles %s: company %q: %w", s.Path, name, err)
		}
		if profile.CompanyName == "" {
			profile.CompanyName = name
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// Save writes the full mapping, replacing any previous content.
func (s *JSONStore) Save(ctx context.Context, profiles []CompanyProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	byName := make(map[string]CompanyProfile, len(profiles))
	for _, profile := range profiles {
		byName[profile.CompanyName] = profile
	}

	data, err := json.MarshalIndent(byName, "", "  ")
	if err != nil {
		return fmt.Errorf("save profiles %s: %w", s.Path, err)
	}

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save profiles %s: %w", s.Path, err)
		}
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("save profiles %s: %w", s.Path, err)
	}
	return nil
}
