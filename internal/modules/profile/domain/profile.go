package domain

import (
	"fmt"
	"strings"
)

const (
	SchemaVersion = 1

	// DefaultProfileName is given to the profile created on first run.
	DefaultProfileName = "Default"
)

// Profile is one tracked identity. IsActive records whether the profile was
// made active when it was created; the selection that actually matters
// lives in Directory.ActiveProfileID.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	CreatedAt int64  `json:"createdAt"`
	IsActive  bool   `json:"isActive"`
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("profile id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("profile name is required")
	}
	return nil
}

// Directory is the persisted set of profiles, insertion order preserved.
// The JSON field names match the storage layout this data has always used.
type Directory struct {
	Profiles        []Profile `json:"users"`
	ActiveProfileID string    `json:"activeUserId,omitempty"`
}

func EmptyDirectory() Directory {
	return Directory{Profiles: []Profile{}}
}

func (d Directory) IndexOf(id string) int {
	for i, profile := range d.Profiles {
		if profile.ID == id {
			return i
		}
	}
	return -1
}

// Active resolves ActiveProfileID, tolerating a dangling reference by
// reporting no active profile instead of failing.
func (d Directory) Active() (Profile, bool) {
	if d.ActiveProfileID == "" {
		return Profile{}, false
	}
	idx := d.IndexOf(d.ActiveProfileID)
	if idx < 0 {
		return Profile{}, false
	}
	return d.Profiles[idx], true
}
