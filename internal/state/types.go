package state

import (
	"time"

	"github.com/csrent/csrent-cli/internal/resource"
)

const CurrentVersion = 1

// State is the persisted dataset of the development API server.
type State struct {
	Version   int              `json:"version"`
	NextID    int64            `json:"nextId"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Spaces    []resource.Space `json:"spaces"`
	Users     []StoredUser     `json:"users"`
}

// StoredUser keeps the password next to the public fields. It is never
// served back to clients.
type StoredUser struct {
	resource.User
	Password string `json:"password,omitempty"`
}

// AllocID returns the next unused record id.
func (s *State) AllocID() resource.ID {
	if s.NextID < 1 {
		s.NextID = 1
	}
	id := resource.ID(s.NextID)
	s.NextID++
	return id
}

// Normalize repairs a state read from an older or hand-edited file.
func (s *State) Normalize() {
	if s.Spaces == nil {
		s.Spaces = []resource.Space{}
	}
	if s.Users == nil {
		s.Users = []StoredUser{}
	}
	highest := int64(0)
	for _, sp := range s.Spaces {
		highest = maxInt64(highest, int64(sp.ID))
	}
	for _, u := range s.Users {
		highest = maxInt64(highest, int64(u.ID))
	}
	if s.NextID <= highest {
		s.NextID = highest + 1
	}
	if s.Version == 0 {
		s.Version = CurrentVersion
	}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
