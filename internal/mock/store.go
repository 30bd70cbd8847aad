// Package mock implements the csrent REST API in memory for local
// development and tests.
package mock

import (
	"errors"
	"os"
	"sync"

	"github.com/csrent/csrent-cli/internal/resource"
	"github.com/csrent/csrent-cli/internal/state"
)

var ErrNotFound = errors.New("not found")

// Store guards a state.State and writes it back to Path after every
// mutation when Path is set.
type Store struct {
	Path string

	mu sync.Mutex
	st *state.State
}

// Open loads the state at path, seeding and saving demo data when the file
// does not exist yet. An empty path gives a seeded in-memory store.
func Open(path string) (*Store, error) {
	if path == "" {
		return NewMemory(state.SeedDefault()), nil
	}
	st, err := state.Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		st = state.SeedDefault()
		if err := state.SaveAtomic(path, st); err != nil {
			return nil, err
		}
	}
	return &Store{Path: path, st: st}, nil
}

func NewMemory(st *state.State) *Store {
	if st == nil {
		st = &state.State{}
	}
	st.Normalize()
	return &Store{st: st}
}

func (s *Store) save() error {
	if s.Path == "" {
		return nil
	}
	return state.SaveAtomic(s.Path, s.st)
}

func (s *Store) ListSpaces() []resource.Space {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]resource.Space{}, s.st.Spaces...)
}

func (s *Store) GetSpace(id resource.ID) (resource.Space, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.spaceIndex(id)
	if i < 0 {
		return resource.Space{}, ErrNotFound
	}
	return s.st.Spaces[i], nil
}

func (s *Store) CreateSpace(in resource.SpaceInput) (resource.Space, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp := spaceFrom(s.st.AllocID(), in)
	s.st.Spaces = append(s.st.Spaces, sp)
	return sp, s.save()
}

func (s *Store) UpdateSpace(id resource.ID, in resource.SpaceInput) (resource.Space, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.spaceIndex(id)
	if i < 0 {
		return resource.Space{}, ErrNotFound
	}
	s.st.Spaces[i] = spaceFrom(id, in)
	return s.st.Spaces[i], s.save()
}

func (s *Store) DeleteSpace(id resource.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.spaceIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	s.st.Spaces = append(s.st.Spaces[:i], s.st.Spaces[i+1:]...)
	return s.save()
}

func (s *Store) spaceIndex(id resource.ID) int {
	for i, sp := range s.st.Spaces {
		if sp.ID == id {
			return i
		}
	}
	return -1
}

func spaceFrom(id resource.ID, in resource.SpaceInput) resource.Space {
	return resource.Space{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Location:    in.Location,
		Capacity:    in.Capacity,
		Price:       in.Price,
		Available:   in.Available,
	}
}

// Users are returned without their stored password.

func (s *Store) ListUsers() []resource.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]resource.User, 0, len(s.st.Users))
	for _, u := range s.st.Users {
		out = append(out, u.User)
	}
	return out
}

func (s *Store) GetUser(id resource.ID) (resource.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndex(id)
	if i < 0 {
		return resource.User{}, ErrNotFound
	}
	return s.st.Users[i].User, nil
}

func (s *Store) CreateUser(in resource.UserInput) (resource.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := state.StoredUser{
		User:     resource.User{ID: s.st.AllocID(), Name: in.Name, Email: in.Email, Role: in.Role},
		Password: in.Password,
	}
	s.st.Users = append(s.st.Users, u)
	return u.User, s.save()
}

// UpdateUser keeps the stored password when in.Password is empty.
func (s *Store) UpdateUser(id resource.ID, in resource.UserInput) (resource.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndex(id)
	if i < 0 {
		return resource.User{}, ErrNotFound
	}
	u := &s.st.Users[i]
	u.Name, u.Email, u.Role = in.Name, in.Email, in.Role
	if in.Password != "" {
		u.Password = in.Password
	}
	return u.User, s.save()
}

func (s *Store) DeleteUser(id resource.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	s.st.Users = append(s.st.Users[:i], s.st.Users[i+1:]...)
	return s.save()
}

// CheckPassword reports whether password matches the stored one for id.
func (s *Store) CheckPassword(id resource.ID, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndex(id)
	return i >= 0 && s.st.Users[i].Password == password
}

func (s *Store) userIndex(id resource.ID) int {
	for i, u := range s.st.Users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
