package state

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/csrent/csrent-cli/internal/resource"
)

func DefaultPath() (string, error) {
	// Prefer OS config dir; falls back to HOME.
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		h, herr := os.UserHomeDir()
		if herr != nil {
			return "", errors.New("cannot determine config dir")
		}
		dir = filepath.Join(h, ".config")
	}
	return filepath.Join(dir, "csrent", "mock", "state.json"), nil
}

func Load(path string) (*State, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s State
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	s.Normalize()
	return &s, nil
}

func SaveAtomic(path string, s *State) error {
	if s == nil {
		return errors.New("missing state")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	s.UpdatedAt = time.Now().UTC()
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// SeedDefault returns a small demo dataset.
func SeedDefault() *State {
	s := &State{Version: CurrentVersion, NextID: 1, UpdatedAt: time.Now().UTC()}
	for _, sp := range []resource.Space{
		{Name: "Sala Norte", Description: "Meeting room with projector", Location: "Piso 1", Capacity: 12, Price: 45, Available: true},
		{Name: "Auditorio", Description: "Main auditorium", Location: "Planta baja", Capacity: 120, Price: 350, Available: true},
		{Name: "Cabina 3", Description: "Quiet single desk", Location: "Piso 2", Capacity: 1, Price: 12.5, Available: false},
	} {
		sp.ID = s.AllocID()
		s.Spaces = append(s.Spaces, sp)
	}
	for _, u := range []StoredUser{
		{User: resource.User{Name: "Admin", Email: "admin@csrent.test", Role: "Admin"}, Password: "admin"},
		{User: resource.User{Name: "Lucía Pérez", Email: "lucia@csrent.test", Role: "Moderador"}, Password: "lucia"},
		{User: resource.User{Name: "Mario Díaz", Email: "mario@csrent.test", Role: "Consulta"}, Password: "mario"},
	} {
		u.ID = s.AllocID()
		s.Users = append(s.Users, u)
	}
	return s
}
