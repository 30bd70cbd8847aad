package configstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store is the persisted CLI configuration. Its JSON keys match the flag
// and environment names so viper can read the file directly.
type Store struct {
	APIURL    string `json:"api-url,omitempty"`
	LogLevel  string `json:"log-level,omitempty"`
	LogFile   string `json:"log-file,omitempty"`
	NoticeTTL string `json:"notice-ttl,omitempty"`
	Output    string `json:"output,omitempty"`
}

func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("cannot determine user config dir")
	}
	return filepath.Join(dir, "csrent", "config.json"), nil
}

func Load(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("missing path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var st Store
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, err
	}
	for _, k := range Keys() {
		_ = st.Set(k, st.Get(k))
	}
	return &st, nil
}

// LoadOrEmpty is Load with a missing file treated as an empty config.
func LoadOrEmpty(path string) (*Store, error) {
	st, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Store{}, nil
	}
	return st, err
}

func SaveAtomic(path string, st *Store) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("missing path")
	}
	if st == nil {
		return errors.New("missing store")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (st *Store) fields() map[string]*string {
	return map[string]*string{
		"api-url":    &st.APIURL,
		"log-level":  &st.LogLevel,
		"log-file":   &st.LogFile,
		"notice-ttl": &st.NoticeTTL,
		"output":     &st.Output,
	}
}

// Keys lists the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, 5)
	for k := range (&Store{}).fields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (st *Store) Get(key string) string {
	if p, ok := st.fields()[key]; ok {
		return *p
	}
	return ""
}

// Set trims and stores value under key. An empty value unsets the key.
func (st *Store) Set(key, value string) error {
	p, ok := st.fields()[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	*p = strings.TrimSpace(value)
	return nil
}
