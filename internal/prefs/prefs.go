package prefs

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const fileName = "dashboard.json"

// Dashboard is the form state restored on the next start.
type Dashboard struct {
	Keyword  string   `json:"keyword"`
	Regions  []string `json:"regions"`
	Limit    int      `json:"limit"`
	MinSold  int      `json:"min_sold"`
	Strategy string   `json:"strategy"`
}

// Dir is the default prefs directory.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "jade"), nil
}

func Save(dir string, d Dashboard) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, fileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load returns the saved state; ok is false when nothing was saved yet.
func Load(dir string) (d Dashboard, ok bool, err error) {
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Dashboard{}, false, nil
		}
		return Dashboard{}, false, err
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return Dashboard{}, false, err
	}
	return d, true, nil
}
