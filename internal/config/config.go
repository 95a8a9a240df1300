package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/sjatkinson/keid/pkg/keid"
)

const (
	AppDirName = "keid"

	// Env var for overriding the config file location.
	ConfigEnvVar = "KEID_CONFIG"

	// Env var for the default alphabet (command flags still win).
	EncodingEnvVar = "KEID_ENCODING"
)

// File is the on-disk shape of config.toml:
//
//	encoding = "base58"
//
//	[alias]
//	g = "gen"
type File struct {
	Encoding string            `toml:"encoding,omitempty"`
	Alias    map[string]string `toml:"alias,omitempty"`
}

// ConfigPath returns the config file path:
//
//	$KEID_CONFIG
//
// or
//
//	$XDG_CONFIG_HOME/keid/config.toml
//
// or
//
//	~/.config/keid/config.toml
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(ConfigEnvVar)); p != "" {
		return ExpandUser(p)
	}

	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}

	return filepath.Join(base, AppDirName, "config.toml"), nil
}

// Load reads config.toml. A missing file is not an error and yields the
// zero File; malformed TOML is.
func Load() (File, error) {
	cfgPath, err := ConfigPath()
	if err != nil {
		return File{}, err
	}

	data, err := os.ReadFile(cfgPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return File{}, nil
		}
		return File{}, err
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse %s: %w", cfgPath, err)
	}
	return f, nil
}

// ResolveAlphabet picks the alphabet based on precedence:
// command flag > env var > config > base64url
func ResolveAlphabet(flagValue string) (keid.Alphabet, error) {
	// 1) Flag
	if v := strings.TrimSpace(flagValue); v != "" {
		return keid.ParseAlphabet(v)
	}

	// 2) Env var
	if env := strings.TrimSpace(os.Getenv(EncodingEnvVar)); env != "" {
		a, err := keid.ParseAlphabet(env)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", EncodingEnvVar, err)
		}
		return a, nil
	}

	// 3) Config
	f, err := Load()
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(f.Encoding) != "" {
		a, err := keid.ParseAlphabet(f.Encoding)
		if err != nil {
			return 0, fmt.Errorf("config encoding: %w", err)
		}
		return a, nil
	}

	// 4) Default
	return keid.Base64URL, nil
}

// ExpandUser expands a leading "~/" to the user home directory.
// If the path doesn't start with "~", it returns it unchanged.
func ExpandUser(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if p == "~" {
			return home, nil
		}
		return filepath.Join(home, p[2:]), nil
	}
	return p, nil
}

// Aliases is a map of alias name to target command.
type Aliases map[string]string

// LoadAliases returns aliases from the [alias] section of config.toml.
// Returns an empty map (not an error) if:
//   - Config file doesn't exist
//   - [alias] section doesn't exist
//   - [alias] section is empty
//
// Returns an error only if the config file exists but is malformed TOML.
func LoadAliases() (Aliases, error) {
	f, err := Load()
	if err != nil {
		return nil, err
	}

	// Return a copy to avoid external modification
	aliases := make(Aliases, len(f.Alias))
	for k, v := range f.Alias {
		aliases[k] = v
	}
	return aliases, nil
}
