package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/sjatkinson/keid/pkg/keid"
)

type InitOptions struct {
	Encoding string
	Force    bool
}

type InitResult struct {
	Path    string
	Existed bool // true if the config file existed before init
}

// InitConfig writes a starter config.toml. An existing file is left alone
// unless Force is set.
func InitConfig(opts InitOptions) (InitResult, error) {
	cfgPath, err := ConfigPath()
	if err != nil {
		return InitResult{}, err
	}

	existed := fileExists(cfgPath)
	if existed && !opts.Force {
		return InitResult{}, fmt.Errorf(
			"config file %s already exists (use --force to overwrite)",
			cfgPath,
		)
	}

	encoding := keid.Base64URL
	if opts.Encoding != "" {
		encoding, err = keid.ParseAlphabet(opts.Encoding)
		if err != nil {
			return InitResult{}, err
		}
	}

	f := File{
		Encoding: encoding.String(),
		Alias: map[string]string{
			"g": "gen",
			"e": "encode",
			"d": "decode",
		},
	}
	data, err := toml.Marshal(f)
	if err != nil {
		return InitResult{}, err
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return InitResult{}, err
	}
	if err := os.WriteFile(cfgPath, data, 0o644); err != nil {
		return InitResult{}, err
	}

	return InitResult{Path: cfgPath, Existed: existed}, nil
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && st.Mode().IsRegular()
}
