package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjatkinson/keid/pkg/keid"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	t.Setenv(ConfigEnvVar, p)
	return p
}

func TestConfigPath(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "/tmp/keid.toml")
		p, err := ConfigPath()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/keid.toml", p)
	})

	t.Run("xdg", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		p, err := ConfigPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/xdg", "keid", "config.toml"), p)
	})

	t.Run("home fallback", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(ConfigEnvVar, "")
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", home)
		p, err := ConfigPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "keid", "config.toml"), p)
	})
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, filepath.Join(t.TempDir(), "nope.toml"))
		f, err := Load()
		require.NoError(t, err)
		assert.Equal(t, File{}, f)
	})

	t.Run("full file", func(t *testing.T) {
		writeConfig(t, "encoding = \"base58\"\n\n[alias]\ng = \"gen\"\n")
		f, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "base58", f.Encoding)
		assert.Equal(t, map[string]string{"g": "gen"}, f.Alias)
	})

	t.Run("malformed", func(t *testing.T) {
		writeConfig(t, "encoding = \n")
		_, err := Load()
		require.Error(t, err)
	})
}

func TestResolveAlphabet(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		env     string
		config  string
		want    keid.Alphabet
		wantErr bool
	}{
		{"default", "", "", "", keid.Base64URL, false},
		{"config", "", "", `encoding = "base62"`, keid.Base62, false},
		{"env beats config", "", "base58", `encoding = "base62"`, keid.Base58, false},
		{"flag beats env", "base62", "base58", "", keid.Base62, false},
		{"bad flag", "base32", "", "", 0, true},
		{"bad env", "", "hex", "", 0, true},
		{"bad config", "", "", `encoding = "hex"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfig(t, tt.config)
			t.Setenv(EncodingEnvVar, tt.env)

			got, err := ResolveAlphabet(tt.flag)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadAliases(t *testing.T) {
	writeConfig(t, "[alias]\ng = \"gen\"\nx = \"decode\"\n")
	aliases, err := LoadAliases()
	require.NoError(t, err)
	assert.Equal(t, Aliases{"g": "gen", "x": "decode"}, aliases)

	t.Setenv(ConfigEnvVar, filepath.Join(t.TempDir(), "missing.toml"))
	aliases, err = LoadAliases()
	require.NoError(t, err)
	assert.Empty(t, aliases)
}

func TestInitConfig(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv(ConfigEnvVar, p)

	res, err := InitConfig(InitOptions{Encoding: "b58"})
	require.NoError(t, err)
	assert.Equal(t, p, res.Path)
	assert.False(t, res.Existed)

	f, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "base58", f.Encoding)
	assert.Equal(t, "gen", f.Alias["g"])

	_, err = InitConfig(InitOptions{})
	require.Error(t, err, "existing file needs --force")

	res, err = InitConfig(InitOptions{Force: true})
	require.NoError(t, err)
	assert.True(t, res.Existed)

	f, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "base64url", f.Encoding)

	_, err = InitConfig(InitOptions{Encoding: "hex", Force: true})
	require.Error(t, err)
}

func TestExpandUser(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandUser("~/x/config.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "config.toml"), got)

	got, err = ExpandUser("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)

	got, err = ExpandUser("/abs")
	require.NoError(t, err)
	assert.Equal(t, "/abs", got)

	got, err = ExpandUser("  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}
