package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjatkinson/keid/internal/config"
	"github.com/sjatkinson/keid/pkg/keid"
)

const (
	refID   = "018be67c-c4d9-449b-20d2-68caad2cf564"
	refULID = "01HFK7SH6S8JDJ1MK8SAPJSXB4"
)

// isolate points config resolution at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv(config.ConfigEnvVar, p)
	t.Setenv(config.EncodingEnvVar, "")
	return p
}

func run(t *testing.T, fn func([]string, CommandContext) int, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := fn(args, CommandContext{AppName: "keid", Out: &out, Err: &errOut})
	return code, out.String(), errOut.String()
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestRunGen(t *testing.T) {
	isolate(t)

	t.Run("fixed timestamp", func(t *testing.T) {
		code, out, _ := run(t, RunGen, "-n", "3", "--at", "1700379018457")
		require.Equal(t, 0, code)
		ids := lines(out)
		require.Len(t, ids, 3)
		for _, id := range ids {
			assert.Equal(t, uint64(1700379018457), keid.Timestamp(id))
		}
		assert.Less(t, ids[0], ids[1])
		assert.Less(t, ids[1], ids[2])
	})

	t.Run("RFC3339 timestamp", func(t *testing.T) {
		code, out, _ := run(t, RunGen, "--at", "2023-11-19T07:30:18.457Z")
		require.Equal(t, 0, code)
		assert.True(t, strings.HasPrefix(out, "018be67c-c4d9-"))
	})

	t.Run("encoded", func(t *testing.T) {
		code, out, _ := run(t, RunGen, "-n", "5", "-e", "base58")
		require.Equal(t, 0, code)
		c := keid.NewCodec(keid.Base58)
		for _, tok := range lines(out) {
			assert.Len(t, tok, 22)
			assert.NotEmpty(t, c.Decode(tok))
		}
	})

	t.Run("ulid", func(t *testing.T) {
		code, out, _ := run(t, RunGen, "--ulid")
		require.Equal(t, 0, code)
		assert.Len(t, strings.TrimSpace(out), 26)
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name     string
			args     []string
			wantCode int
			wantErr  string
		}{
			{"zero count", []string{"-n", "0"}, 1, "count"},
			{"too many", []string{"-n", "1000001"}, 1, "count"},
			{"timestamp too large", []string{"--at", "281474976710656"}, 1, "timestamp"},
			{"bad time", []string{"--at", "soon"}, 1, "invalid time"},
			{"bad alphabet", []string{"-e", "base32"}, 1, "unknown alphabet"},
			{"ulid with encode", []string{"--ulid", "--encode"}, 2, "--ulid"},
			{"stray argument", []string{"extra"}, 2, "unexpected argument"},
			{"unknown flag", []string{"--nope"}, 2, "Usage:"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				code, out, errOut := run(t, RunGen, tt.args...)
				assert.Equal(t, tt.wantCode, code)
				assert.Empty(t, out)
				assert.Contains(t, errOut, tt.wantErr)
			})
		}
	})
}

func TestRunEncode(t *testing.T) {
	isolate(t)

	code, out, _ := run(t, RunEncode, "-e", "base58", refID)
	require.Equal(t, 0, code)
	assert.Equal(t, "9h2Toc19FoFD1VkUghoG8F\n", out)

	code, out, _ = run(t, RunEncode, refID, refID)
	require.Equal(t, 0, code)
	assert.Equal(t, "AYvmfMTZRJsg0mjKrSz1ZA\nAYvmfMTZRJsg0mjKrSz1ZA\n", out)

	t.Setenv(config.EncodingEnvVar, "base62")
	code, out, _ = run(t, RunEncode, refID)
	require.Equal(t, 0, code)
	assert.Equal(t, "28Ne0bWvleQlomyQ3tkWGI\n", out)

	code, out, errOut := run(t, RunEncode, refID, "not-a-keid")
	assert.Equal(t, 1, code)
	assert.Empty(t, out, "nothing is printed when any input is invalid")
	assert.Contains(t, errOut, "invalid KEID")

	code, _, _ = run(t, RunEncode)
	assert.Equal(t, 2, code)
}

func TestRunDecode(t *testing.T) {
	isolate(t)

	code, out, _ := run(t, RunDecode, "AYvmfMTZRJsg0mjKrSz1ZA")
	require.Equal(t, 0, code)
	assert.Equal(t, refID+"\n", out)

	code, out, _ = run(t, RunDecode, "-e", "base58", "9h2Toc19FoFD1VkUghoG8F")
	require.Equal(t, 0, code)
	assert.Equal(t, refID+"\n", out)

	code, out, _ = run(t, RunDecode, "invalid string", "AYvmfMTZRJsg0mjKrSz1ZA")
	require.Equal(t, 0, code)
	assert.Equal(t, "\n"+refID+"\n", out)

	code, out, errOut := run(t, RunDecode, "--strict", "invalid string", "AYvmfMTZRJsg0mjKrSz1ZA")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "invalid encoded KEID length")

	code, out, _ = run(t, RunDecode, "--strict", "AYvmfMTZRJsg0mjKrSz1ZA")
	require.Equal(t, 0, code)
	assert.Equal(t, refID+"\n", out)
}

func TestRunInspect(t *testing.T) {
	isolate(t)

	code, out, _ := run(t, RunInspect, refID)
	require.Equal(t, 0, code)
	for _, want := range []string{
		"keid       " + refID,
		"timestamp  1700379018457",
		"date       2023-11-19T07:30:18.457Z",
		"base64url  AYvmfMTZRJsg0mjKrSz1ZA",
		"base58     9h2Toc19FoFD1VkUghoG8F",
		"base62     28Ne0bWvleQlomyQ3tkWGI",
		"ulid       " + refULID,
	} {
		assert.Contains(t, out, want)
	}

	code, out, _ = run(t, RunInspect, "-e", "base62", "28Ne0bWvleQlomyQ3tkWGI")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "keid       "+refID)

	code, _, errOut := run(t, RunInspect, "018BE67C-C4D9-449B-20D2-68CAAD2CF564")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid KEID")
}

func TestRunConvert(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{"to ulid", []string{"--to", "ulid", refID}, 0, refULID + "\n"},
		{"from ulid", []string{refULID}, 0, refID + "\n"},
		{"to uuid", []string{"--to", "uuid", refID}, 0, refID + "\n"},
		{"ulid to uuid", []string{"--to", "uuid", refULID}, 0, refID + "\n"},
		{"to urn", []string{"-t", "urn", refID}, 0, "urn:uuid:" + refID + "\n"},
		{"to hex", []string{"-t", "hex", refID}, 0, strings.ReplaceAll(refID, "-", "") + "\n"},
		{"unknown target", []string{"-t", "base32", refID}, 2, ""},
		{"invalid input", []string{"xyz"}, 1, ""},
		{"missing input", nil, 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, _ := run(t, RunConvert, tt.args...)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOut, out)
		})
	}
}

func TestRunInit(t *testing.T) {
	p := isolate(t)

	code, out, _ := run(t, RunInit, "-e", "base58")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Wrote config to "+p)

	_, err := os.Stat(p)
	require.NoError(t, err)

	// Commands now pick up the configured alphabet.
	code, out, _ = run(t, RunEncode, refID)
	require.Equal(t, 0, code)
	assert.Equal(t, "9h2Toc19FoFD1VkUghoG8F\n", out)

	code, _, errOut := run(t, RunInit)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "--force")

	code, out, _ = run(t, RunInit, "--force")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Overwrote config")
}
