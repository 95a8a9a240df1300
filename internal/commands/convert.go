package commands

import (
	"encoding/hex"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/sjatkinson/keid/pkg/keid"
)

// ulidLength is the length of a Crockford base32 ULID.
const ulidLength = 26

var convertTargets = map[string]func(keid.ID) string{
	"canonical": keid.ID.String,
	"ulid":      func(id keid.ID) string { return id.ULID().String() },
	"uuid":      func(id keid.ID) string { return id.UUID().String() },
	"urn":       func(id keid.ID) string { return id.UUID().URN() },
	"hex":       func(id keid.ID) string { return hex.EncodeToString(id.Bytes()) },
}

func RunConvert(args []string, ctx CommandContext) int {
	fs := flag.NewFlagSet(ctx.AppName+" convert", flag.ContinueOnError)
	fs.SetOutput(ctx.Err)
	fs.Usage = func() {
		fmt.Fprintln(ctx.Err, ConvertUsage(ctx.AppName))
	}

	var to string
	fs.StringVarP(&to, "to", "t", "canonical", "target form (canonical, ulid, uuid, urn, hex)")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(ctx.Err)
		fmt.Fprintln(ctx.Err, ConvertUsage(ctx.AppName))
		return 2
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		fmt.Fprintf(ctx.Err, "Error: missing argument: KEID or ULID required\n")
		return 2
	}

	render, ok := convertTargets[strings.ToLower(to)]
	if !ok {
		fmt.Fprintf(ctx.Err, "Error: unknown target %q (expected canonical, ulid, uuid, urn or hex)\n", to)
		return 2
	}

	ids := make([]keid.ID, 0, len(inputs))
	for _, in := range inputs {
		var (
			id  keid.ID
			err error
		)
		if len(in) == ulidLength {
			id, err = keid.ParseULID(in)
		} else {
			id, err = keid.Parse(in)
		}
		if err != nil {
			fmt.Fprintf(ctx.Err, "Error: %v\n", err)
			return 1
		}
		ids = append(ids, id)
	}

	for _, id := range ids {
		fmt.Fprintln(ctx.Out, render(id))
	}
	return 0
}

func ConvertUsage(app string) string {
	return fmt.Sprintf(`Usage:
  %s convert [--to <form>] <keid-or-ulid> [...]

Converts between the canonical KEID form and other 128-bit spellings.
26-character arguments are read as ULIDs.

Flags:
  -t, --to <form>   canonical (default), ulid, uuid, urn or hex

`, app)
}
