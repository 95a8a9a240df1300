package commands

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/sjatkinson/keid/internal/date"
	"github.com/sjatkinson/keid/pkg/keid"
)

func RunInspect(args []string, ctx CommandContext) int {
	fs := flag.NewFlagSet(ctx.AppName+" inspect", flag.ContinueOnError)
	fs.SetOutput(ctx.Err)
	fs.Usage = func() {
		fmt.Fprintln(ctx.Err, InspectUsage(ctx.AppName))
	}

	var encoding string
	fs.StringVarP(&encoding, "encoding", "e", "", "alphabet of encoded arguments")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(ctx.Err)
		fmt.Fprintln(ctx.Err, InspectUsage(ctx.AppName))
		return 2
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		fmt.Fprintf(ctx.Err, "Error: missing argument: KEID required\n")
		return 2
	}

	var ids []string
	for _, in := range inputs {
		id, err := resolveKEID(in, encoding)
		if err != nil {
			fmt.Fprintf(ctx.Err, "Error: %v\n", err)
			return 1
		}
		ids = append(ids, id)
	}

	for i, id := range ids {
		if i > 0 {
			fmt.Fprintln(ctx.Out)
		}
		displayInspect(ctx.Out, id)
	}
	return 0
}

// resolveKEID accepts a canonical KEID or an encoded one in the selected
// alphabet and returns the canonical form.
func resolveKEID(in, encoding string) (string, error) {
	if len(in) == keid.CanonicalLength {
		if err := keid.Validate(in); err != nil {
			return "", err
		}
		return in, nil
	}

	codec, err := resolveCodec(encoding)
	if err != nil {
		return "", err
	}
	return codec.DecodeOrError(in)
}

func displayInspect(out io.Writer, id string) {
	ts := keid.Timestamp(id)
	fmt.Fprintf(out, "%-10s %s\n", "keid", id)
	fmt.Fprintf(out, "%-10s %d\n", "timestamp", ts)
	fmt.Fprintf(out, "%-10s %s\n", "date", date.FormatMillis(keid.Date(id).UnixMilli()))
	for _, a := range keid.Alphabets() {
		enc, err := keid.NewCodec(a).Encode(id)
		if err != nil {
			enc = "(invalid)"
		}
		fmt.Fprintf(out, "%-10s %s\n", a, enc)
	}
	fmt.Fprintf(out, "%-10s %s\n", "ulid", keid.MustParse(id).ULID())
}

func InspectUsage(app string) string {
	return fmt.Sprintf(`Usage:
  %s inspect [--encoding <alphabet>] <keid-or-token> [...]

Prints the timestamp, date and every encoding of each KEID. Arguments that
are not canonical KEIDs are decoded with the selected alphabet.

Flags:
  -e, --encoding <alphabet>  alphabet of encoded arguments (default from config)

`, app)
}
