package commands

import (
	"fmt"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sjatkinson/keid/pkg/keid"
)

func RunEncode(args []string, ctx CommandContext) int {
	fs := flag.NewFlagSet(ctx.AppName+" encode", flag.ContinueOnError)
	fs.SetOutput(ctx.Err)
	fs.Usage = func() {
		fmt.Fprintln(ctx.Err, EncodeUsage(ctx.AppName))
	}

	var encoding string
	fs.StringVarP(&encoding, "encoding", "e", "", "alphabet (base64url, base58, base62)")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(ctx.Err)
		fmt.Fprintln(ctx.Err, EncodeUsage(ctx.AppName))
		return 2
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		fmt.Fprintf(ctx.Err, "Error: missing argument: KEID required\n")
		return 2
	}

	codec, err := resolveCodec(encoding)
	if err != nil {
		fmt.Fprintf(ctx.Err, "Error: %v\n", err)
		return 1
	}

	// Validate everything before printing anything
	ids := make([]keid.ID, 0, len(inputs))
	for _, in := range inputs {
		id, err := keid.Parse(in)
		if err != nil {
			fmt.Fprintf(ctx.Err, "Error: %v\n", err)
			return 1
		}
		ids = append(ids, id)
	}

	for _, id := range ids {
		fmt.Fprintln(ctx.Out, codec.EncodeID(id))
	}

	ctx.logger().Debug("encoded", zap.Int("count", len(ids)), zap.Stringer("alphabet", codec.Alphabet()))
	return 0
}

func EncodeUsage(app string) string {
	return fmt.Sprintf(`Usage:
  %s encode [--encoding <alphabet>] <keid> [<keid> ...]

Flags:
  -e, --encoding <alphabet>  base64url, base58 or base62 (default from config)

`, app)
}
