package commands

import (
	"fmt"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

func RunDecode(args []string, ctx CommandContext) int {
	fs := flag.NewFlagSet(ctx.AppName+" decode", flag.ContinueOnError)
	fs.SetOutput(ctx.Err)
	fs.Usage = func() {
		fmt.Fprintln(ctx.Err, DecodeUsage(ctx.AppName))
	}

	var (
		encoding string
		strict   bool
	)
	fs.StringVarP(&encoding, "encoding", "e", "", "alphabet (base64url, base58, base62)")
	fs.BoolVar(&strict, "strict", false, "fail on the first invalid token instead of printing an empty line")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(ctx.Err)
		fmt.Fprintln(ctx.Err, DecodeUsage(ctx.AppName))
		return 2
	}

	tokens := fs.Args()
	if len(tokens) == 0 {
		fmt.Fprintf(ctx.Err, "Error: missing argument: encoded KEID required\n")
		return 2
	}

	codec, err := resolveCodec(encoding)
	if err != nil {
		fmt.Fprintf(ctx.Err, "Error: %v\n", err)
		return 1
	}

	if !strict {
		for _, tok := range tokens {
			id := codec.Decode(tok)
			if id == "" {
				ctx.logger().Warn("invalid encoded KEID", zap.String("token", tok), zap.Stringer("alphabet", codec.Alphabet()))
			}
			fmt.Fprintln(ctx.Out, id)
		}
		return 0
	}

	ids := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		id, err := codec.DecodeOrError(tok)
		if err != nil {
			fmt.Fprintf(ctx.Err, "Error: %v\n", err)
			return 1
		}
		ids = append(ids, id)
	}
	for _, id := range ids {
		fmt.Fprintln(ctx.Out, id)
	}
	return 0
}

func DecodeUsage(app string) string {
	return fmt.Sprintf(`Usage:
  %s decode [--encoding <alphabet>] [--strict] <token> [<token> ...]

Invalid tokens print an empty line unless --strict is given.

Flags:
  -e, --encoding <alphabet>  base64url, base58 or base62 (default from config)
  --strict                   fail on the first invalid token instead of printing an empty line

`, app)
}
