package commands

import (
	"fmt"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sjatkinson/keid/internal/date"
	"github.com/sjatkinson/keid/pkg/keid"
)

func RunGen(args []string, ctx CommandContext) int {
	fs := flag.NewFlagSet(ctx.AppName+" gen", flag.ContinueOnError)
	fs.SetOutput(ctx.Err)
	fs.Usage = func() {
		fmt.Fprintln(ctx.Err, GenUsage(ctx.AppName))
	}

	var (
		count    int
		at       string
		encoding string
		encode   bool
		asULID   bool
	)
	fs.IntVarP(&count, "count", "n", 1, "number of IDs to generate")
	fs.StringVar(&at, "at", "", "timestamp to embed instead of the current time")
	fs.StringVarP(&encoding, "encoding", "e", "", "print encoded IDs in this alphabet")
	fs.BoolVar(&encode, "encode", false, "print encoded IDs in the configured alphabet")
	fs.BoolVar(&asULID, "ulid", false, "print IDs as ULIDs")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(ctx.Err)
		fmt.Fprintln(ctx.Err, GenUsage(ctx.AppName))
		return 2
	}
	if len(fs.Args()) != 0 {
		fmt.Fprintf(ctx.Err, "Error: unexpected argument %q\n", fs.Args()[0])
		return 2
	}
	if asULID && (encode || encoding != "") {
		fmt.Fprintf(ctx.Err, "Error: --ulid cannot be combined with --encode or --encoding\n")
		return 2
	}

	var codec *keid.Codec
	if encode || encoding != "" {
		var err error
		codec, err = resolveCodec(encoding)
		if err != nil {
			fmt.Fprintf(ctx.Err, "Error: %v\n", err)
			return 1
		}
	}

	g := keid.NewGenerator()
	var (
		ids []string
		err error
	)
	if at != "" {
		ts, perr := date.ParseTimestamp(at, date.RealClock{})
		if perr != nil {
			fmt.Fprintf(ctx.Err, "Error: %v\n", perr)
			return 1
		}
		ctx.logger().Debug("generating at fixed timestamp", zap.Int64("timestamp", ts), zap.String("date", date.FormatMillis(ts)))
		ids, err = g.GenerateManyAt(count, ts)
	} else {
		ids, err = g.GenerateMany(count)
	}
	if err != nil {
		fmt.Fprintf(ctx.Err, "Error: %v\n", err)
		return 1
	}

	for _, id := range ids {
		switch {
		case codec != nil:
			out, err := codec.Encode(id)
			if err != nil {
				fmt.Fprintf(ctx.Err, "Error: %v\n", err)
				return 1
			}
			fmt.Fprintln(ctx.Out, out)
		case asULID:
			fmt.Fprintln(ctx.Out, keid.MustParse(id).ULID().String())
		default:
			fmt.Fprintln(ctx.Out, id)
		}
	}

	ctx.logger().Info("generated", zap.Int("count", len(ids)))
	return 0
}

func GenUsage(app string) string {
	return fmt.Sprintf(`Usage:
  %s gen [flags]

Flags:
  -n, --count <n>            number of IDs to generate (1-1000000, default 1)
  --at <time>                embed this time: now, milliseconds, +N<ms|s|m|h|d>,
                             RFC 3339 or YYYY-MM-DD
  -e, --encoding <alphabet>  print encoded IDs (base64url, base58, base62)
  --encode                   print encoded IDs in the configured alphabet
  --ulid                     print IDs as ULIDs

`, app)
}
