package commands

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sjatkinson/keid/internal/config"
	"github.com/sjatkinson/keid/pkg/keid"
)

// CommandContext provides the context needed for command execution.
// This avoids import cycles between cli and commands packages.
type CommandContext struct {
	AppName string
	Out     io.Writer
	Err     io.Writer
	Log     *zap.Logger
}

func (ctx CommandContext) logger() *zap.Logger {
	if ctx.Log == nil {
		return zap.NewNop()
	}
	return ctx.Log
}

// resolveCodec builds the codec selected by flag, env or config.
func resolveCodec(encoding string) (*keid.Codec, error) {
	a, err := config.ResolveAlphabet(encoding)
	if err != nil {
		return nil, err
	}
	return keid.NewCodec(a), nil
}

func RunInit(args []string, ctx CommandContext) int {
	fs := flag.NewFlagSet(ctx.AppName+" init", flag.ContinueOnError)
	fs.SetOutput(ctx.Err)
	fs.Usage = func() {
		fmt.Fprintln(ctx.Err, InitUsage(ctx.AppName))
	}

	var (
		encoding string
		force    bool
	)
	fs.StringVarP(&encoding, "encoding", "e", "", "default alphabet (base64url, base58, base62)")
	fs.BoolVar(&force, "force", false, "overwrite an existing config file")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(ctx.Err)
		fmt.Fprintln(ctx.Err, InitUsage(ctx.AppName))
		return 2
	}
	if len(fs.Args()) != 0 {
		fmt.Fprintln(ctx.Err, InitUsage(ctx.AppName))
		return 2
	}

	res, err := config.InitConfig(config.InitOptions{Encoding: encoding, Force: force})
	if err != nil {
		fmt.Fprintf(ctx.Err, "Error: %v\n", err)
		return 1
	}

	ctx.logger().Info("wrote config", zap.String("path", res.Path), zap.Bool("overwrote", res.Existed))
	if res.Existed {
		fmt.Fprintf(ctx.Out, "Overwrote config at %s\n", res.Path)
	} else {
		fmt.Fprintf(ctx.Out, "Wrote config to %s\n", res.Path)
	}
	return 0
}

func InitUsage(app string) string {
	return fmt.Sprintf(`Usage:
  %s init [--encoding <alphabet>] [--force]

Writes a starter config.toml with a default alphabet and command aliases.

Flags:
  -e, --encoding <alphabet>  default alphabet (base64url, base58, base62)
  --force                    overwrite an existing config file

`, app)
}
