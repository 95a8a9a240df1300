package cli

import (
	"fmt"
	"io"
	"os"
	"sort"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sjatkinson/keid/internal/commands"
	"github.com/sjatkinson/keid/internal/config"
	"github.com/sjatkinson/keid/internal/logging"
)

type Config struct {
	AppName string
	Out     io.Writer
	Err     io.Writer

	Version string

	Verbose bool
	Debug   bool
}

// commandInfo describes a built-in command.
type commandInfo struct {
	Name        string
	Description string
	Usage       func(app string) string
	Runner      func(args []string, ctx commands.CommandContext) int
}

var registry = []commandInfo{
	{"gen", "Generate one or more KEIDs", commands.GenUsage, commands.RunGen},
	{"encode", "Encode KEIDs to a short token", commands.EncodeUsage, commands.RunEncode},
	{"decode", "Decode tokens back to canonical KEIDs", commands.DecodeUsage, commands.RunDecode},
	{"inspect", "Show timestamp, date and every encoding of a KEID", commands.InspectUsage, commands.RunInspect},
	{"convert", "Convert between KEID, ULID, URN and hex forms", commands.ConvertUsage, commands.RunConvert},
	{"init", "Write a starter config file", commands.InitUsage, commands.RunInit},
}

// getCommand returns the built-in command with the given name, or nil.
func getCommand(name string) *commandInfo {
	for i := range registry {
		if registry[i].Name == name {
			return &registry[i]
		}
	}
	return nil
}

// getAllCommands returns the built-in commands sorted by name.
func getAllCommands() []commandInfo {
	cmds := make([]commandInfo, len(registry))
	copy(cmds, registry)
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

func Run(argv []string, cfg Config) int {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Err == nil {
		cfg.Err = os.Stderr
	}
	if cfg.AppName == "" {
		cfg.AppName = "keid"
	}
	if cfg.Version == "" {
		cfg.Version = "0.0.0-dev"
	}

	// ---- Global flags ----
	global := flag.NewFlagSet(cfg.AppName, flag.ContinueOnError)
	global.SetOutput(cfg.Err)
	global.SetInterspersed(false)

	var (
		flgHelp    bool
		flgVersion bool
	)
	global.BoolVarP(&flgHelp, "help", "h", false, "show help")
	global.BoolVar(&flgVersion, "version", false, "print version and exit")
	global.BoolVarP(&cfg.Verbose, "verbose", "v", false, "verbose output")
	global.BoolVar(&cfg.Debug, "debug", false, "debug output")

	global.Usage = func() { fmt.Fprintln(cfg.Err, usage(cfg.AppName)) }

	if err := global.Parse(argv); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintln(cfg.Err)
		fmt.Fprintln(cfg.Err, usage(cfg.AppName))
		return 2
	}

	if flgVersion {
		fmt.Fprintf(cfg.Out, "%s %s\n", cfg.AppName, cfg.Version)
		return 0
	}

	rest := global.Args()
	if flgHelp || len(rest) == 0 {
		fmt.Fprintln(cfg.Err, usage(cfg.AppName))
		return 0
	}

	log := logging.New(cfg.Err, cfg.Verbose, cfg.Debug)
	defer func() { _ = log.Sync() }()

	cmd := rest[0]
	args := rest[1:]

	builtInCommands := map[string]bool{"help": true}
	for _, c := range registry {
		builtInCommands[c.Name] = true
	}

	// Load aliases from config
	rawAliases, err := config.LoadAliases()
	if err != nil {
		// Don't fail on malformed config
		log.Warn("failed to load aliases", zap.Error(err))
		rawAliases = make(config.Aliases)
	}

	// Validate and filter aliases
	aliases := validateAliases(rawAliases, builtInCommands, log)

	// Resolve alias: built-in commands take precedence
	if !builtInCommands[cmd] {
		if target, ok := aliases[cmd]; ok {
			log.Debug("resolved alias", zap.String("alias", cmd), zap.String("command", target))
			cmd = target
		}
	}

	if cmd == "help" {
		if len(args) == 0 {
			fmt.Fprintln(cfg.Err, usage(cfg.AppName))
			return 0
		}
		fmt.Fprintln(cfg.Err, commandUsage(cfg.AppName, args[0]))
		return 0
	}

	info := getCommand(cmd)
	if info == nil {
		fmt.Fprintf(cfg.Err, "unknown command: %q\n\n", cmd)
		fmt.Fprintln(cfg.Err, usage(cfg.AppName))
		return 2
	}

	return info.Runner(args, commands.CommandContext{
		AppName: cfg.AppName,
		Out:     cfg.Out,
		Err:     cfg.Err,
		Log:     log.Named(info.Name),
	})
}

func usage(app string) string {
	return fmt.Sprintf(`%s: time-sortable identifiers and their short encodings

Usage:
  %s [global flags] <command> [command flags] [args]

Global flags:
  -h, --help           show help
      --version        print version and exit
  -v, --verbose        verbose output
      --debug          debug output

Commands:
  gen       Generate one or more KEIDs
  encode    Encode KEIDs to a short token
  decode    Decode tokens back to canonical KEIDs
  inspect   Show timestamp, date and every encoding of a KEID
  convert   Convert between KEID, ULID, URN and hex forms

  init      Write a starter config file
  help      Help for a command

Environment:
  KEID_ENCODING   default alphabet (base64url, base58, base62)
  KEID_CONFIG     config file path (default $XDG_CONFIG_HOME/keid/config.toml)

Run:
  %s help <command>
`, app, app, app)
}

func commandUsage(app, cmd string) string {
	if info := getCommand(cmd); info != nil {
		return info.Usage(app)
	}
	return fmt.Sprintf("Unknown command %q\n\n%s", cmd, usage(app))
}

// validateAliases filters and validates aliases:
// - Removes aliases that conflict with built-in commands (built-in wins)
// - Removes aliases that point to non-existent commands
// - Removes aliases that point to other aliases (no recursion)
// Returns a validated map of alias -> built-in command.
func validateAliases(raw config.Aliases, builtInCommands map[string]bool, log *zap.Logger) config.Aliases {
	valid := make(config.Aliases)

	for alias, target := range raw {
		// Skip aliases that conflict with built-in commands
		if builtInCommands[alias] {
			log.Info("alias conflicts with built-in command, ignoring", zap.String("alias", alias))
			continue
		}

		if !builtInCommands[target] {
			// Check if target is another alias (recursion)
			if _, isAlias := raw[target]; isAlias {
				log.Info("alias points to another alias (recursion not allowed), ignoring",
					zap.String("alias", alias), zap.String("target", target))
				continue
			}
			log.Info("alias points to non-existent command, ignoring",
				zap.String("alias", alias), zap.String("target", target))
			continue
		}

		// Valid alias: points directly to a built-in command
		valid[alias] = target
	}

	return valid
}
