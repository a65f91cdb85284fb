package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/calvinalkan/kvs/internal/config"
	"github.com/calvinalkan/kvs/internal/kvs"

	flag "github.com/spf13/pflag"
)

// Run is the main entry point. Returns the process exit code.
//
// workDir anchors relative --dir/--config paths and project config file
// discovery; callers pass os.Getwd() in production and a temp directory in
// tests. sigCh can be nil if signal handling is not needed (e.g. in tests).
func Run(_ io.Reader, out, errOut io.Writer, args []string, env map[string]string, workDir string, sigCh <-chan os.Signal) int {
	globalFlags := flag.NewFlagSet("kvs", flag.ContinueOnError)
	globalFlags.SetInterspersed(false)
	globalFlags.Usage = func() {}
	globalFlags.SetOutput(&strings.Builder{})

	flagHelp := globalFlags.BoolP("help", "h", false, "Show help")
	flagDir := globalFlags.String("dir", "", "Override store `directory`")
	flagConfig := globalFlags.StringP("config", "c", "", "Use specified config `file`")
	flagThreshold := globalFlags.Int64("compaction-threshold", 0, "Override compaction dead-byte `threshold`")

	if err := globalFlags.Parse(args[1:]); err != nil {
		fprintln(errOut, "error:", err)
		printGlobalOptions(errOut)

		return 1
	}

	if globalFlags.Changed("dir") && *flagDir == "" {
		fprintln(errOut, "error:", config.ErrDataDirEmpty)
		printGlobalOptions(errOut)

		return 1
	}

	cfg, _, err := config.Load(workDir, *flagConfig, config.Overrides{
		DataDir:                *flagDir,
		HasDataDir:             globalFlags.Changed("dir"),
		CompactionThreshold:    *flagThreshold,
		HasCompactionThreshold: globalFlags.Changed("compaction-threshold"),
	}, env)
	if err != nil {
		fprintln(errOut, "error:", err)
		printGlobalOptions(errOut)

		return 1
	}

	dataDir := cfg.DataDir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(workDir, dataDir)
	}

	opts := kvs.Options{CompactionThreshold: cfg.CompactionThreshold}

	commands := allCommands(dataDir, opts)

	commandMap := make(map[string]*Command, len(commands))
	for _, cmd := range commands {
		commandMap[cmd.Name()] = cmd
	}

	commandAndArgs := globalFlags.Args()

	if *flagHelp {
		printUsage(out, commands)

		return 0
	}

	// Missing subcommand: no dedicated "help" command exists, so a bare
	// invocation (with or without global flags) is an error, not a
	// success path.
	if len(commandAndArgs) == 0 {
		printUsage(errOut, commands)

		return 1
	}

	cmdName := commandAndArgs[0]

	cmd, ok := commandMap[cmdName]
	if !ok {
		fprintln(errOut, "error: unknown command:", cmdName)
		printUsage(errOut, commands)

		return 1
	}

	cmdIO := NewIO(out, errOut)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan int, 1)

	go func() {
		done <- cmd.Run(ctx, cmdIO, commandAndArgs[1:])
	}()

	select {
	case exitCode := <-done:
		return exitCode
	case <-sigCh:
		fprintln(errOut, "shutting down with 5s timeout...")
		cancel()
	}

	select {
	case <-done:
		fprintln(errOut, "graceful shutdown ok (130)")

		return 130
	case <-time.After(5 * time.Second):
		fprintln(errOut, "graceful shutdown timed out, forced exit (130)")

		return 130
	case <-sigCh:
		fprintln(errOut, "graceful shutdown interrupted, forced exit (130)")

		return 130
	}
}

// allCommands returns all commands in display order. Each gets its own
// store opened lazily from dataDir on Exec, so a command that never touches
// the store (there are none today, but future diagnostic subcommands might)
// would not need to pay the open cost.
func allCommands(dataDir string, opts kvs.Options) []*Command {
	return []*Command{
		SetCmd(dataDir, opts),
		GetCmd(dataDir, opts),
		RmCmd(dataDir, opts),
	}
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

const globalOptionsHelp = `  -h, --help                        Show help
  --dir <directory>                 Override store directory
  -c, --config <file>               Use specified config file
  --compaction-threshold <n>        Override compaction dead-byte threshold`

func printGlobalOptions(w io.Writer) {
	fprintln(w, "Usage: kvs [flags] <command> [args]")
	fprintln(w)
	fprintln(w, "Global flags:")
	fprintln(w, globalOptionsHelp)
}

func printUsage(w io.Writer, commands []*Command) {
	fprintln(w, "kvs - an embedded, log-structured key/value store")
	fprintln(w)
	fprintln(w, "Usage: kvs [flags] <command> [args]")
	fprintln(w)
	fprintln(w, "Flags:")
	fprintln(w, globalOptionsHelp)
	fprintln(w)
	fprintln(w, "Commands:")

	for _, cmd := range commands {
		fprintln(w, cmd.HelpLine())
	}
}
