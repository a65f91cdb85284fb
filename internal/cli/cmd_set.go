package cli

import (
	"context"
	"fmt"

	"github.com/calvinalkan/kvs/internal/kvs"

	flag "github.com/spf13/pflag"
)

// SetCmd returns the "set" command.
func SetCmd(dataDir string, opts kvs.Options) *Command {
	return &Command{
		Flags: flag.NewFlagSet("set", flag.ContinueOnError),
		Usage: "set <KEY> <VALUE>",
		Short: "Store a value under a key",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("set requires exactly 2 arguments: <KEY> <VALUE>, got %d", len(args))
			}

			store, err := kvs.Open(dataDir, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			return store.Set(args[0], args[1])
		},
	}
}
