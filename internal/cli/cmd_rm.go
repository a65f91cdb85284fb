package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/calvinalkan/kvs/internal/kvs"

	flag "github.com/spf13/pflag"
)

// RmCmd returns the "rm" command.
func RmCmd(dataDir string, opts kvs.Options) *Command {
	return &Command{
		Flags: flag.NewFlagSet("rm", flag.ContinueOnError),
		Usage: "rm <KEY>",
		Short: "Remove a key",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("rm requires exactly 1 argument: <KEY>, got %d", len(args))
			}

			store, err := kvs.Open(dataDir, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			err = store.Remove(args[0])
			if errors.Is(err, kvs.ErrKeyNotFound) {
				o.ErrPrintln("Key not found")
				return errHandled
			}

			return err
		},
	}
}
