package cli

import (
	"context"
	"fmt"

	"github.com/calvinalkan/kvs/internal/kvs"

	flag "github.com/spf13/pflag"
)

// GetCmd returns the "get" command.
func GetCmd(dataDir string, opts kvs.Options) *Command {
	return &Command{
		Flags: flag.NewFlagSet("get", flag.ContinueOnError),
		Usage: "get <KEY>",
		Short: "Print the value stored under a key",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("get requires exactly 1 argument: <KEY>, got %d", len(args))
			}

			store, err := kvs.Open(dataDir, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			value, ok, err := store.Get(args[0])
			if err != nil {
				return err
			}

			if !ok {
				o.Println("Key not found")
				return nil
			}

			o.Println(value)

			return nil
		},
	}
}
