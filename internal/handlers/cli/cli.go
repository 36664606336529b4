package cli

import (
	"context"
	"io"
	"os"

	"github.com/gabapcia/redisproxy/internal/connector"

	"github.com/urfave/cli/v3"
)

// Store is the part of the connector surface exposed on the command line.
type Store interface {
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, opts connector.SetOptions) error
	Del(ctx context.Context, keys ...string) (int64, error)
	Keys(ctx context.Context, pattern string) ([]string, error)
	IncrBy(ctx context.Context, key string, step connector.Number) (connector.Number, error)
}

// newApp builds the command tree writing results to w.
func newApp(s Store, w io.Writer) *cli.Command {
	return &cli.Command{
		EnableShellCompletion: true,
		Name:                  "redisproxy",
		Description:           "Command-line access to a redis endpoint through a managed connector.",
		Usage:                 "redisproxy [command] [flags]",
		Writer:                w,
		Commands: []*cli.Command{
			pingCommand(s, w),
			getCommand(s, w),
			setCommand(s, w),
			delCommand(s, w),
			keysCommand(s, w),
			incrCommand(s, w),
		},
	}
}

// Run parses args and executes the selected command against s, printing
// results to stdout.
//
// Commands:
//
//   - `ping`: Checks that the endpoint answers.
//   - `get`, `set`, `del`, `keys`, `incr`: The matching redis commands.
//
// A soft miss prints (nil) and is not an error.
func Run(ctx context.Context, s Store, args []string) error {
	return newApp(s, os.Stdout).Run(ctx, args)
}
