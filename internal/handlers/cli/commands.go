package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gabapcia/redisproxy/internal/connector"

	"github.com/urfave/cli/v3"
)

const nilReply = "(nil)"

// pingCommand checks that the endpoint answers.
//
//	redisproxy ping
func pingCommand(s Store, w io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Checks that the redis endpoint answers.",
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := s.Ping(ctx); err != nil {
				return err
			}

			_, err := fmt.Fprintln(w, "PONG")
			return err
		},
	}
}

// getCommand prints the value stored under a key.
//
//	redisproxy get --key session:42
func getCommand(s Store, w io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "get",
		Usage: "Prints the value of a key, or (nil) when it does not exist.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "key",
				Usage:    "Key to read",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			value, err := s.Get(ctx, c.String("key"))
			if errors.Is(err, connector.ErrNotFound) {
				value, err = nilReply, nil
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(w, value)
			return err
		},
	}
}

// setCommand writes a value.
//
//	redisproxy set --key session:42 --value alice --ttl 30m --mode NX
func setCommand(s Store, w io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "set",
		Usage: "Writes a value. With --mode NX or XX, prints (nil) when the write did not apply.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "key",
				Usage:    "Key to write",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "value",
				Usage:    "Value to store",
				Required: true,
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "Expire the key after this duration (e.g., 30s, 5m)",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "NX to write only absent keys, XX to write only existing ones",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			opts := connector.SetOptions{
				Mode: c.String("mode"),
				TTL:  c.Duration("ttl"),
			}

			reply := "OK"
			err := s.Set(ctx, c.String("key"), c.String("value"), opts)
			if errors.Is(err, connector.ErrNotStored) {
				reply, err = nilReply, nil
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(w, reply)
			return err
		},
	}
}

// delCommand removes keys and prints how many existed.
//
//	redisproxy del --key a --key b
func delCommand(s Store, w io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "del",
		Usage: "Deletes one or more keys and prints how many were removed.",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "key",
				Usage:    "Key to delete, repeatable",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			n, err := s.Del(ctx, c.StringSlice("key")...)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(w, n)
			return err
		},
	}
}

// keysCommand lists keys matching a glob pattern, one per line.
//
//	redisproxy keys --pattern 'session:*'
func keysCommand(s Store, w io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "keys",
		Usage: "Lists the keys matching a pattern.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "pattern",
				Usage: "Glob-style pattern",
				Value: "*",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			keys, err := s.Keys(ctx, c.String("pattern"))
			if err != nil {
				return err
			}

			if len(keys) == 0 {
				_, err = fmt.Fprintln(w, "(empty)")
				return err
			}

			for _, key := range keys {
				if _, err := fmt.Fprintln(w, key); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

// incrCommand increments a counter by an integral or, with --float, a
// floating point step.
//
//	redisproxy incr --key hits --by 1
//	redisproxy incr --key balance --by 0.5 --float
func incrCommand(s Store, w io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "incr",
		Usage: "Increments a counter and prints the new value.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "key",
				Usage:    "Counter key",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "by",
				Usage: "Step to add, may be negative",
				Value: "1",
			},
			&cli.BoolFlag{
				Name:  "float",
				Usage: "Treat the step as a floating point number",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			step, err := parseStep(c.String("by"), c.Bool("float"))
			if err != nil {
				return err
			}

			n, err := s.IncrBy(ctx, c.String("key"), step)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(w, n)
			return err
		},
	}
}

func parseStep(raw string, float bool) (connector.Number, error) {
	if float {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return connector.Number{}, fmt.Errorf("%w: by: %w", connector.ErrInvalidArguments, err)
		}
		return connector.Float(f), nil
	}

	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return connector.Number{}, fmt.Errorf("%w: by: %w", connector.ErrInvalidArguments, err)
	}

	return connector.Int(i), nil
}
