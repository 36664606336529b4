// Package redis builds go-redis clients for a single endpoint and classifies
// the errors they return.
package redis

import (
	"errors"
	"net"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Options describes one endpoint connection.
type Options struct {
	Addr         string
	Username     string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewClient returns a go-redis client for the endpoint. The client keeps a
// pool of persistent connections; no network I/O happens until the first
// command, and authentication is performed as part of every connection
// handshake when a password is set.
func NewClient(opts Options) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.Username,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})
}

// authErrorPrefixes are the replies a server sends when the handshake AUTH
// is rejected or missing.
var authErrorPrefixes = []string{
	"WRONGPASS",
	"NOAUTH",
	"ERR AUTH",
	"ERR invalid password",
	"ERR Client sent AUTH",
}

// IsAuthError reports whether err is a server reply rejecting credentials.
func IsAuthError(err error) bool {
	var rerr redis.Error
	if !errors.As(err, &rerr) {
		return false
	}

	msg := rerr.Error()
	for _, prefix := range authErrorPrefixes {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}

	return false
}

// IsUndelivered reports whether err proves the command never reached the
// server: the client was closed, no pooled connection became available, or
// dialing failed. Sending such a command again cannot apply it twice.
//
// Read timeouts, EOF and resets are excluded; the server may already have
// executed the command when they happen.
func IsUndelivered(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, redis.ErrClosed) || errors.Is(err, redis.ErrPoolTimeout) {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
