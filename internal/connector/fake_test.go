package connector

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// replyError mimics a server error reply.
type replyError string

func (e replyError) Error() string { return string(e) }
func (replyError) RedisError()     {}

// fakeHandle is an in-memory stand-in for a go-redis client. Only the
// commands exercised by the tests are implemented; anything else panics on
// the nil embedded interface.
type fakeHandle struct {
	redis.UniversalClient

	mu      sync.Mutex
	strs    map[string]string
	hashes  map[string]map[string]string
	lists   map[string][]string
	calls   []string
	err     error // returned by every data command when set
	pingErr error
	lateErr error // returned by IncrBy after the increment was applied
	closed  bool
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{
		strs:   map[string]string{},
		hashes: map[string]map[string]string{},
		lists:  map[string][]string{},
	}
}

func (f *fakeHandle) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeHandle) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.calls...)
}

func (f *fakeHandle) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closed
}

func (f *fakeHandle) Ping(ctx context.Context) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "Ping")
	if f.pingErr != nil {
		return redis.NewStatusResult("", f.pingErr)
	}

	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeHandle) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	return nil
}

func (f *fakeHandle) Get(ctx context.Context, key string) *redis.StringCmd {
	if err := f.record("Get"); err != nil {
		return redis.NewStringResult("", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.strs[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}

	return redis.NewStringResult(v, nil)
}

func (f *fakeHandle) SetArgs(ctx context.Context, key string, value any, a redis.SetArgs) *redis.StatusCmd {
	if err := f.record("SetArgs"); err != nil {
		return redis.NewStatusResult("", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	_, exists := f.strs[key]
	if (a.Mode == "NX" && exists) || (a.Mode == "XX" && !exists) {
		return redis.NewStatusResult("", redis.Nil)
	}

	f.strs[key] = toString(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeHandle) IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd {
	if err := f.record("IncrBy"); err != nil {
		return redis.NewIntResult(0, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	cur, _ := strconv.ParseInt(f.strs[key], 10, 64)
	cur += value
	f.strs[key] = strconv.FormatInt(cur, 10)
	if f.lateErr != nil {
		return redis.NewIntResult(0, f.lateErr)
	}
	return redis.NewIntResult(cur, nil)
}

func (f *fakeHandle) IncrByFloat(ctx context.Context, key string, value float64) *redis.FloatCmd {
	if err := f.record("IncrByFloat"); err != nil {
		return redis.NewFloatResult(0, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	cur, _ := strconv.ParseFloat(f.strs[key], 64)
	cur += value
	f.strs[key] = strconv.FormatFloat(cur, 'f', -1, 64)
	return redis.NewFloatResult(cur, nil)
}

func (f *fakeHandle) HSet(ctx context.Context, key string, values ...any) *redis.IntCmd {
	if err := f.record("HSet"); err != nil {
		return redis.NewIntResult(0, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	h, ok := f.hashes[key]
	if !ok {
		h = map[string]string{}
		f.hashes[key] = h
	}

	var added int64
	put := func(field string, v any) {
		if _, ok := h[field]; !ok {
			added++
		}
		h[field] = toString(v)
	}

	if len(values) == 1 {
		if m, ok := values[0].(map[string]any); ok {
			for field, v := range m {
				put(field, v)
			}
			return redis.NewIntResult(added, nil)
		}
	}

	for i := 0; i+1 < len(values); i += 2 {
		put(toString(values[i]), values[i+1])
	}

	return redis.NewIntResult(added, nil)
}

func (f *fakeHandle) HGet(ctx context.Context, key, field string) *redis.StringCmd {
	if err := f.record("HGet"); err != nil {
		return redis.NewStringResult("", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.hashes[key][field]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}

	return redis.NewStringResult(v, nil)
}

func (f *fakeHandle) HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd {
	if err := f.record("HIncrBy"); err != nil {
		return redis.NewIntResult(0, err)
	}

	return redis.NewIntResult(incr, nil)
}

func (f *fakeHandle) HIncrByFloat(ctx context.Context, key, field string, incr float64) *redis.FloatCmd {
	if err := f.record("HIncrByFloat"); err != nil {
		return redis.NewFloatResult(0, err)
	}

	return redis.NewFloatResult(incr, nil)
}

func (f *fakeHandle) RPush(ctx context.Context, key string, values ...any) *redis.IntCmd {
	if err := f.record("RPush"); err != nil {
		return redis.NewIntResult(0, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, v := range values {
		f.lists[key] = append(f.lists[key], toString(v))
	}

	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeHandle) LLen(ctx context.Context, key string) *redis.IntCmd {
	if err := f.record("LLen"); err != nil {
		return redis.NewIntResult(0, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeHandle) RPop(ctx context.Context, key string) *redis.StringCmd {
	if err := f.record("RPop"); err != nil {
		return redis.NewStringResult("", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	l := f.lists[key]
	if len(l) == 0 {
		return redis.NewStringResult("", redis.Nil)
	}

	v := l[len(l)-1]
	f.lists[key] = l[:len(l)-1]
	return redis.NewStringResult(v, nil)
}

func (f *fakeHandle) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if err := f.record("Del"); err != nil {
		return redis.NewIntResult(0, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, k := range keys {
		if _, ok := f.strs[k]; ok {
			delete(f.strs, k)
			n++
		}
	}

	return redis.NewIntResult(n, nil)
}

func (f *fakeHandle) PTTL(ctx context.Context, key string) *redis.DurationCmd {
	if err := f.record("PTTL"); err != nil {
		return redis.NewDurationResult(0, err)
	}

	return redis.NewDurationResult(1500*time.Millisecond, nil)
}

func (f *fakeHandle) ZRangeWithScores(ctx context.Context, key string, start, stop int64) *redis.ZSliceCmd {
	if err := f.record("ZRangeWithScores"); err != nil {
		return redis.NewZSliceCmdResult(nil, err)
	}

	return redis.NewZSliceCmdResult([]redis.Z{{Score: 1, Member: "a"}, {Score: 2.5, Member: "b"}}, nil)
}

func (f *fakeHandle) ZRangeByScore(ctx context.Context, key string, opt *redis.ZRangeBy) *redis.StringSliceCmd {
	if err := f.record("ZRangeByScore:" + opt.Min + ":" + opt.Max); err != nil {
		return redis.NewStringSliceResult(nil, err)
	}

	return redis.NewStringSliceResult([]string{"a"}, nil)
}

func (f *fakeHandle) Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd {
	if err := f.record("Eval"); err != nil {
		return redis.NewCmdResult(nil, err)
	}

	return redis.NewCmdResult([]any{int64(len(keys)), int64(len(args))}, nil)
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// dialSequence hands out its handles in order, repeating the last one.
type dialSequence struct {
	mu      sync.Mutex
	handles []*fakeHandle
	dialed  []Options
}

func (d *dialSequence) dial(opts Options) redis.UniversalClient {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := min(len(d.dialed), len(d.handles)-1)
	d.dialed = append(d.dialed, opts)
	return d.handles[i]
}

func (d *dialSequence) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.dialed)
}

// newTestConnector builds a Connector over the given handles with an
// observed logger.
func newTestConnector(t *testing.T, opts Options, handles ...*fakeHandle) (*Connector, *observer.ObservedLogs, *dialSequence) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	seq := &dialSequence{handles: handles}

	if opts.ReconnectDelay == 0 {
		opts.ReconnectDelay = time.Millisecond
	}

	c, err := New(t.Context(), opts, WithLogger(zap.New(core).Sugar()), WithDialer(seq.dial))
	require.NoError(t, err)

	return c, logs, seq
}

// fatalEntries returns the entries written at fatal level.
func fatalEntries(logs *observer.ObservedLogs) []observer.LoggedEntry {
	return logs.FilterLevelExact(zapcore.FatalLevel).All()
}
