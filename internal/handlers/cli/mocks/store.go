// Package mocks holds a mockery-style mock of cli.Store.
package mocks

import (
	"context"

	"github.com/gabapcia/redisproxy/internal/connector"

	"github.com/stretchr/testify/mock"
)

// Store is a mock type for the Store type.
type Store struct {
	mock.Mock
}

type Store_Expecter struct {
	mock *mock.Mock
}

func (_m *Store) EXPECT() *Store_Expecter {
	return &Store_Expecter{mock: &_m.Mock}
}

// Ping provides a mock function with given fields: ctx
func (_m *Store) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Ping")
	}

	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		return rf(ctx)
	}

	return ret.Error(0)
}

type Store_Ping_Call struct {
	*mock.Call
}

func (_e *Store_Expecter) Ping(ctx interface{}) *Store_Ping_Call {
	return &Store_Ping_Call{Call: _e.mock.On("Ping", ctx)}
}

func (_c *Store_Ping_Call) Return(_a0 error) *Store_Ping_Call {
	_c.Call.Return(_a0)
	return _c
}

// Get provides a mock function with given fields: ctx, key
func (_m *Store) Get(ctx context.Context, key string) (string, error) {
	ret := _m.Called(ctx, key)

	if len(ret) == 0 {
		panic("no return value specified for Get")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) (string, error)); ok {
		return rf(ctx, key)
	}

	return ret.String(0), ret.Error(1)
}

type Store_Get_Call struct {
	*mock.Call
}

func (_e *Store_Expecter) Get(ctx interface{}, key interface{}) *Store_Get_Call {
	return &Store_Get_Call{Call: _e.mock.On("Get", ctx, key)}
}

func (_c *Store_Get_Call) Return(_a0 string, _a1 error) *Store_Get_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// Set provides a mock function with given fields: ctx, key, value, opts
func (_m *Store) Set(ctx context.Context, key string, value any, opts connector.SetOptions) error {
	ret := _m.Called(ctx, key, value, opts)

	if len(ret) == 0 {
		panic("no return value specified for Set")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, any, connector.SetOptions) error); ok {
		return rf(ctx, key, value, opts)
	}

	return ret.Error(0)
}

type Store_Set_Call struct {
	*mock.Call
}

func (_e *Store_Expecter) Set(ctx interface{}, key interface{}, value interface{}, opts interface{}) *Store_Set_Call {
	return &Store_Set_Call{Call: _e.mock.On("Set", ctx, key, value, opts)}
}

func (_c *Store_Set_Call) Return(_a0 error) *Store_Set_Call {
	_c.Call.Return(_a0)
	return _c
}

// Del provides a mock function with given fields: ctx, keys
func (_m *Store) Del(ctx context.Context, keys ...string) (int64, error) {
	ret := _m.Called(ctx, keys)

	if len(ret) == 0 {
		panic("no return value specified for Del")
	}

	if rf, ok := ret.Get(0).(func(context.Context, ...string) (int64, error)); ok {
		return rf(ctx, keys...)
	}

	return ret.Get(0).(int64), ret.Error(1)
}

type Store_Del_Call struct {
	*mock.Call
}

// Del expects keys as a single []string argument.
func (_e *Store_Expecter) Del(ctx interface{}, keys interface{}) *Store_Del_Call {
	return &Store_Del_Call{Call: _e.mock.On("Del", ctx, keys)}
}

func (_c *Store_Del_Call) Return(_a0 int64, _a1 error) *Store_Del_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// Keys provides a mock function with given fields: ctx, pattern
func (_m *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	ret := _m.Called(ctx, pattern)

	if len(ret) == 0 {
		panic("no return value specified for Keys")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) ([]string, error)); ok {
		return rf(ctx, pattern)
	}

	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}

	return r0, ret.Error(1)
}

type Store_Keys_Call struct {
	*mock.Call
}

func (_e *Store_Expecter) Keys(ctx interface{}, pattern interface{}) *Store_Keys_Call {
	return &Store_Keys_Call{Call: _e.mock.On("Keys", ctx, pattern)}
}

func (_c *Store_Keys_Call) Return(_a0 []string, _a1 error) *Store_Keys_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// IncrBy provides a mock function with given fields: ctx, key, step
func (_m *Store) IncrBy(ctx context.Context, key string, step connector.Number) (connector.Number, error) {
	ret := _m.Called(ctx, key, step)

	if len(ret) == 0 {
		panic("no return value specified for IncrBy")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, connector.Number) (connector.Number, error)); ok {
		return rf(ctx, key, step)
	}

	return ret.Get(0).(connector.Number), ret.Error(1)
}

type Store_IncrBy_Call struct {
	*mock.Call
}

func (_e *Store_Expecter) IncrBy(ctx interface{}, key interface{}, step interface{}) *Store_IncrBy_Call {
	return &Store_IncrBy_Call{Call: _e.mock.On("IncrBy", ctx, key, step)}
}

func (_c *Store_IncrBy_Call) Return(_a0 connector.Number, _a1 error) *Store_IncrBy_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// NewStore creates a new instance of Store. It also registers a testing
// interface on the mock and a cleanup function to assert the mocks
// expectations.
func NewStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *Store {
	m := &Store{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
