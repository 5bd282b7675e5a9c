// Package mocks provides test doubles for the objstore client.
package mocks

import (
	"context"
	"time"

	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Upload provides a mock function with given fields: ctx, bucket, name, data, contentType
func (_m *MockClient) Upload(ctx context.Context, bucket string, name string, data []byte, contentType string) error {
	ret := _m.Called(ctx, bucket, name, data, contentType)

	if len(ret) == 0 {
		panic("no return value specified for Upload")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string, []byte, string) error); ok {
		r0 = rf(ctx, bucket, name, data, contentType)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// PresignGet provides a mock function with given fields: ctx, bucket, name, ttl
func (_m *MockClient) PresignGet(ctx context.Context, bucket string, name string, ttl time.Duration) (string, error) {
	ret := _m.Called(ctx, bucket, name, ttl)

	if len(ret) == 0 {
		panic("no return value specified for PresignGet")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string, time.Duration) (string, error)); ok {
		return rf(ctx, bucket, name, ttl)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, string, time.Duration) string); ok {
		r0 = rf(ctx, bucket, name, ttl)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, string, time.Duration) error); ok {
		r1 = rf(ctx, bucket, name, ttl)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// EnsureBucket provides a mock function with given fields: ctx, bucket
func (_m *MockClient) EnsureBucket(ctx context.Context, bucket string) error {
	ret := _m.Called(ctx, bucket)

	if len(ret) == 0 {
		panic("no return value specified for EnsureBucket")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, bucket)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
