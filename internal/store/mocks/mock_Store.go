// Package mocks provides test doubles for the store package.
package mocks

import (
	"context"

	model "github.com/agentgrowth/leadflow/internal/model"
	store "github.com/agentgrowth/leadflow/internal/store"
	mock "github.com/stretchr/testify/mock"
)

// MockStore is a mock type for the Store interface.
type MockStore struct {
	mock.Mock
}

// CreateLead provides a mock function with given fields: ctx, lead
func (_m *MockStore) CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	ret := _m.Called(ctx, lead)

	if len(ret) == 0 {
		panic("no return value specified for CreateLead")
	}

	var r0 *model.Lead
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.Lead) (*model.Lead, error)); ok {
		return rf(ctx, lead)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.Lead) *model.Lead); ok {
		r0 = rf(ctx, lead)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.Lead)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.Lead) error); ok {
		r1 = rf(ctx, lead)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetLead provides a mock function with given fields: ctx, id
func (_m *MockStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetLead")
	}

	var r0 *model.Lead
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.Lead, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *model.Lead); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.Lead)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// UpdateDeliveryFlags provides a mock function with given fields: ctx, id, generated, sent
func (_m *MockStore) UpdateDeliveryFlags(ctx context.Context, id string, generated bool, sent bool) error {
	ret := _m.Called(ctx, id, generated, sent)

	if len(ret) == 0 {
		panic("no return value specified for UpdateDeliveryFlags")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, bool, bool) error); ok {
		r0 = rf(ctx, id, generated, sent)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// UpdateCRMSynced provides a mock function with given fields: ctx, id, synced
func (_m *MockStore) UpdateCRMSynced(ctx context.Context, id string, synced bool) error {
	ret := _m.Called(ctx, id, synced)

	if len(ret) == 0 {
		panic("no return value specified for UpdateCRMSynced")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, bool) error); ok {
		r0 = rf(ctx, id, synced)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ListLeads provides a mock function with given fields: ctx, filter
func (_m *MockStore) ListLeads(ctx context.Context, filter store.LeadFilter) ([]model.Lead, error) {
	ret := _m.Called(ctx, filter)

	if len(ret) == 0 {
		panic("no return value specified for ListLeads")
	}

	var r0 []model.Lead
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, store.LeadFilter) ([]model.Lead, error)); ok {
		return rf(ctx, filter)
	}
	if rf, ok := ret.Get(0).(func(context.Context, store.LeadFilter) []model.Lead); ok {
		r0 = rf(ctx, filter)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.Lead)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, store.LeadFilter) error); ok {
		r1 = rf(ctx, filter)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetResource provides a mock function with given fields: ctx, id
func (_m *MockStore) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetResource")
	}

	var r0 *model.Resource
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.Resource, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *model.Resource); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.Resource)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// RecordDownload provides a mock function with given fields: ctx, leadID, resourceID
func (_m *MockStore) RecordDownload(ctx context.Context, leadID string, resourceID string) (*model.ResourceDownload, error) {
	ret := _m.Called(ctx, leadID, resourceID)

	if len(ret) == 0 {
		panic("no return value specified for RecordDownload")
	}

	var r0 *model.ResourceDownload
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) (*model.ResourceDownload, error)); ok {
		return rf(ctx, leadID, resourceID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, string) *model.ResourceDownload); ok {
		r0 = rf(ctx, leadID, resourceID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.ResourceDownload)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, leadID, resourceID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Migrate provides a mock function with given fields: ctx
func (_m *MockStore) Migrate(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Migrate")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Close provides a mock function with given fields: 
func (_m *MockStore) Close() error {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Close")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewMockStore creates a new instance of MockStore.
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore {
	m := &MockStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ store.Store = (*MockStore)(nil)
