package repository

import (
	"context"

	"personjson/internal/domain/entity"
	"personjson/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

// MockPersonRepositoryProvider is a mock of repository.PersonRepositoryProvider.
type MockPersonRepositoryProvider struct {
	mock.Mock
}

var _ repository.PersonRepositoryProvider = (*MockPersonRepositoryProvider)(nil)

// NewMockPersonRepositoryProvider creates a mock whose expectations are asserted when the test ends.
func NewMockPersonRepositoryProvider(t testingT) *MockPersonRepositoryProvider {
	m := &MockPersonRepositoryProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockPersonRepositoryProvider) NewPersonRepository() repository.PersonRepository {
	ret := _m.Called()

	repo, _ := ret.Get(0).(repository.PersonRepository)

	return repo
}

// MockTransactionManager is a mock of repository.TransactionManager. A Return value of type
// func(context.Context, func(repository.RepositoryFactory) error) error is invoked.
type MockTransactionManager struct {
	mock.Mock
}

var _ repository.TransactionManager = (*MockTransactionManager)(nil)

// NewMockTransactionManager creates a mock whose expectations are asserted when the test ends.
func NewMockTransactionManager(t testingT) *MockTransactionManager {
	m := &MockTransactionManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	ret := _m.Called(ctx, fn)

	if rf, ok := ret.Get(0).(func(context.Context, func(repository.RepositoryFactory) error) error); ok {
		return rf(ctx, fn)
	}

	return ret.Error(0)
}

// PassThrough makes Execute run the callback with a factory returning repo.
func (_m *MockTransactionManager) PassThrough(repo repository.PersonRepository) *mock.Call {
	return _m.On("Execute", mock.Anything, mock.Anything).Return(
		func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(staticFactory{repo: repo})
		},
	)
}

type staticFactory struct {
	repo repository.PersonRepository
}

func (f staticFactory) NewPersonRepository() repository.PersonRepository {
	return f.repo
}

// MockAddressColumnDecoder is a mock of repository.AddressColumnDecoder.
type MockAddressColumnDecoder struct {
	mock.Mock
}

var _ repository.AddressColumnDecoder = (*MockAddressColumnDecoder)(nil)

// NewMockAddressColumnDecoder creates a mock whose expectations are asserted when the test ends.
func NewMockAddressColumnDecoder(t testingT) *MockAddressColumnDecoder {
	m := &MockAddressColumnDecoder{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockAddressColumnDecoder) DecodeAddresses(raw string) ([]entity.Address, error) {
	ret := _m.Called(raw)

	addresses, _ := ret.Get(0).([]entity.Address)

	return addresses, ret.Error(1)
}
