// Package repository holds testify mocks of the domain repository interfaces.
package repository

import (
	"context"

	"personjson/internal/domain/entity"
	"personjson/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockPersonRepository is a mock of repository.PersonRepository.
type MockPersonRepository struct {
	mock.Mock
}

var _ repository.PersonRepository = (*MockPersonRepository)(nil)

// NewMockPersonRepository creates a mock whose expectations are asserted when the test ends.
func NewMockPersonRepository(t testingT) *MockPersonRepository {
	m := &MockPersonRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockPersonRepository_Expecter records expectations by method.
type MockPersonRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockPersonRepository) EXPECT() *MockPersonRepository_Expecter {
	return &MockPersonRepository_Expecter{mock: &_m.Mock}
}

func (_m *MockPersonRepository) AddPerson(person *entity.Person) error {
	ret := _m.Called(person)

	return ret.Error(0)
}

func (_e *MockPersonRepository_Expecter) AddPerson(person any) *mock.Call {
	return _e.mock.On("AddPerson", person)
}

func (_m *MockPersonRepository) FindPersonByID(ctx context.Context, id int64) (*entity.Person, error) {
	ret := _m.Called(ctx, id)

	return personOrNil(ret, 0), ret.Error(1)
}

func (_e *MockPersonRepository_Expecter) FindPersonByID(ctx, id any) *mock.Call {
	return _e.mock.On("FindPersonByID", ctx, id)
}

func (_m *MockPersonRepository) FindPersonByFirstName(ctx context.Context, firstName string) (*entity.Person, error) {
	ret := _m.Called(ctx, firstName)

	return personOrNil(ret, 0), ret.Error(1)
}

func (_e *MockPersonRepository_Expecter) FindPersonByFirstName(ctx, firstName any) *mock.Call {
	return _e.mock.On("FindPersonByFirstName", ctx, firstName)
}

func (_m *MockPersonRepository) FindPersonsByAddressType(ctx context.Context, addressType string) ([]*entity.Person, error) {
	ret := _m.Called(ctx, addressType)

	return personsOrNil(ret, 0), ret.Error(1)
}

func (_e *MockPersonRepository_Expecter) FindPersonsByAddressType(ctx, addressType any) *mock.Call {
	return _e.mock.On("FindPersonsByAddressType", ctx, addressType)
}

func (_m *MockPersonRepository) FindPersonsWithWorkAddress(ctx context.Context) ([]*entity.Person, error) {
	ret := _m.Called(ctx)

	return personsOrNil(ret, 0), ret.Error(1)
}

func (_e *MockPersonRepository_Expecter) FindPersonsWithWorkAddress(ctx any) *mock.Call {
	return _e.mock.On("FindPersonsWithWorkAddress", ctx)
}

func (_m *MockPersonRepository) FindRawAddresses(ctx context.Context, id int64) (string, error) {
	ret := _m.Called(ctx, id)

	return ret.String(0), ret.Error(1)
}

func (_e *MockPersonRepository_Expecter) FindRawAddresses(ctx, id any) *mock.Call {
	return _e.mock.On("FindRawAddresses", ctx, id)
}

func (_m *MockPersonRepository) RemovePerson(person *entity.Person) error {
	ret := _m.Called(person)

	return ret.Error(0)
}

func (_e *MockPersonRepository_Expecter) RemovePerson(person any) *mock.Call {
	return _e.mock.On("RemovePerson", person)
}

func (_m *MockPersonRepository) PendingChanges(person *entity.Person) ([]string, error) {
	ret := _m.Called(person)

	var changes []string
	if v, ok := ret.Get(0).([]string); ok {
		changes = v
	}

	return changes, ret.Error(1)
}

func (_e *MockPersonRepository_Expecter) PendingChanges(person any) *mock.Call {
	return _e.mock.On("PendingChanges", person)
}

func (_m *MockPersonRepository) SaveChanges(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)

	written, _ := ret.Get(0).(int64)

	return written, ret.Error(1)
}

func (_e *MockPersonRepository_Expecter) SaveChanges(ctx any) *mock.Call {
	return _e.mock.On("SaveChanges", ctx)
}

func personOrNil(ret mock.Arguments, i int) *entity.Person {
	p, _ := ret.Get(i).(*entity.Person)

	return p
}

func personsOrNil(ret mock.Arguments, i int) []*entity.Person {
	p, _ := ret.Get(i).([]*entity.Person)

	return p
}
