package console

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"personjson/config"
	"personjson/internal/domain/entity"
	domainerrors "personjson/internal/domain/errors"
	"personjson/internal/errors"
	mockRepo "personjson/internal/mocks/repository"
	"personjson/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var birthday = time.Date(2001, time.December, 11, 0, 0, 0, 0, time.UTC)

type mockPersonUsecase struct {
	mock.Mock
}

func (m *mockPersonUsecase) RegisterPerson(ctx context.Context, input usecase.RegisterPersonInput) (*entity.Person, error) {
	ret := m.Called(ctx, input)
	p, _ := ret.Get(0).(*entity.Person)
	return p, ret.Error(1)
}

func (m *mockPersonUsecase) AddAddress(ctx context.Context, firstName string, address entity.Address) (*entity.Person, error) {
	ret := m.Called(ctx, firstName, address)
	p, _ := ret.Get(0).(*entity.Person)
	return p, ret.Error(1)
}

func (m *mockPersonUsecase) KeepAddressesOfType(ctx context.Context, firstName, addressType string) (*entity.Person, error) {
	ret := m.Called(ctx, firstName, addressType)
	p, _ := ret.Get(0).(*entity.Person)
	return p, ret.Error(1)
}

func (m *mockPersonUsecase) FindPersonsByAddressType(ctx context.Context, addressType string) ([]*entity.Person, error) {
	ret := m.Called(ctx, addressType)
	p, _ := ret.Get(0).([]*entity.Person)
	return p, ret.Error(1)
}

func (m *mockPersonUsecase) InspectAddresses(ctx context.Context, id int64) (*usecase.AddressColumnReport, error) {
	ret := m.Called(ctx, id)
	r, _ := ret.Get(0).(*usecase.AddressColumnReport)
	return r, ret.Error(1)
}

type demoFixtures struct {
	demo     *demo
	persons  *mockPersonUsecase
	provider *mockRepo.MockPersonRepositoryProvider
	repo     *mockRepo.MockPersonRepository
	logs     *bytes.Buffer
	modes    []string
}

func newDemoFixtures(t *testing.T) *demoFixtures {
	t.Helper()

	f := &demoFixtures{
		persons:  &mockPersonUsecase{},
		provider: mockRepo.NewMockPersonRepositoryProvider(t),
		repo:     mockRepo.NewMockPersonRepository(t),
		logs:     &bytes.Buffer{},
	}
	t.Cleanup(func() { f.persons.AssertExpectations(t) })

	cfg := &config.Config{}
	cfg.Persistence.Schema = config.SchemaFixture

	f.demo = NewDemo(Params{
		Config:  cfg,
		Logger:  slog.New(slog.NewTextHandler(f.logs, nil)),
		Persons: f.persons,
		Repos:   f.provider,
		Schema: func(_ context.Context, mode string) error {
			f.modes = append(f.modes, mode)
			return nil
		},
	}).(*demo)
	f.provider.On("NewPersonRepository").Return(f.repo)

	return f
}

func TestDemo_Serve(t *testing.T) {
	f := newDemoFixtures(t)
	ctx := context.Background()

	chris := entity.NewPerson(firstName, "Sharp", birthday, home)
	chris.ID = 1
	both := entity.NewPerson(firstName, "Sharp", chris.DateOfBirth, home, work)
	onlyWork := entity.NewPerson(firstName, "Sharp", chris.DateOfBirth, work)

	f.repo.EXPECT().FindPersonByFirstName(ctx, firstName).Return(nil, domainerrors.ErrPersonNotFound)
	f.persons.On("RegisterPerson", ctx, mock.MatchedBy(func(in usecase.RegisterPersonInput) bool {
		return in.FirstName == firstName && len(in.Addresses) == 1 && in.Addresses[0] == home
	})).Return(chris, nil)
	f.persons.On("AddAddress", ctx, firstName, work).Return(both, nil)
	f.persons.On("KeepAddressesOfType", ctx, firstName, entity.AddressTypeWork).Return(onlyWork, nil)
	f.repo.EXPECT().FindPersonsWithWorkAddress(ctx).Return([]*entity.Person{onlyWork}, nil)

	require.NoError(t, f.demo.Serve(ctx))
	assert.Equal(t, []string{config.SchemaFixture}, f.modes)
	assert.Contains(t, f.logs.String(), "Found 1 matches")
	assert.Contains(t, f.logs.String(), "Registered person")
}

func TestDemo_Serve_ReusesExistingPerson(t *testing.T) {
	f := newDemoFixtures(t)
	ctx := context.Background()
	chris := entity.NewPerson(firstName, "Sharp", birthday, work)

	f.repo.EXPECT().FindPersonByFirstName(ctx, firstName).Return(chris, nil)
	f.persons.On("AddAddress", ctx, firstName, work).Return(chris, nil)
	f.persons.On("KeepAddressesOfType", ctx, firstName, entity.AddressTypeWork).Return(chris, nil)
	f.repo.EXPECT().FindPersonsWithWorkAddress(ctx).Return([]*entity.Person{}, nil)

	require.NoError(t, f.demo.Serve(ctx))
	assert.Contains(t, f.logs.String(), "Reusing person from an earlier run")
	assert.Contains(t, f.logs.String(), "Found 0 matches")
	f.persons.AssertNotCalled(t, "RegisterPerson", mock.Anything, mock.Anything)
}

func TestDemo_Serve_StopsOnFailure(t *testing.T) {
	f := newDemoFixtures(t)
	ctx := context.Background()
	cause := errors.New("connection refused")

	f.repo.EXPECT().FindPersonByFirstName(ctx, firstName).Return(nil, cause)

	err := f.demo.Serve(ctx)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "look up person")
}
