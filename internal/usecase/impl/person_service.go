package impl

import (
	"context"
	"log/slog"

	"personjson/internal/domain/entity"
	"personjson/internal/domain/repository"
	"personjson/internal/errors"
	"personjson/internal/usecase"

	"go.uber.org/fx"
)

// PersonServiceParams defines the dependencies of the person service.
type PersonServiceParams struct {
	fx.In

	Repos     repository.PersonRepositoryProvider
	TxManager repository.TransactionManager
	Decoder   repository.AddressColumnDecoder
	Logger    *slog.Logger
}

type personService struct {
	repos     repository.PersonRepositoryProvider
	txManager repository.TransactionManager
	decoder   repository.AddressColumnDecoder
	logger    *slog.Logger
}

// NewPersonService creates a new person service instance
func NewPersonService(params PersonServiceParams) usecase.PersonUsecase {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &personService{
		repos:     params.Repos,
		txManager: params.TxManager,
		decoder:   params.Decoder,
		logger:    logger,
	}
}

// RegisterPerson stores a new person in its own unit of work.
func (s *personService) RegisterPerson(ctx context.Context, input usecase.RegisterPersonInput) (*entity.Person, error) {
	person := entity.NewPerson(input.FirstName, input.LastName, input.DateOfBirth, input.Addresses...)

	repo := s.repos.NewPersonRepository()
	if err := repo.AddPerson(person); err != nil {
		return nil, err
	}

	if _, err := repo.SaveChanges(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to register person")
	}

	s.logger.InfoContext(ctx, "Registered person",
		slog.Int64("id", person.ID),
		slog.Int("addresses", len(person.Addresses)),
	)

	return person, nil
}

// AddAddress loads the person, appends the address in place and saves, in one transaction.
func (s *personService) AddAddress(ctx context.Context, firstName string, address entity.Address) (*entity.Person, error) {
	return s.updatePerson(ctx, firstName, func(person *entity.Person) {
		person.AddAddress(address)
	})
}

// KeepAddressesOfType replaces the address list with its subset of the given type.
func (s *personService) KeepAddressesOfType(ctx context.Context, firstName, addressType string) (*entity.Person, error) {
	return s.updatePerson(ctx, firstName, func(person *entity.Person) {
		person.Addresses = person.AddressesOfType(addressType)
	})
}

// FindPersonsByAddressType lists the persons owning an address of the given type.
func (s *personService) FindPersonsByAddressType(ctx context.Context, addressType string) ([]*entity.Person, error) {
	persons, err := s.repos.NewPersonRepository().FindPersonsByAddressType(ctx, addressType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find persons by address type")
	}

	return persons, nil
}

// InspectAddresses reads the raw column and decodes it strictly, so a corrupted column is
// reported rather than shown as an empty list.
func (s *personService) InspectAddresses(ctx context.Context, id int64) (*usecase.AddressColumnReport, error) {
	raw, err := s.repos.NewPersonRepository().FindRawAddresses(ctx, id)
	if err != nil {
		return nil, err
	}

	report := &usecase.AddressColumnReport{
		PersonID: id,
		Raw:      raw,
		Parsed:   true,
	}

	addresses, err := s.decoder.DecodeAddresses(raw)
	if err != nil {
		report.Parsed = false
		report.ParseError = err.Error()
		s.logger.WarnContext(ctx, "Stored addresses are unreadable",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
	}
	report.Addresses = addresses

	return report, nil
}

func (s *personService) updatePerson(ctx context.Context, firstName string, mutate func(*entity.Person)) (*entity.Person, error) {
	var (
		person  *entity.Person
		written int64
	)

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		repo := factory.NewPersonRepository()

		var err error
		person, err = repo.FindPersonByFirstName(ctx, firstName)
		if err != nil {
			return err
		}

		mutate(person)

		written, err = repo.SaveChanges(ctx)

		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "Updated person addresses",
		slog.Int64("id", person.ID),
		slog.Int("addresses", len(person.Addresses)),
		slog.Int64("rows", written),
	)

	return person, nil
}
