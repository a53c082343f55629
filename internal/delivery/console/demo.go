// Package console runs the address scenario against the configured database and logs what
// happens at each step.
package console

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"personjson/config"
	"personjson/internal/delivery"
	"personjson/internal/domain/entity"
	domainerrors "personjson/internal/domain/errors"
	"personjson/internal/domain/repository"
	"personjson/internal/errors"
	"personjson/internal/usecase"

	"go.uber.org/fx"
)

// SchemaPreparer creates the tables the scenario needs.
type SchemaPreparer func(ctx context.Context, mode string) error

// Params defines the dependencies of the demo.
type Params struct {
	fx.In

	Config  *config.Config
	Logger  *slog.Logger
	Persons usecase.PersonUsecase
	Repos   repository.PersonRepositoryProvider
	Schema  SchemaPreparer
}

type demo struct {
	cfg     *config.Config
	logger  *slog.Logger
	persons usecase.PersonUsecase
	repos   repository.PersonRepositoryProvider
	schema  SchemaPreparer
}

// NewDemo creates the console delivery.
func NewDemo(params Params) delivery.Delivery {
	return &demo{
		cfg:     params.Config,
		logger:  params.Logger,
		persons: params.Persons,
		repos:   params.Repos,
		schema:  params.Schema,
	}
}

var (
	home = entity.Address{
		Type:   entity.AddressTypeHome,
		Number: "123b",
		Street: "Schouwburgring",
		City:   "Tilburg",
	}
	work = entity.Address{
		Type:    entity.AddressTypeWork,
		Company: "4DotNet",
		Number:  "20f",
		Street:  "Nevelgaarde",
		City:    "Nieuwegein",
	}
)

const firstName = "Chris"

// Serve registers Chris with a home address, adds a work address, keeps only the work
// address and finally runs the raw JSON query.
func (d *demo) Serve(ctx context.Context) error {
	if d.schema != nil {
		if err := d.schema(ctx, d.cfg.Persistence.Schema); err != nil {
			return errors.Wrap(err, "prepare schema")
		}
	}

	if err := d.register(ctx); err != nil {
		return err
	}

	person, err := d.persons.AddAddress(ctx, firstName, work)
	if err != nil {
		return errors.Wrap(err, "add work address")
	}
	d.logAddresses(ctx, "Added work address", person)

	person, err = d.persons.KeepAddressesOfType(ctx, firstName, entity.AddressTypeWork)
	if err != nil {
		return errors.Wrap(err, "keep work addresses")
	}
	d.logAddresses(ctx, "Kept work addresses only", person)

	result, err := d.repos.NewPersonRepository().FindPersonsWithWorkAddress(ctx)
	if err != nil {
		return errors.Wrap(err, "query work addresses")
	}

	d.logger.InfoContext(ctx, fmt.Sprintf("Found %d matches", len(result)), slog.Int("matches", len(result)))

	return nil
}

func (d *demo) register(ctx context.Context) error {
	existing, err := d.repos.NewPersonRepository().FindPersonByFirstName(ctx, firstName)
	switch {
	case err == nil:
		d.logAddresses(ctx, "Reusing person from an earlier run", existing)
		return nil
	case !errors.Is(err, domainerrors.ErrPersonNotFound):
		return errors.Wrap(err, "look up person")
	}

	person, err := d.persons.RegisterPerson(ctx, usecase.RegisterPersonInput{
		FirstName:   firstName,
		LastName:    "Sharp",
		DateOfBirth: time.Date(2001, time.December, 11, 0, 0, 0, 0, time.UTC),
		Addresses:   []entity.Address{home},
	})
	if err != nil {
		return errors.Wrap(err, "register person")
	}
	d.logAddresses(ctx, "Registered person", person)

	return nil
}

func (d *demo) logAddresses(ctx context.Context, msg string, person *entity.Person) {
	types := make([]string, 0, len(person.Addresses))
	for _, a := range person.Addresses {
		types = append(types, a.Type)
	}

	d.logger.InfoContext(ctx, msg,
		slog.Int64("id", person.ID),
		slog.String("firstName", person.FirstName),
		slog.Any("addressTypes", types),
	)
}
