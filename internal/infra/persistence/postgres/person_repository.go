// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"log/slog"

	"personjson/internal/domain/entity"
	domainerrors "personjson/internal/domain/errors"
	"personjson/internal/domain/repository"
	"personjson/internal/errors"
	"personjson/internal/infra/persistence/model"
	"personjson/internal/infra/persistence/tracker"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var personValidator = validator.New(validator.WithRequiredStructEnabled())

// personRepository implements repository.PersonRepository as a unit of work on top of GORM.
// Loaded rows are mapped to entities and their models are attached to a change tracker;
// SaveChanges copies the entities back onto the models and writes only what differs.
type personRepository struct {
	db        *gorm.DB
	logger    *slog.Logger
	sessionID string

	tracker *tracker.Tracker[model.PersonModel]
	models  map[*entity.Person]*model.PersonModel
	persons map[*model.PersonModel]*entity.Person
	byID    map[int64]*entity.Person
}

// NewPersonRepository opens a new unit of work on db.
func NewPersonRepository(db *gorm.DB, logger *slog.Logger) repository.PersonRepository {
	return newPersonRepository(db, logger)
}

func newPersonRepository(db *gorm.DB, logger *slog.Logger) *personRepository {
	if logger == nil {
		logger = slog.Default()
	}

	t, err := tracker.New[model.PersonModel](db.NamingStrategy)
	if err != nil {
		// PersonModel is a static type; failing to parse it is a programming error.
		panic(err)
	}

	sessionID := uuid.NewString()

	return &personRepository{
		db:        db,
		logger:    logger.With(slog.String("session", sessionID)),
		sessionID: sessionID,
		tracker:   t,
		models:    make(map[*entity.Person]*model.PersonModel),
		persons:   make(map[*model.PersonModel]*entity.Person),
		byID:      make(map[int64]*entity.Person),
	}
}

// AddPerson validates the person and schedules it for insertion.
func (repo *personRepository) AddPerson(person *entity.Person) error {
	if person == nil {
		return domainerrors.ErrPersonInvalid.WrapMessage("person is nil")
	}
	if err := validatePerson(person); err != nil {
		return err
	}
	if _, ok := repo.models[person]; ok {
		return nil
	}

	if person.Addresses == nil {
		person.Addresses = []entity.Address{}
	}

	m := fromPersonDomain(person)
	repo.link(person, m)
	repo.tracker.Add(m)

	return nil
}

// FindPersonByID retrieves a single person by its ID.
func (repo *personRepository) FindPersonByID(ctx context.Context, id int64) (*entity.Person, error) {
	var personM model.PersonModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).Take(&personM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrPersonNotFound
		}

		return nil, errors.Wrap(err, "failed to find person by id")
	}

	return repo.attach(&personM), nil
}

// FindPersonByFirstName retrieves the only person with the given first name.
func (repo *personRepository) FindPersonByFirstName(ctx context.Context, firstName string) (*entity.Person, error) {
	var models []model.PersonModel
	err := repo.db.WithContext(ctx).
		Where("first_name = ?", firstName).
		Order("id").
		Limit(2).
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find person by first name")
	}

	switch len(models) {
	case 0:
		return nil, domainerrors.ErrPersonNotFound
	case 1:
		return repo.attach(&models[0]), nil
	default:
		return nil, domainerrors.ErrPersonNotUnique.WrapMessage("first name " + firstName)
	}
}

// FindPersonsByAddressType returns the persons owning an address of the given type.
func (repo *personRepository) FindPersonsByAddressType(ctx context.Context, addressType string) ([]*entity.Person, error) {
	var models []model.PersonModel
	if err := repo.db.WithContext(ctx).Raw(personsByAddressTypeSQL, addressType).Find(&models).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to find persons by address type %q", addressType)
	}

	return repo.attachAll(models), nil
}

// FindPersonsWithWorkAddress executes the raw JSON extraction query as written.
func (repo *personRepository) FindPersonsWithWorkAddress(ctx context.Context) ([]*entity.Person, error) {
	var models []model.PersonModel
	if err := repo.db.WithContext(ctx).Raw(personsWithWorkAddressSQL).Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find persons with a work address")
	}

	return repo.attachAll(models), nil
}

// FindRawAddresses reads the addresses column as stored, without converting it.
func (repo *personRepository) FindRawAddresses(ctx context.Context, id int64) (string, error) {
	var row struct {
		Addresses datatypes.JSON
	}

	err := repo.db.WithContext(ctx).
		Table(model.PersonModel{}.TableName()).
		Select("addresses").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domainerrors.ErrPersonNotFound
		}

		return "", errors.Wrap(err, "failed to read raw addresses")
	}

	return string(row.Addresses), nil
}

// RemovePerson schedules a tracked person for deletion.
func (repo *personRepository) RemovePerson(person *entity.Person) error {
	m, ok := repo.models[person]
	if !ok {
		return domainerrors.ErrPersonNotTracked
	}

	e, _ := repo.tracker.Lookup(m)
	added := e != nil && e.State() == tracker.Added
	repo.tracker.Remove(m)
	if added {
		repo.unlink(person, m)
	}

	return nil
}

// PendingChanges returns the columns SaveChanges would update for person.
// Added and removed persons report none.
func (repo *personRepository) PendingChanges(person *entity.Person) ([]string, error) {
	m, ok := repo.models[person]
	if !ok {
		return nil, domainerrors.ErrPersonNotTracked
	}

	e, ok := repo.tracker.Lookup(m)
	if !ok {
		return nil, domainerrors.ErrPersonNotTracked
	}

	applyPerson(m, person)

	return e.DetectChanges(), nil
}

// SaveChanges writes every pending insert, update and delete in one transaction.
func (repo *personRepository) SaveChanges(ctx context.Context) (int64, error) {
	entries := repo.tracker.Entries()

	for _, e := range entries {
		if e.State() == tracker.Deleted {
			continue
		}
		person := repo.persons[e.Model()]
		applyPerson(e.Model(), person)

		// Rows loaded and left untouched are not written, so they are not validated either.
		if e.State() != tracker.Added && len(e.DetectChanges()) == 0 {
			continue
		}
		if err := validatePerson(person); err != nil {
			return 0, err
		}
	}

	var written int64
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			rows, err := repo.save(tx, e)
			if err != nil {
				return err
			}
			written += rows
		}

		return nil
	})
	if err != nil {
		for _, e := range entries {
			if e.State() == tracker.Added {
				e.Model().ID = 0
			}
		}
		repo.logger.WarnContext(ctx, "Saving persons failed, transaction rolled back",
			slog.Int("entries", len(entries)),
			slog.String("error", err.Error()),
		)

		return 0, err
	}

	for _, e := range entries {
		m := e.Model()
		person := repo.persons[m]
		if e.State() == tracker.Deleted {
			repo.unlink(person, m)
		} else {
			person.ID = m.ID
			repo.byID[m.ID] = person
		}
		repo.tracker.AcceptChanges(e)
	}

	repo.logger.DebugContext(ctx, "Saved persons",
		slog.Int("entries", len(entries)),
		slog.Int64("rows", written),
	)

	return written, nil
}

func (repo *personRepository) save(tx *gorm.DB, e *tracker.Entry[model.PersonModel]) (int64, error) {
	m := e.Model()

	switch e.State() {
	case tracker.Added:
		result := tx.Create(m)
		if result.Error != nil {
			return 0, translatePersonError(result.Error, "failed to insert person")
		}

		return result.RowsAffected, nil

	case tracker.Deleted:
		result := tx.Delete(m)
		if result.Error != nil {
			return 0, translatePersonError(result.Error, "failed to delete person")
		}

		return result.RowsAffected, nil

	default:
		changed := e.DetectChanges()
		if len(changed) == 0 {
			return 0, nil
		}

		result := tx.Model(m).Select(changed).Updates(m)
		if result.Error != nil {
			return 0, translatePersonError(result.Error, "failed to update person")
		}
		repo.logger.Debug("Updated person",
			slog.Int64("id", m.ID),
			slog.Any("columns", changed),
		)

		return result.RowsAffected, nil
	}
}

// attach maps a loaded model and starts tracking it. A row already tracked by this unit of
// work resolves to the existing entity, which keeps any unsaved edits.
func (repo *personRepository) attach(m *model.PersonModel) *entity.Person {
	if existing, ok := repo.byID[m.ID]; ok {
		return existing
	}

	person := toPersonDomain(m)
	repo.link(person, m)
	repo.byID[m.ID] = person
	repo.tracker.Attach(m)

	return person
}

func (repo *personRepository) attachAll(models []model.PersonModel) []*entity.Person {
	persons := make([]*entity.Person, 0, len(models))
	for i := range models {
		persons = append(persons, repo.attach(&models[i]))
	}

	return persons
}

func (repo *personRepository) link(person *entity.Person, m *model.PersonModel) {
	repo.models[person] = m
	repo.persons[m] = person
}

func (repo *personRepository) unlink(person *entity.Person, m *model.PersonModel) {
	delete(repo.models, person)
	delete(repo.persons, m)
	if person != nil && repo.byID[person.ID] == person {
		delete(repo.byID, person.ID)
	}
}

func validatePerson(person *entity.Person) error {
	if err := personValidator.Struct(person); err != nil {
		return domainerrors.ErrPersonInvalid.WithDetails(err.Error())
	}

	return nil
}

func translatePersonError(err error, details string) error {
	switch {
	case isNotNullConstraintViolation(err), isCheckConstraintViolation(err):
		return errors.Wrap(errors.Join(domainerrors.ErrPersonInvalid, err), details)
	case isUniqueConstraintViolation(err), isForeignKeyConstraintViolation(err):
		return errors.Wrap(errors.Join(domainerrors.ErrPersonSaveFailed, err), details)
	default:
		return domainerrors.NewDatabaseExecuteError(err, details)
	}
}

// PersonRepositoryParams defines the dependencies of the repository provider.
type PersonRepositoryParams struct {
	fx.In

	DB     *gorm.DB
	Logger *slog.Logger
}

type personRepositoryProvider struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewPersonRepositoryProvider returns a provider that opens a new unit of work per call.
func NewPersonRepositoryProvider(params PersonRepositoryParams) repository.PersonRepositoryProvider {
	return &personRepositoryProvider{db: params.DB, logger: params.Logger}
}

// NewPersonRepository opens a new unit of work.
func (p *personRepositoryProvider) NewPersonRepository() repository.PersonRepository {
	return NewPersonRepository(p.db, p.logger)
}
