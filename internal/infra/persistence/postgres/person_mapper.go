package postgres

import (
	"time"

	"personjson/internal/domain/entity"
	"personjson/internal/infra/persistence/model"

	"github.com/aarondl/null/v8"
	"gorm.io/datatypes"
)

// toPersonDomain converts a GORM PersonModel to a domain Person entity.
func toPersonDomain(data *model.PersonModel) *entity.Person {
	if data == nil {
		return nil
	}

	return &entity.Person{
		ID:          data.ID,
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		DateOfBirth: time.Time(data.DateOfBirth),
		Addresses:   toAddressesDomain(data.Addresses),
	}
}

// fromPersonDomain converts a domain Person entity to a GORM PersonModel for persistence.
func fromPersonDomain(data *entity.Person) *model.PersonModel {
	if data == nil {
		return nil
	}

	m := &model.PersonModel{ID: data.ID}
	applyPerson(m, data)

	return m
}

// applyPerson copies the mutable state of a person onto its tracked model. The key is left alone.
func applyPerson(m *model.PersonModel, data *entity.Person) {
	m.FirstName = data.FirstName
	m.LastName = data.LastName
	m.DateOfBirth = datatypes.Date(data.DateOfBirth)
	m.Addresses = fromAddressesDomain(data.Addresses)
}

func toAddressesDomain(docs model.AddressDocuments) []entity.Address {
	addresses := make([]entity.Address, 0, len(docs))
	for _, doc := range docs {
		addresses = append(addresses, entity.Address{
			Type:    doc.Type,
			Company: doc.Company.String,
			Number:  doc.Number,
			Street:  doc.Street,
			City:    doc.City,
		})
	}

	return addresses
}

func fromAddressesDomain(addresses []entity.Address) model.AddressDocuments {
	docs := make(model.AddressDocuments, 0, len(addresses))
	for _, a := range addresses {
		docs = append(docs, model.AddressDocument{
			Type:    a.Type,
			Company: null.NewString(a.Company, a.Company != ""),
			Number:  a.Number,
			Street:  a.Street,
			City:    a.City,
		})
	}

	return docs
}
