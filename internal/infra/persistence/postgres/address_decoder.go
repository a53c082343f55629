package postgres

import (
	"personjson/internal/domain/entity"
	"personjson/internal/domain/repository"
	"personjson/internal/infra/persistence/model"
)

type addressColumnDecoder struct{}

// NewAddressColumnDecoder returns a decoder backed by the adapter of the persons.addresses column.
func NewAddressColumnDecoder() repository.AddressColumnDecoder {
	return addressColumnDecoder{}
}

// DecodeAddresses parses raw column text. On failure the empty list is returned with the error.
func (addressColumnDecoder) DecodeAddresses(raw string) ([]entity.Address, error) {
	docs, err := model.Addresses.DeserializeStrict(raw)

	return toAddressesDomain(docs), err
}
