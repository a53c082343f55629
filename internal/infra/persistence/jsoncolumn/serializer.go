package jsoncolumn

import (
	"context"
	"reflect"

	"personjson/internal/errors"

	"gorm.io/gorm/schema"
)

// Serializer adapts an Adapter to gorm's schema.SerializerInterface.
type Serializer[T any] struct {
	adapter *Adapter[T]
}

var _ schema.SerializerInterface = Serializer[[]string]{}

// NewSerializer wraps adapter for registration with schema.RegisterSerializer.
func NewSerializer[T any](adapter *Adapter[T]) Serializer[T] {
	return Serializer[T]{adapter: adapter}
}

// Scan converts the column value read from the database and assigns it to the field.
// A NULL column produces the empty default.
func (s Serializer[T]) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue any) error {
	var text string
	switch v := dbValue.(type) {
	case nil:
	case []byte:
		text = string(v)
	case string:
		text = v
	default:
		return errors.Errorf("json column %s: unsupported database value %T", field.DBName, dbValue)
	}

	value, err := s.adapter.load(ctx, text)
	if err != nil {
		return errors.Wrapf(err, "scan field %s", field.Name)
	}

	target := field.ReflectValueOf(ctx, dst)
	source := reflect.ValueOf(&value).Elem()
	if !source.Type().AssignableTo(target.Type()) {
		return errors.Errorf("json column %s: cannot assign %s to field of type %s", field.DBName, source.Type(), target.Type())
	}
	target.Set(source)

	return nil
}

// Value renders the field value as JSON text. It never produces SQL NULL.
func (s Serializer[T]) Value(_ context.Context, field *schema.Field, _ reflect.Value, fieldValue any) (any, error) {
	var value T
	if fieldValue != nil {
		v, ok := fieldValue.(T)
		if !ok {
			return nil, errors.Errorf("json column %s: unexpected field value %T", field.DBName, fieldValue)
		}
		value = v
	}

	return s.adapter.Serialize(value)
}
