// Package jsoncolumn maps a Go value onto a single JSON-typed database column.
//
// An Adapter supplies the three callbacks an ORM needs for such a column: conversion to the
// stored text, conversion back from it, and a value comparer that change tracking can use to
// notice in-place mutations. Configure plugs an Adapter into gorm's serializer registry so a
// model field tagged `serializer:<name>` is converted through it, and records the adapter as the
// comparer for that name.
//
// Equality and hashing are derived from the serialized text. That costs a serialization per
// comparison, which is fine for the small documents this package is meant for.
package jsoncolumn

import (
	"context"
	"log/slog"
	"reflect"
	"strings"

	"personjson/internal/errors"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
)

// Adapter converts values of type T to and from JSON text and compares them by value.
// An Adapter is safe for concurrent use once constructed.
type Adapter[T any] struct {
	column     string
	strict     bool
	logger     *slog.Logger
	newDefault func() T
}

// Option configures an Adapter.
type Option[T any] func(*Adapter[T])

// WithDefault overrides the value produced when the stored text holds nothing usable.
func WithDefault[T any](fn func() T) Option[T] {
	return func(a *Adapter[T]) {
		if fn != nil {
			a.newDefault = fn
		}
	}
}

// WithLogger sets the logger used to report unreadable column text.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(a *Adapter[T]) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithColumn names the column in log records and errors.
func WithColumn[T any](column string) Option[T] {
	return func(a *Adapter[T]) {
		a.column = column
	}
}

// WithStrictDecoding makes loads fail on unreadable column text instead of
// substituting the empty default.
func WithStrictDecoding[T any]() Option[T] {
	return func(a *Adapter[T]) {
		a.strict = true
	}
}

// New creates an Adapter for T.
func New[T any](opts ...Option[T]) *Adapter[T] {
	a := &Adapter[T]{
		newDefault: emptyDefault[T],
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Column returns the column name the adapter reports in logs.
func (a *Adapter[T]) Column() string {
	return a.column
}

// Serialize renders value as JSON text. A nil value is rendered as the empty default,
// so a nil collection and an empty one are stored identically.
func (a *Adapter[T]) Serialize(value T) (string, error) {
	if isNil(value) {
		value = a.newDefault()
	}

	data, err := json.Marshal(value)
	if err != nil {
		return "", errors.Wrapf(err, "encode %s", a.describe())
	}

	return string(data), nil
}

// Deserialize parses text into a fresh T. Text that is empty, null or unreadable yields the
// empty default; unreadable text is logged.
func (a *Adapter[T]) Deserialize(text string) T {
	value, err := a.DeserializeStrict(text)
	if err != nil {
		a.reportUnreadable(context.Background(), err)
	}

	return value
}

// DeserializeStrict is Deserialize without the silent fallback: the empty default is still
// returned, together with the parse error.
func (a *Adapter[T]) DeserializeStrict(text string) (T, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "null" {
		return a.newDefault(), nil
	}

	var value T
	if err := json.Unmarshal([]byte(trimmed), &value); err != nil {
		return a.newDefault(), errors.Wrapf(err, "decode %s", a.describe())
	}

	if isNil(value) {
		return a.newDefault(), nil
	}

	return value, nil
}

// AreEqual reports whether both values serialize to the same text.
func (a *Adapter[T]) AreEqual(left, right T) bool {
	l, err := a.Serialize(left)
	if err != nil {
		return false
	}

	r, err := a.Serialize(right)
	if err != nil {
		return false
	}

	return l == r
}

// Hash returns 0 for nil or empty values, otherwise a hash of the serialized text.
// Values for which AreEqual is true hash equally.
func (a *Adapter[T]) Hash(value T) uint64 {
	if isEmpty(value) {
		return 0
	}

	text, err := a.Serialize(value)
	if err != nil {
		return 0
	}

	return xxhash.Sum64String(text)
}

// Snapshot returns a deep copy of value that shares no memory with it.
func (a *Adapter[T]) Snapshot(value T) T {
	text, err := a.Serialize(value)
	if err != nil {
		return a.newDefault()
	}

	return a.Deserialize(text)
}

// load is used by the gorm serializer; it honours strict decoding.
func (a *Adapter[T]) load(ctx context.Context, text string) (T, error) {
	value, err := a.DeserializeStrict(text)
	if err == nil {
		return value, nil
	}

	if a.strict {
		return value, err
	}

	a.reportUnreadable(ctx, err)

	return value, nil
}

// reportUnreadable falls back to the default logger at call time, so a logger installed with
// slog.SetDefault after the adapter was configured is honoured.
func (a *Adapter[T]) reportUnreadable(ctx context.Context, err error) {
	logger := a.logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.WarnContext(ctx, "Unreadable JSON column text replaced by empty default",
		slog.String("column", a.column),
		slog.String("error", err.Error()),
	)
}

func (a *Adapter[T]) describe() string {
	if a.column == "" {
		return "json column"
	}

	return "json column " + a.column
}

// emptyDefault builds a non-nil empty value: an empty slice or map, a pointer to a zero
// struct, or the zero value for everything else.
func emptyDefault[T any]() T {
	var zero T
	t := reflect.TypeOf((*T)(nil)).Elem()

	switch t.Kind() {
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0).Interface().(T)
	case reflect.Map:
		return reflect.MakeMap(t).Interface().(T)
	case reflect.Pointer:
		return reflect.New(t.Elem()).Interface().(T)
	default:
		return zero
	}
}

func isNil(value any) bool {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

func isEmpty(value any) bool {
	if isNil(value) {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return v.Len() == 0
	default:
		return false
	}
}
