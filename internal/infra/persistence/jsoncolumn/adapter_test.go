package jsoncolumn

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stop struct {
	Kind  string
	Name  *string
	Place string
}

func strPtr(s string) *string { return &s }

func sampleStops() []stop {
	return []stop{
		{Kind: "Home", Place: "Tilburg"},
		{Kind: "Work", Name: strPtr("4DotNet"), Place: "Nieuwegein"},
	}
}

func TestAdapter_RoundTripPreservesOrderAndFields(t *testing.T) {
	a := New[[]stop]()

	text, err := a.Serialize(sampleStops())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"Kind":"Home","Name":null,"Place":"Tilburg"},{"Kind":"Work","Name":"4DotNet","Place":"Nieuwegein"}]`, text)

	got := a.Deserialize(text)
	if diff := cmp.Diff(sampleStops(), got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestAdapter_SerializeNilAsEmptyDefault(t *testing.T) {
	a := New[[]stop]()

	text, err := a.Serialize(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", text)
}

func TestAdapter_DeserializeFallsBackToEmptyDefault(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	a := New(WithLogger[[]stop](logger), WithColumn[[]stop]("stops"))

	tests := []struct {
		name    string
		text    string
		wantLog bool
	}{
		{name: "empty", text: ""},
		{name: "whitespace", text: "   "},
		{name: "null", text: "null"},
		{name: "truncated", text: `[{"Kind":"Home"`, wantLog: true},
		{name: "wrong shape", text: `{"Kind":"Home"}`, wantLog: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.Reset()

			got := a.Deserialize(tt.text)
			require.NotNil(t, got)
			assert.Empty(t, got)

			if tt.wantLog {
				assert.Contains(t, logs.String(), "Unreadable JSON column text")
				assert.Contains(t, logs.String(), "column=stops")
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}

func TestAdapter_DeserializeStrictReportsParseFailure(t *testing.T) {
	a := New[[]stop]()

	got, err := a.DeserializeStrict(`[{"Kind":`)
	require.Error(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = a.DeserializeStrict(`[]`)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAdapter_WithDefault(t *testing.T) {
	a := New(WithDefault(func() []stop { return []stop{{Kind: "Unknown"}} }))

	assert.Equal(t, []stop{{Kind: "Unknown"}}, a.Deserialize(""))
}

func TestAdapter_PointerDefaultIsAllocated(t *testing.T) {
	a := New[*stop]()

	got := a.Deserialize("null")
	require.NotNil(t, got)
	assert.Equal(t, stop{}, *got)
}

func TestAdapter_AreEqual(t *testing.T) {
	a := New[[]stop]()

	assert.True(t, a.AreEqual(sampleStops(), sampleStops()))
	assert.True(t, a.AreEqual(nil, []stop{}))

	changed := sampleStops()
	changed[1].Place = "Utrecht"
	assert.False(t, a.AreEqual(sampleStops(), changed))

	reordered := sampleStops()
	reordered[0], reordered[1] = reordered[1], reordered[0]
	assert.False(t, a.AreEqual(sampleStops(), reordered))
}

func TestAdapter_HashConsistentWithEquality(t *testing.T) {
	a := New[[]stop]()

	assert.Zero(t, a.Hash(nil))
	assert.Zero(t, a.Hash([]stop{}))

	h1 := a.Hash(sampleStops())
	h2 := a.Hash(sampleStops())
	assert.NotZero(t, h1)
	assert.Equal(t, h1, h2)

	changed := sampleStops()
	changed[0].Kind = "Holiday"
	assert.NotEqual(t, h1, a.Hash(changed))
}

func TestAdapter_SnapshotIsDetached(t *testing.T) {
	a := New[[]stop]()
	live := sampleStops()

	snap := a.Snapshot(live)
	require.True(t, a.AreEqual(live, snap))

	live[0].Place = "Breda"
	*live[1].Name = "Other"
	live = append(live, stop{Kind: "Holiday"})

	assert.Equal(t, "Tilburg", snap[0].Place)
	assert.Equal(t, "4DotNet", *snap[1].Name)
	assert.Len(t, snap, 2)
	assert.False(t, a.AreEqual(live, snap))
}

func TestColumnType(t *testing.T) {
	tests := map[string]string{
		"postgres":  "JSONB",
		"mysql":     "JSON",
		"sqlite":    "JSON",
		"sqlserver": "NVARCHAR(MAX)",
		"Postgres":  "JSONB",
		"oracle":    "",
	}

	for dialect, want := range tests {
		assert.Equal(t, want, ColumnType(dialect), dialect)
	}
}
