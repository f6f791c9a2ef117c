package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWrapStoreUnavailable(t *testing.T) {
	cause := New("disk I/O error")
	err := WrapStoreUnavailable(cause, "scope lookup")

	require.Error(t, err)
	assert.True(t, IsStoreUnavailable(err))
	assert.False(t, IsConfigUnavailable(err))
	assert.Contains(t, err.Error(), "scope lookup")
	assert.Contains(t, err.Error(), "disk I/O error")

	// Marks survive further wrapping with document context
	outer := Wrapf(err, "document %s line %d", "chapter1", 7)
	assert.True(t, IsStoreUnavailable(outer))
	assert.Contains(t, outer.Error(), "chapter1 line 7")
}

func TestWrapConfigUnavailable(t *testing.T) {
	err := WrapConfigUnavailable(New("unexpected end of JSON input"), "decode ontology")
	assert.True(t, IsConfigUnavailable(err))
	assert.True(t, Is(err, ErrConfigUnavailable))

	assert.Nil(t, WrapConfigUnavailable(nil, "nothing"))
	assert.Nil(t, WrapStoreUnavailable(nil, "nothing"))
}

func TestNewMalformedRecordError(t *testing.T) {
	err := NewMalformedRecordError("attribute %s needs 4 fields, got %d", "A1", 3)

	assert.True(t, IsMalformedRecord(err))
	assert.Equal(t, "attribute A1 needs 4 fields, got 3", err.Error())
	assert.False(t, IsMalformedRecord(nil))
}

func TestWithHint(t *testing.T) {
	err := WithHint(ErrConfigUnavailable, "check ontology.path in am.toml")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "check ontology.path in am.toml", hints[0])
	assert.True(t, Is(err, ErrConfigUnavailable))
}

func TestWithDetailf(t *testing.T) {
	err := WithDetailf(New("error"), "line %d", 12)

	details := GetAllDetails(err)
	require.Len(t, details, 1)
	assert.Equal(t, "line 12", details[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
	assert.NotNil(t, GetStack(err))
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func ExampleWrap() {
	baseErr := New("connection refused")
	err := Wrap(baseErr, "failed to open normalization database")
	fmt.Println(err)
	// Output: failed to open normalization database: connection refused
}
