package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	original := New("unexpected EOF")
	wrapped := Wrapf(original, "read %s", "systemsWithCoordinates.json")

	assert.Contains(t, wrapped.Error(), "read systemsWithCoordinates.json")
	assert.Contains(t, wrapped.Error(), "unexpected EOF")
	assert.True(t, Is(wrapped, original))
}

func TestSentinels(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		err := NewNotFoundError("region %q", "Wregoe")
		assert.True(t, IsNotFoundError(err))
		assert.False(t, IsInvalidRequestError(err))
		assert.Contains(t, err.Error(), `region "Wregoe"`)
	})

	t.Run("invalid request", func(t *testing.T) {
		err := NewInvalidRequestError("star class %d out of range", 9)
		assert.True(t, IsInvalidRequestError(err))
		assert.False(t, IsMalformedRecordError(err))
	})

	t.Run("malformed record survives further wrapping", func(t *testing.T) {
		err := NewMalformedRecordError("line %d: %s", 3, "missing edsm_id")
		err = Wrap(err, "load catalogue B")
		assert.True(t, IsMalformedRecordError(err))
		assert.Contains(t, err.Error(), "load catalogue B")
	})

	t.Run("nil is never a sentinel", func(t *testing.T) {
		assert.False(t, IsNotFoundError(nil))
		assert.False(t, IsInvalidRequestError(nil))
		assert.False(t, IsMalformedRecordError(nil))
	})
}

type decodeError struct {
	offset int64
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("decode failed at byte %d", e.offset)
}

func TestAs(t *testing.T) {
	wrapped := Wrap(&decodeError{offset: 42}, "feed message")

	var target *decodeError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, int64(42), target.offset)
}

func TestHintsAndDetails(t *testing.T) {
	err := New("queue full")
	err = WithDetail(err, "queue_size=1024")
	err = WithHint(err, "raise feed.queue_size")
	err = Wrap(err, "dispatch FSDJump")

	assert.Contains(t, GetAllHints(err), "raise feed.queue_size")
	assert.Contains(t, GetAllDetails(err), "queue_size=1024")
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")
	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func ExampleWrap() {
	baseErr := New("connection refused")
	err := Wrap(baseErr, "dial relay")
	fmt.Println(err)
	// Output: dial relay: connection refused
}
