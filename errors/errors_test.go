package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type endpointError struct {
	link int
}

func (e *endpointError) Error() string {
	return fmt.Sprintf("link %d references a missing node", e.link)
}

func TestWrapKeepsTypedCause(t *testing.T) {
	err := Wrapf(&endpointError{link: 3}, "rejecting payload from %s", "cypher")
	assert.Contains(t, err.Error(), "rejecting payload from cypher")
	assert.Contains(t, err.Error(), "link 3")

	var target *endpointError
	require.True(t, As(err, &target))
	assert.Equal(t, 3, target.link)
}

func TestSentinels(t *testing.T) {
	stopped := Wrap(ErrStopped, "pin node 2")
	assert.True(t, Is(stopped, ErrStopped))
	assert.False(t, Is(stopped, ErrInvalidRequest))
	assert.True(t, IsAny(stopped, ErrNotFound, ErrStopped))

	unavailable := Wrap(ErrServiceUnavailable, "dial tcp 127.0.0.1:7687")
	assert.True(t, IsServiceUnavailableError(unavailable))
	assert.False(t, IsServiceUnavailableError(nil))
}

func TestNewInvalidRequestError(t *testing.T) {
	err := NewInvalidRequestError("node handle %d out of range", 9)
	assert.True(t, IsInvalidRequestError(err))
	assert.Contains(t, err.Error(), "node handle 9 out of range")
	assert.False(t, IsInvalidRequestError(New("other")))
}

func TestHintsAndDetails(t *testing.T) {
	err := WithDetailf(WithHint(New("bad link"), "check the source/target indices"), "node count %d", 4)

	assert.Equal(t, []string{"check the source/target indices"}, GetAllHints(err))
	assert.Equal(t, []string{"node count 4"}, GetAllDetails(err))
	assert.Contains(t, FlattenHints(err), "source/target")
}

func TestStackTrace(t *testing.T) {
	detailed := fmt.Sprintf("%+v", New("with stack"))
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, UnwrapOnce(New("leaf")))
}
