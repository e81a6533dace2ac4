package errors

import (
	stderrors "errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ StackTracer = (*DomainError)(nil)
	_ StackTracer = (*ErrorTracer)(nil)
)

func TestDomainError_WrapCapturesStack(t *testing.T) {
	cause := stderrors.New("broken pipe")
	err := NewDomainError(FeedConnectivityError, "failed to read from trade feed").Wrap(cause)

	var tracer StackTracer
	require.True(t, As(err, &tracer))
	assert.NotEmpty(t, tracer.StackTrace())
	assert.True(t, stderrors.Is(err, cause))
}

func TestDomainError_WrapKeepsExistingStack(t *testing.T) {
	cause := pkgerrors.New("no such topic")
	err := NewDomainError(FeedConnectivityError, "failed to read from trade feed").Wrap(cause)

	// the cause already carries a stack, it must not be re-wrapped
	require.Same(t, cause, err.Err)
	assert.NotEmpty(t, err.StackTrace())
}

func TestDomainError_StackTraceEmptyWithoutCause(t *testing.T) {
	err := NewDomainError(QueryValidationError, "pair is required")
	assert.Nil(t, err.StackTrace())
}

func TestTracerFromError(t *testing.T) {
	plain := stderrors.New("connection reset")
	tracer := TracerFromError(plain)
	assert.NotEmpty(t, tracer.StackTrace())
	assert.True(t, stderrors.Is(tracer, plain))

	traced := pkgerrors.New("already traced")
	assert.Same(t, traced, TracerFromError(traced).Err)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, TradeDecodeError, CodeOf(NewDomainError(TradeDecodeError, "missing symbol")))
	assert.Equal(t, GeneralInternalServerError, CodeOf(stderrors.New("anything")))

	wrapped := NewDomainError(FeedConnectivityError, "read failed").Wrap(stderrors.New("dial tcp"))
	assert.True(t, IsCode(wrapped, FeedConnectivityError))
}
