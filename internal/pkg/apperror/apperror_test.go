package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSample = New(KindConflict, "ALREADY_CHECKED_IN", "already checked in today")

func TestError_IsMatchesWrappedCopies(t *testing.T) {
	wrapped := Wrap(errSample, errors.New("duplicate key"))
	assert.ErrorIs(t, wrapped, errSample)
	assert.ErrorIs(t, fmt.Errorf("check in: %w", wrapped), errSample)
	assert.Contains(t, wrapped.Error(), "duplicate key")

	other := New(KindConflict, "NOT_CHECKED_IN", "not checked in")
	assert.NotErrorIs(t, wrapped, other)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("ctx: %w", errSample)))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))
	assert.Equal(t, "ALREADY_CHECKED_IN", FromError(errSample).Code)

	internal := FromError(errors.New("boom"))
	assert.Equal(t, KindInternal, internal.Kind)
	assert.Equal(t, "internal server error: boom", internal.Error())
}

func TestWithMessage(t *testing.T) {
	e := WithMessage(errSample, "employee already checked in on 2024-01-02")
	assert.ErrorIs(t, e, errSample)
	assert.Equal(t, "already checked in today", errSample.Message)
}
