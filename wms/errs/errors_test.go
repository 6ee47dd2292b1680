package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"fulfillment-wms/wms/errs"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	base := errs.NewNotFound("item", "ITEM-404")
	wrapped := fmt.Errorf("lookup: %w", base)

	assert.Equal(t, errs.NotFound, errs.KindOf(wrapped))
	assert.True(t, errs.Is(wrapped, errs.NotFound))
	assert.False(t, errs.Is(wrapped, errs.NoSpace))
	assert.True(t, errors.Is(wrapped, &errs.Error{Kind: errs.NotFound}))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, errs.Internal, errs.KindOf(errors.New("boom")))
	assert.False(t, errs.Is(nil, errs.Internal))
}

func TestTransitionMessage(t *testing.T) {
	err := errs.NewTransition("order", "ORD-1", "PICKING", "PACKED")

	assert.Equal(t, "PICKING", err.State)
	assert.Equal(t, "INVALID_TRANSITION: order ORD-1 (state PICKING): cannot move from PICKING to PACKED", err.Error())
}
