package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hsokol/vjmap/vdev"
)

func TestConflictClassificationUnwraps(t *testing.T) {
	// Busy errors stay classifiable even when wrapped on the way up.
	wrapped := fmt.Errorf("acquire vjoy2: %w", &vdev.BusyError{ID: 2, OwnerPID: 4242})
	c := conflictFromErr(2, wrapped)
	assert.Equal(t, 4242, c.OwnerPID)
	assert.False(t, c.Missing)

	c = conflictFromErr(3, errors.New("no such device"))
	assert.True(t, c.Missing)
}
