package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotClone(t *testing.T) {
	orig := Snapshot{"a": "SPEED_PLUS"}
	c := orig.Clone()
	c["b"] = "NO_TRAIT"

	assert.Len(t, orig, 1)
	assert.Equal(t, Snapshot{}, Snapshot(nil).Clone())
}
