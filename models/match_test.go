package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalPair(t *testing.T) {
	a, b := CanonicalPair("zoe", "amy")
	assert.Equal(t, "amy", a)
	assert.Equal(t, "zoe", b)

	a, b = CanonicalPair("amy", "zoe")
	assert.Equal(t, "amy", a)
	assert.Equal(t, "zoe", b)
}

func TestPairID_OrderIndependent(t *testing.T) {
	assert.Equal(t, PairID("zoe", "amy"), PairID("amy", "zoe"))
	assert.Equal(t, "amy#zoe", PairID("zoe", "amy"))
}
