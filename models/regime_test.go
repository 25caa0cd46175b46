package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegimeIndexRoundTrip(t *testing.T) {
	for i, regime := range Regimes {
		assert.Equal(t, i, regime.Index())
		assert.Equal(t, regime, RegimeFromIndex(i))
	}
}

func TestRegimeIndexDefaultsToNeutral(t *testing.T) {
	assert.Equal(t, RegimeNeutral.Index(), Regime("sideways").Index())
	assert.Equal(t, RegimeNeutral, RegimeFromIndex(-1))
	assert.Equal(t, RegimeNeutral, RegimeFromIndex(len(Regimes)))
}
