package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumeric_AlwaysSixDigits(t *testing.T) {
	g := Numeric{}
	for i := 0; i < 1000; i++ {
		c, err := g.Next()
		require.NoError(t, err)
		require.Len(t, c, 6)
		for _, r := range c {
			require.True(t, r >= '0' && r <= '9', "code %q contains non-digit %q", c, r)
		}
	}
}

func TestNumeric_ProducesVariedCodes(t *testing.T) {
	g := Numeric{}
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		c, err := g.Next()
		require.NoError(t, err)
		seen[c] = struct{}{}
	}
	// 100 draws from a million values colliding down to a handful would
	// indicate a broken generator.
	assert.Greater(t, len(seen), 90)
}
