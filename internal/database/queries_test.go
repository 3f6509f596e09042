package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_normalizePair(t *testing.T) {
	tcases := []struct {
		name  string
		a, b  int
		wantA int
		wantB int
	}{
		{name: "already ordered", a: 1, b: 2, wantA: 1, wantB: 2},
		{name: "reversed", a: 7, b: 3, wantA: 3, wantB: 7},
		{name: "same user", a: 5, b: 5, wantA: 5, wantB: 5},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			u1, u2 := normalizePair(tc.a, tc.b)
			assert.Equal(t, tc.wantA, u1)
			assert.Equal(t, tc.wantB, u2)

			// symmetric: swapping the arguments yields the same storage order
			r1, r2 := normalizePair(tc.b, tc.a)
			assert.Equal(t, u1, r1)
			assert.Equal(t, u2, r2)
		})
	}
}
