package session

import (
	"testing"

	"github.com/ldupont/messager/internal/types"
	"github.com/stretchr/testify/assert"
)

func Test_sessionKey(t *testing.T) {
	assert.Equal(t, "session:abc123", sessionKey("abc123"))
}

func Test_decodeSnapshot(t *testing.T) {
	tcases := []struct {
		name     string
		data     string
		expected types.User
		err      error
	}{
		{
			name: "valid snapshot",
			data: `{"id":7,"username":"alice","email":"alice@x.com","external_id":"ext-1"}`,
			expected: types.User{
				Id:         7,
				Username:   "alice",
				Email:      "alice@x.com",
				ExternalId: "ext-1",
			},
			err: nil,
		},
		{
			name: "malformed json is a miss",
			data: `{"id":`,
			err:  ErrNotFound,
		},
		{
			name: "empty snapshot is a miss",
			data: `{}`,
			err:  ErrNotFound,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := decodeSnapshot([]byte(tc.data))
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, u)
		})
	}
}
