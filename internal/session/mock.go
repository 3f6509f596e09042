package session

import (
	"context"

	"github.com/ldupont/messager/internal/types"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Put(ctx context.Context, token string, user types.User) error {
	args := m.Called(ctx, token, user)
	return args.Error(0)
}

func (m *MockStore) Get(ctx context.Context, token string) (types.User, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(types.User), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
