package mocks

import (
	"context"

	"github.com/kaixxz/MediNote/pkg/aiprovider"
	"github.com/stretchr/testify/mock"
)

type Provider struct {
	mock.Mock
}

func (m *Provider) Complete(ctx context.Context, req aiprovider.Request) (aiprovider.Response, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(aiprovider.Response), args.Error(1)
}
