package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoiceocr/internal/domain"
)

// MockExtractor is a mock implementation of port.Extractor.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, page domain.PageImage) (string, error) {
	args := m.Called(ctx, page)
	return args.String(0), args.Error(1)
}

func (m *MockExtractor) Name() string {
	args := m.Called()
	return args.String(0)
}
