package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoiceocr/internal/domain"
	"invoiceocr/internal/service"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Process(ctx context.Context, files []service.UploadFile) (*domain.InvoiceRecord, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceRecord), args.Error(1)
}

func (m *MockInvoiceService) Health() domain.HealthStatus {
	args := m.Called()
	return args.Get(0).(domain.HealthStatus)
}
