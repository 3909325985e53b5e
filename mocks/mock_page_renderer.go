package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoiceocr/internal/domain"
)

// MockPageRenderer is a mock implementation of port.PageRenderer.
type MockPageRenderer struct {
	mock.Mock
}

func (m *MockPageRenderer) RenderPDF(ctx context.Context, pdfPath, dir string) ([]domain.PageImage, error) {
	args := m.Called(ctx, pdfPath, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PageImage), args.Error(1)
}

func (m *MockPageRenderer) PrepareImage(ctx context.Context, imagePath, dir string, index int) (domain.PageImage, error) {
	args := m.Called(ctx, imagePath, dir, index)
	if fn, ok := args.Get(0).(func(context.Context, string, string, int) domain.PageImage); ok {
		return fn(ctx, imagePath, dir, index), args.Error(1)
	}
	return args.Get(0).(domain.PageImage), args.Error(1)
}

func (m *MockPageRenderer) PDFEnabled() bool {
	args := m.Called()
	return args.Bool(0)
}
