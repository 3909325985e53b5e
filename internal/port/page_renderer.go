package port

import (
	"context"

	"invoiceocr/internal/domain"
)

// PageRenderer turns uploaded files into page images inside dir.
type PageRenderer interface {
	// RenderPDF rasterizes every page of the PDF at pdfPath, in page order.
	RenderPDF(ctx context.Context, pdfPath, dir string) ([]domain.PageImage, error)
	// PrepareImage stages a single uploaded image as a page, transcoding it
	// when the provider cannot accept its encoding.
	PrepareImage(ctx context.Context, imagePath, dir string, index int) (domain.PageImage, error)
	// PDFEnabled reports whether PDF rasterization is available.
	PDFEnabled() bool
}
