package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"invoiceocr/internal/config"
	"invoiceocr/internal/domain"
	"invoiceocr/internal/pipeline"
	"invoiceocr/internal/port"
	"invoiceocr/internal/provider"
)

// UploadFile is one file received in a process request.
type UploadFile struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// InvoiceService defines the invoice extraction contract.
type InvoiceService interface {
	Process(ctx context.Context, files []UploadFile) (*domain.InvoiceRecord, error)
	Health() domain.HealthStatus
}

type invoiceService struct {
	selection *provider.Selection
	renderer  port.PageRenderer
	pipeline  *pipeline.Pipeline
	cfg       *config.UploadConfig
	tempRoot  string
	now       func() time.Time
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(
	selection *provider.Selection,
	renderer port.PageRenderer,
	p *pipeline.Pipeline,
	cfg *config.UploadConfig,
) InvoiceService {
	return &invoiceService{
		selection: selection,
		renderer:  renderer,
		pipeline:  p,
		cfg:       cfg,
		now:       time.Now,
	}
}

// NewInvoiceServiceWithTempRoot is NewInvoiceService with request workspaces
// created under root instead of the system temp directory.
func NewInvoiceServiceWithTempRoot(
	selection *provider.Selection,
	renderer port.PageRenderer,
	p *pipeline.Pipeline,
	cfg *config.UploadConfig,
	root string,
) InvoiceService {
	s := NewInvoiceService(selection, renderer, p, cfg).(*invoiceService)
	s.tempRoot = root
	return s
}

func (s *invoiceService) Health() domain.HealthStatus {
	pdfEnabled := s.renderer.PDFEnabled()
	return domain.HealthStatus{
		Status:           "healthy",
		OCRMode:          s.selection.Mode,
		APIConnected:     s.selection.Connected(),
		Provider:         s.selection.DisplayName,
		PDFEnabled:       pdfEnabled,
		SupportedFormats: domain.SupportedFormats(pdfEnabled),
	}
}

func (s *invoiceService) Process(ctx context.Context, files []UploadFile) (*domain.InvoiceRecord, error) {
	start := s.now()

	if len(files) == 0 {
		return nil, domain.ErrNoFiles
	}
	if !s.selection.Connected() {
		if err := s.selection.Ready(); err != nil {
			return nil, err
		}
		return nil, domain.ErrProviderUnavailable
	}

	kind, err := s.validate(files)
	if err != nil {
		return nil, err
	}
	if kind == domain.FileKindPDF && !s.renderer.PDFEnabled() {
		return nil, fmt.Errorf("%w: install poppler-utils (pdftoppm) to process PDFs", domain.ErrPDFUnsupported)
	}

	workspace, err := os.MkdirTemp(s.tempRoot, "invoiceocr-*")
	if err != nil {
		return nil, fmt.Errorf("creating request workspace: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(workspace); rmErr != nil {
			log.Printf("WARNING: failed to remove request workspace %s: %v", workspace, rmErr)
		}
	}()

	pages, err := s.stage(ctx, kind, files, workspace)
	if err != nil {
		return nil, err
	}

	log.Printf("invoiceService.Process: processing %d page(s) from %d file(s) with %s",
		len(pages), len(files), s.selection.DisplayName)

	record, err := s.pipeline.Process(ctx, s.selection.Extractor, pages, start)
	if err != nil {
		return nil, err
	}
	if record.ProcessingTimeSeconds != nil {
		log.Printf("invoiceService.Process: complete in %.2fs", *record.ProcessingTimeSeconds)
	}
	return record, nil
}

// validate checks the shape of the upload and returns its kind: a single PDF,
// or one or more images.
func (s *invoiceService) validate(files []UploadFile) (domain.FileKind, error) {
	if s.cfg.MaxFiles > 0 && len(files) > s.cfg.MaxFiles {
		return "", fmt.Errorf("%w: %d files, limit is %d", domain.ErrTooManyFiles, len(files), s.cfg.MaxFiles)
	}
	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024

	for _, f := range files {
		kind, ok := domain.ClassifyFile(f.Filename)
		if len(files) > 1 && kind != domain.FileKindImage {
			return "", fmt.Errorf("%w. Found: %s", domain.ErrMixedUpload, f.Filename)
		}
		if !ok {
			return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, f.Filename)
		}
		if maxBytes > 0 && f.Size > maxBytes {
			return "", fmt.Errorf("%w: %s is larger than %d MB", domain.ErrFileTooLarge, f.Filename, s.cfg.MaxFileSizeMB)
		}
	}

	if len(files) == 1 {
		kind, _ := domain.ClassifyFile(files[0].Filename)
		return kind, nil
	}
	return domain.FileKindImage, nil
}

// stage writes the uploads into workspace and turns them into pages.
func (s *invoiceService) stage(ctx context.Context, kind domain.FileKind, files []UploadFile, workspace string) ([]domain.PageImage, error) {
	if kind == domain.FileKindPDF {
		path, err := s.save(files[0], workspace)
		if err != nil {
			return nil, err
		}
		log.Printf("invoiceService.Process: rendering PDF %s", files[0].Filename)
		return s.renderer.RenderPDF(ctx, path, workspace)
	}

	pages := make([]domain.PageImage, 0, len(files))
	for i, f := range files {
		path, err := s.save(f, workspace)
		if err != nil {
			return nil, err
		}
		page, err := s.renderer.PrepareImage(ctx, path, workspace, i)
		if err != nil {
			return nil, fmt.Errorf("preparing %s: %w", f.Filename, err)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// save copies an upload into workspace under a generated name that keeps the
// original extension.
func (s *invoiceService) save(f UploadFile, workspace string) (string, error) {
	path := filepath.Join(workspace, uuid.New().String()+"."+domain.Ext(f.Filename))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating temp file for %s: %w", f.Filename, err)
	}
	defer out.Close()

	var src io.Reader = f.Content
	if maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024; maxBytes > 0 {
		src = io.LimitReader(f.Content, maxBytes+1)
	}
	n, err := io.Copy(out, src)
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", f.Filename, err)
	}
	if maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024; maxBytes > 0 && n > maxBytes {
		return "", fmt.Errorf("%w: %s is larger than %d MB", domain.ErrFileTooLarge, f.Filename, s.cfg.MaxFileSizeMB)
	}
	return path, nil
}
