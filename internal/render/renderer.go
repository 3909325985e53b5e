package render

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"invoiceocr/internal/config"
	"invoiceocr/internal/domain"
)

const pageMIMEType = "image/jpeg"

// Renderer rasterizes PDFs with pdftoppm and stages uploaded images.
type Renderer struct {
	runner     Runner
	pdftoppm   string
	dpi        int
	pdfEnabled bool
}

// New creates a Renderer. PDF support is enabled only when the pdftoppm
// binary can be found.
func New(cfg config.RenderConfig) *Renderer {
	bin := cfg.Pdftoppm
	if bin == "" {
		bin = "pdftoppm"
	}
	_, err := exec.LookPath(bin)
	if err != nil {
		log.Printf("render.New: %s not found, PDF uploads disabled: %v", bin, err)
	} else {
		log.Printf("render.New: PDF support enabled via %s at %d DPI", bin, cfg.DPI)
	}
	return NewWithRunner(cfg, ExecRunner{}, err == nil)
}

// NewWithRunner creates a Renderer with an explicit command runner.
func NewWithRunner(cfg config.RenderConfig, runner Runner, pdfEnabled bool) *Renderer {
	bin := cfg.Pdftoppm
	if bin == "" {
		bin = "pdftoppm"
	}
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = 300
	}
	return &Renderer{runner: runner, pdftoppm: bin, dpi: dpi, pdfEnabled: pdfEnabled}
}

// PDFEnabled reports whether PDFs can be rasterized.
func (r *Renderer) PDFEnabled() bool {
	return r.pdfEnabled
}

// RenderPDF writes one JPEG per page of pdfPath into dir and returns them in
// page order.
func (r *Renderer) RenderPDF(ctx context.Context, pdfPath, dir string) ([]domain.PageImage, error) {
	if !r.pdfEnabled {
		return nil, domain.ErrPDFUnsupported
	}

	prefix := filepath.Join(dir, "page")
	// pdftoppm -r 300 -jpeg <in.pdf> <dir/page> writes page-1.jpg, page-2.jpg, ...
	_, errb, err := r.runner.Run(ctx, r.pdftoppm, "-r", strconv.Itoa(r.dpi), "-jpeg", pdfPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %s", domain.ErrPDFConversion, err, truncate(strings.TrimSpace(string(errb)), 500))
	}

	matches, err := filepath.Glob(prefix + "-*.jpg")
	if err != nil {
		return nil, fmt.Errorf("%w: listing pages: %v", domain.ErrPDFConversion, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no pages rendered", domain.ErrPDFConversion)
	}
	sort.Slice(matches, func(i, j int) bool {
		return pageNumber(prefix, matches[i]) < pageNumber(prefix, matches[j])
	})

	pages := make([]domain.PageImage, len(matches))
	for i, path := range matches {
		pages[i] = domain.PageImage{Index: i, Path: path, MIMEType: pageMIMEType}
	}
	log.Printf("render.RenderPDF: %s rendered to %d page(s)", filepath.Base(pdfPath), len(pages))
	return pages, nil
}

// pageNumber extracts N from "<prefix>-N.jpg". pdftoppm zero-pads N to the
// width of the page count, so lexical order is not reliable across inputs.
func pageNumber(prefix, path string) int {
	s := strings.TrimSuffix(strings.TrimPrefix(path, prefix+"-"), ".jpg")
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// PrepareImage stages an uploaded image as page index. JPEG, PNG and WebP are
// used as-is; BMP and TIFF are re-encoded to JPEG inside dir.
func (r *Renderer) PrepareImage(_ context.Context, imagePath, dir string, index int) (domain.PageImage, error) {
	ext := domain.Ext(imagePath)
	mimeType, ok := domain.ImageExtensions[ext]
	if !ok {
		return domain.PageImage{}, fmt.Errorf("%w: .%s", domain.ErrUnsupportedFileType, ext)
	}
	if domain.ProviderMIMETypes[mimeType] {
		return domain.PageImage{Index: index, Path: imagePath, MIMEType: mimeType}, nil
	}

	img, err := imaging.Open(imagePath)
	if err != nil {
		return domain.PageImage{}, fmt.Errorf("decoding %s image: %w", ext, err)
	}
	out := filepath.Join(dir, fmt.Sprintf("image-%03d.jpg", index+1))
	if err := imaging.Save(img, out, imaging.JPEGQuality(95)); err != nil {
		return domain.PageImage{}, fmt.Errorf("encoding %s as JPEG: %w", ext, err)
	}
	return domain.PageImage{Index: index, Path: out, MIMEType: pageMIMEType}, nil
}
