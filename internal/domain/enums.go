package domain

import (
	"path/filepath"
	"strings"
)

// FileKind classifies an uploaded file by extension.
type FileKind string

const (
	FileKindPDF   FileKind = "pdf"
	FileKindImage FileKind = "image"
)

// ImageExtensions maps accepted image extensions (without dot) to the MIME
// type the file is declared as.
var ImageExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"webp": "image/webp",
}

// ProviderMIMETypes lists the image encodings every provider accepts as-is.
// Anything else is transcoded to JPEG before extraction.
var ProviderMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// imageExtensionOrder keeps health output stable.
var imageExtensionOrder = []string{"jpg", "jpeg", "png", "bmp", "tiff", "webp"}

// Ext returns the lowercased extension of name without the leading dot.
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// ClassifyFile returns the kind of an uploaded file, or false when the
// extension is not accepted.
func ClassifyFile(name string) (FileKind, bool) {
	ext := Ext(name)
	if ext == "pdf" {
		return FileKindPDF, true
	}
	if _, ok := ImageExtensions[ext]; ok {
		return FileKindImage, true
	}
	return "", false
}

// SupportedFormats lists accepted extensions, with pdf only when a page
// renderer is available.
func SupportedFormats(pdfEnabled bool) []string {
	out := append([]string(nil), imageExtensionOrder...)
	if pdfEnabled {
		out = append(out, "pdf")
	}
	return out
}
