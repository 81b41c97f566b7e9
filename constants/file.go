package constants

import "strings"

// File formats recognized by the extraction gateway.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
)

// AllowedImageExtensions holds the image extensions accepted for OCR.
// HEIC/HEIF are not listed here; they are admitted through the image/* MIME
// prefix and decoded with a dedicated decoder.
var AllowedImageExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
	"bmp":  {},
	"tiff": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension to a gateway format. Returns "" for
// extensions the gateway does not handle.
func MapExtToFormat(ext string) string {
	e := NormalizeExt(ext)
	if e == "pdf" {
		return PDF
	}
	if _, ok := AllowedImageExtensions[e]; ok {
		return IMAGE
	}
	return ""
}

// IsHEICExt reports whether the extension names an HEIC/HEIF container.
func IsHEICExt(ext string) bool {
	switch NormalizeExt(ext) {
	case "heic", "heif", "heics", "heifs":
		return true
	}
	return false
}
