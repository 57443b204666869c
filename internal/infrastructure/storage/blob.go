// Package storage holds the blob store backends and the image compressor.
package storage

import (
	"fmt"

	"github.com/google/uuid"
)

// objectName returns key, or a fresh unique name under the content type's
// extension when key is empty.
func objectName(key, contentType string) string {
	if key != "" {
		return key
	}
	return fmt.Sprintf("uploads/%s%s", uuid.New().String(), extensionFor(contentType))
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
