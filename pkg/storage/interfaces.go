package storage

import "io"

// ObjectStorage stores opaque blobs under opaque keys. The core persists
// the keys as storage refs and never interprets them.
type ObjectStorage interface {
	Upload(key string, reader io.Reader) error
	Download(key string) (io.ReadCloser, error)
	Delete(key string) error
	PublicURL(key string) string
}

// ImageService produces CDN-served variants (full size, thumbnail) for
// an uploaded image.
type ImageService interface {
	Upload(reader io.Reader, filename string) (string, []string, error)
	Delete(imageID string) error
	GetPublicURL(imageID string) string
	GetThumbnailURL(imageID string) string
}
