package filestorage

import (
	"mime/multipart"
)

// FileStorage defines the interface for document storage operations
type FileStorage interface {
	// SaveFile stores a file at the storage root and returns its relative path
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// SaveFileWithPath stores a file under subPath and returns its relative path
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a file previously returned by SaveFile; missing files are not an error
	DeleteFile(filePath string) error

	// GetFullPath returns the filesystem path of a stored relative path
	GetFullPath(filePath string) (string, error)
}
