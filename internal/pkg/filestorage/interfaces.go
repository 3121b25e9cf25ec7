package filestorage

import "mime/multipart"

// FileStorage is the storage abstraction for uploaded media. The local
// implementation is the only one wired today; the interface keeps the
// services agnostic of where avatar and cover images physically live.
type FileStorage interface {
	// SaveFile stores an upload in the given bucket (a subdirectory; the
	// shared "avatars" bucket holds both user avatars and community
	// covers) and returns the accessible URL path.
	SaveFile(fileHeader *multipart.FileHeader, bucket string) (string, error)

	// DeleteFile removes a previously stored file. Deleting a missing file
	// is not an error.
	DeleteFile(filePath string) error
}
