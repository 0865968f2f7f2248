package types

// FileMetadata describes one file stored by the upload sink
type FileMetadata struct {
	Name     string `json:"name"`     // Part file name
	Size     int64  `json:"size"`     // Stored size in bytes
	MimeType string `json:"mimeType"` // Content-Type of the part
	Checksum string `json:"checksum"` // SHA-256 checksum
}

// UploadResult is the JSON body the sink answers an upload with
type UploadResult struct {
	ID    string         `json:"id"`
	Files []FileMetadata `json:"files"`
}
