package models

// UploadRequest is a document sent for summarization as a file.
type UploadRequest struct {
	File        []byte
	Filename    string
	ContentType string
	Persona     string
}
