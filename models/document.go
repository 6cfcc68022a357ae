package models

import (
	"time"
)

// Document is the metadata record for an uploaded PDF.
type Document struct {
	ID           string     `bson:"_id" json:"id"`
	Filename     string     `bson:"filename" json:"filename"`
	FilePath     string     `bson:"file_path" json:"-"`
	FileSize     int64      `bson:"file_size" json:"file_size"`
	NumChunks    int        `bson:"num_chunks" json:"num_chunks"`
	Status       string     `bson:"status" json:"status"`
	ErrorMessage string     `bson:"error_message,omitempty" json:"error_message,omitempty"`
	UploadedAt   time.Time  `bson:"uploaded_at" json:"uploaded_at"`
	ProcessedAt  *time.Time `bson:"processed_at,omitempty" json:"processed_at,omitempty"`
}

// Document processing status constants.
const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
	StatusFailed    = "failed"
)

// Chunk is a bounded span of a document's extracted text used as a retrieval unit.
type Chunk struct {
	DocumentID string `bson:"document_id" json:"document_id"`
	ChunkID    string `bson:"chunk_id" json:"chunk_id"`
	Order      int    `bson:"order" json:"order"`
	Text       string `bson:"text" json:"text"`
	Source     string `bson:"source" json:"source"`
}

// UploadResponse is returned after an upload request.
type UploadResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DocumentID string `json:"document_id,omitempty"`
	Filename   string `json:"filename,omitempty"`
	NumChunks  int    `json:"num_chunks,omitempty"`
	TaskID     string `json:"task_id,omitempty"`
}
