package models

import (
	"time"
)

// QueryRequest is the body of a chat query.
type QueryRequest struct {
	Question string `json:"question" binding:"required,min=1,max=2000"`
}

// QueryResponse carries the answer plus the deduplicated source labels.
// Sources is omitted entirely when retrieval produced none.
type QueryResponse struct {
	Answer    string    `json:"answer"`
	Sources   []string  `json:"sources,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRecord is an append-only history entry. Never mutated or deleted
// by the query pipeline; retention is an operator concern.
type ChatRecord struct {
	Question  string    `bson:"question" json:"question"`
	Answer    string    `bson:"answer" json:"answer"`
	Sources   []string  `bson:"sources,omitempty" json:"sources,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
