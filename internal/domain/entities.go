package domain

import "fmt"

// Document is an uploaded file waiting to be parsed. It only lives for the
// duration of one ingestion.
type Document struct {
	Name string // base name, also the grouping key for its chunks
	Ext  string // lower-case extension without the dot
	Path string
}

type Chunk struct {
	ID     string
	Source string
	Index  int
	Text   string
}

// ChunkID builds the store id of the index-th chunk of a document.
func ChunkID(source string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", source, index)
}

// VectorRecord is the unit persisted in the vector store.
type VectorRecord struct {
	ID        string
	Text      string
	Embedding []float32
	Metadata  RecordMetadata
}

type RecordMetadata struct {
	Source  string `json:"source"`
	ChunkID int    `json:"chunk_id"`
}

// Match is one query hit, ordered by the store's native ranking.
type Match struct {
	ID       string
	Text     string
	Score    float64
	Metadata RecordMetadata
}

type Query struct {
	Question string
	TopK     int
}

// DefaultTopK is used when a query does not ask for a positive result count.
const DefaultTopK = 3

type IngestResult struct {
	Source        string `json:"source"`
	ChunksWritten int    `json:"chunks_written"`
}

// Message renders the human readable summary returned to upload clients.
func (r IngestResult) Message() string {
	return fmt.Sprintf("Successfully ingested %d chunks from %s", r.ChunksWritten, r.Source)
}
