package port

import "neurabase/internal/domain"

type Chunker interface {
	Chunk(source string, text string) ([]domain.Chunk, error)
}
