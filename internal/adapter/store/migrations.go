package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"neurabase/internal/domain"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 1

var keySchemaInfo = []byte("schema_info")

// SchemaInfo pins the storage format and the embedding space of an index.
type SchemaInfo struct {
	Version   int    `json:"version"`
	Dimension int    `json:"dimension"`
	Model     string `json:"model"`
}

// GetSchemaInfo retrieves the schema info, or nil for a fresh index.
func getSchemaInfo(db *bbolt.DB) (*SchemaInfo, error) {
	var info *SchemaInfo
	err := db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keySchemaInfo)
		if data == nil {
			return nil
		}
		info = &SchemaInfo{}
		return json.Unmarshal(data, info)
	})
	return info, err
}

func setSchemaInfo(db *bbolt.DB, info SchemaInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(keySchemaInfo, data)
	})
}

// checkSchema records the schema of a fresh index, or verifies that an
// existing index was built with the same version and embedding dimension.
// A model change with the same dimension is allowed.
func checkSchema(db *bbolt.DB, dimension int, model string) error {
	info, err := getSchemaInfo(db)
	if err != nil {
		return fmt.Errorf("failed to read schema info: %w", err)
	}

	if info == nil {
		return setSchemaInfo(db, SchemaInfo{
			Version:   CurrentSchemaVersion,
			Dimension: dimension,
			Model:     model,
		})
	}

	return verifySchema(*info, dimension)
}

func verifySchema(info SchemaInfo, dimension int) error {
	if info.Version != CurrentSchemaVersion {
		return fmt.Errorf("%w: index schema version %d, this build reads version %d",
			domain.ErrInvalidConfig, info.Version, CurrentSchemaVersion)
	}
	if info.Dimension != dimension {
		return fmt.Errorf("%w: index was built with %d-dimensional embeddings (%s), embedder produces %d",
			domain.ErrInvalidConfig, info.Dimension, info.Model, dimension)
	}
	return nil
}
