package config

import (
	"strings"
	"sync"
)

const (
	VectorStorePgvector = "pgvector"
	VectorStoreQdrant   = "qdrant"
)

type VectorConfig struct {
	Store            string
	Dimensions       int
	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string
}

var (
	vectorConfig *VectorConfig
	vectorOnce   sync.Once
)

func LoadVectorConfig() *VectorConfig {
	vectorOnce.Do(func() {
		vectorConfig = &VectorConfig{
			Store:            strings.ToLower(getString("VECTOR_STORE", VectorStorePgvector)),
			Dimensions:       getInt("EMBEDDING_DIMENSIONS", 768),
			QdrantURL:        getString("QDRANT_URL", "http://localhost:6334"),
			QdrantAPIKey:     getString("QDRANT_API_KEY", ""),
			QdrantCollection: getString("QDRANT_COLLECTION", "candidate_cvs"),
		}
	})
	return vectorConfig
}
