package core

import (
	"context"
	"time"
)

// Classifier defines the interface for the statistical category classifier
type Classifier interface {
	// Classify returns a category label and a confidence in [0,1] for the text
	Classify(ctx context.Context, text string) (*Classification, error)
}

// ClassificationCache defines the interface for caching classifier results
type ClassificationCache interface {
	// Get retrieves a cached classification for a text key
	Get(key string) (*Classification, bool)

	// Set stores a classification under a text key
	Set(key string, result *Classification, ttl time.Duration)

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
