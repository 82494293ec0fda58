package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/RishiKendai/codeplag/internal/models"
	"github.com/RishiKendai/codeplag/internal/normalize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const normalizedCollection = "normalized_copies"

type NormalizedRepository struct {
	mongoRepo *MongoRepository
}

func NewNormalizedRepository(mongoRepo *MongoRepository) *NormalizedRepository {
	return &NormalizedRepository{
		mongoRepo: mongoRepo,
	}
}

// UpsertCopy stores doc, replacing an earlier copy of the same path.
func (r *NormalizedRepository) UpsertCopy(ctx context.Context, doc *models.NormalizedCopy) error {
	doc.UpdatedAt = time.Now()
	filter := bson.M{"corpusId": doc.CorpusID, "path": doc.Path}

	err := r.mongoRepo.ReplaceOne(ctx, normalizedCollection, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to store normalized copy: %w", err)
	}
	return nil
}

func (r *NormalizedRepository) GetCopy(ctx context.Context, corpusID, path string) (*models.NormalizedCopy, error) {
	filter := bson.M{"corpusId": corpusID, "path": path}

	var doc models.NormalizedCopy
	err := r.mongoRepo.FindOne(ctx, normalizedCollection, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find normalized copy: %w", err)
	}
	return &doc, nil
}

// Sink returns a normalize.Sink that stores the copies of one corpus.
func (r *NormalizedRepository) Sink(corpusID string, features []normalize.Feature) normalize.Sink {
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = string(f)
	}
	return &normalizedSink{repo: r, corpusID: corpusID, features: names}
}

type normalizedSink struct {
	repo     *NormalizedRepository
	corpusID string
	features []string
}

func (s *normalizedSink) Write(ctx context.Context, path, normalized string) error {
	return s.repo.UpsertCopy(ctx, &models.NormalizedCopy{
		CorpusID: s.corpusID,
		Path:     path,
		Text:     normalized,
		Features: s.features,
	})
}
