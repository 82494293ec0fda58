package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RishiKendai/codeplag/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const submissionsCollection = "submissions"

// ErrDuplicateSubmission is returned when a corpus already holds a
// submission with the same id.
var ErrDuplicateSubmission = errors.New("submission already exists")

type SubmissionsRepository struct {
	mongoRepo *MongoRepository
}

func NewSubmissionsRepository(mongoRepo *MongoRepository) *SubmissionsRepository {
	return &SubmissionsRepository{
		mongoRepo: mongoRepo,
	}
}

// EnsureIndexes creates the unique (corpusId, submissionId) index.
func (r *SubmissionsRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.mongoRepo.GetCollection(submissionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "corpusId", Value: 1}, {Key: "submissionId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create submissions index: %w", err)
	}
	return nil
}

func (r *SubmissionsRepository) InsertSubmission(ctx context.Context, submission *models.Submission) error {
	submission.CreatedAt = time.Now()
	err := r.mongoRepo.InsertOne(ctx, submissionsCollection, submission)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateSubmission, submission.SubmissionID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}

	return nil
}

// GetSubmissionsByCorpusID returns the corpus in insertion order.
func (r *SubmissionsRepository) GetSubmissionsByCorpusID(ctx context.Context, corpusID string) ([]*models.Submission, error) {
	filter := bson.M{"corpusId": corpusID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "submissionId", Value: 1}})

	cursor, err := r.mongoRepo.FindMany(ctx, submissionsCollection, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find submissions: %w", err)
	}
	defer cursor.Close(ctx)

	var submissions []*models.Submission
	if err := cursor.All(ctx, &submissions); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}

	return submissions, nil
}

func (r *SubmissionsRepository) CountSubmissionsByCorpusID(ctx context.Context, corpusID string) (int64, error) {
	filter := bson.M{"corpusId": corpusID}

	count, err := r.mongoRepo.CountDocuments(ctx, submissionsCollection, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	return count, nil
}
