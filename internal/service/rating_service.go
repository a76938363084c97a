package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/garage-service/internal/domain"
	"github.com/spec-kit/garage-service/internal/events"
	"github.com/spec-kit/garage-service/internal/observability"
	"github.com/spec-kit/garage-service/internal/repository"
	apperrors "github.com/spec-kit/garage-service/pkg/util"
)

const outcomeAccepted = "accepted"

// RatingService admits reviews and maintains each garage's running average.
type RatingService struct {
	reviews    repository.ReviewRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// RatingDependencies bundles collaborators for the rating service.
type RatingDependencies struct {
	ReviewRepo repository.ReviewRepository
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewRatingService builds the service.
func NewRatingService(deps RatingDependencies) *RatingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{
		reviews:    deps.ReviewRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ReviewInput is a review submission. Rating is required.
type ReviewInput struct {
	Rating  *int
	Comment string
}

// ReviewList is a garage's reviews with its ratings summary.
type ReviewList struct {
	Count   int
	Ratings domain.Ratings
	Reviews []domain.ReviewWithAuthor
}

// SubmitReview records one review per customer per garage and folds its
// rating into the garage's average. The duplicate check, the append and the
// average update all happen inside one per-garage serialized scope.
func (s *RatingService) SubmitReview(ctx context.Context, customerID, garageID string, in ReviewInput) (*domain.Review, error) {
	review, err := s.submit(ctx, customerID, garageID, in)
	if err != nil {
		s.metrics.RecordReview(apperrors.ToDomainError(err).Code)
		return nil, err
	}
	s.metrics.RecordReview(outcomeAccepted)
	return review, nil
}

func (s *RatingService) submit(ctx context.Context, customerID, garageID string, in ReviewInput) (*domain.Review, error) {
	if in.Rating == nil {
		return nil, apperrors.NewValidationError("rating is required", map[string]any{"rating": "is required"})
	}
	if !domain.ValidRating(*in.Rating) {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5",
			map[string]any{"rating": *in.Rating})
	}
	if err := requireID(garageID, "garageId"); err != nil {
		return nil, err
	}

	review := &domain.Review{
		CustomerID: customerID,
		Rating:     *in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
		CreatedAt:  s.now(),
	}
	var ratings domain.Ratings

	err := s.reviews.WithGarageLocked(ctx, garageID, func(ctx context.Context, scope repository.ReviewScope) error {
		exists, err := scope.HasReviewFrom(ctx, customerID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.NewDuplicateReview()
		}
		ratings = scope.Ratings().Add(review.Rating)
		return scope.Append(ctx, review, ratings)
	})
	if err != nil {
		return nil, mapRepoError(err, "garage")
	}

	s.logger.Info("review submitted",
		zap.String("garage_id", garageID),
		zap.String("review_id", review.ID),
		zap.Int("rating_count", ratings.Count))
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.New(events.EventReviewSubmitted,
			events.Actor{AccountID: customerID, Role: domain.RoleCustomer}, garageID,
			events.ReviewSubmittedPayload{ReviewID: review.ID, Rating: review.Rating, Ratings: ratings}))
	}
	return review, nil
}

// ListReviews returns a garage's reviews with author names resolved.
func (s *RatingService) ListReviews(ctx context.Context, garageID string) (*ReviewList, error) {
	if err := requireID(garageID, "garageId"); err != nil {
		return nil, err
	}
	ratings, reviews, err := s.reviews.ListByGarage(ctx, garageID)
	if err != nil {
		return nil, mapRepoError(err, "garage")
	}
	return &ReviewList{Count: len(reviews), Ratings: ratings, Reviews: reviews}, nil
}
