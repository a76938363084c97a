package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/garage-service/internal/cache"
	"github.com/spec-kit/garage-service/internal/events"
)

// ActivityService reacts to marketplace events: it records them in the log
// and retires cached discovery results whenever a garage changes.
type ActivityService struct {
	dispatcher events.Dispatcher
	nearby     *cache.NearbyCache
	logger     *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, nearby *cache.NearbyCache, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		dispatcher: dispatcher,
		nearby:     nearby,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventAccountRegistered, a.handleAccountRegistered)
	a.dispatcher.Subscribe(events.EventReviewSubmitted, a.handleReviewSubmitted)
	a.dispatcher.Subscribe(events.EventPreferredGarageAdded, a.handlePreferredGarageAdded)
	a.dispatcher.Subscribe(events.EventGarageUpdated, a.handleGarageUpdated)
}

func (a *ActivityService) handleAccountRegistered(ctx context.Context, event events.Event) error {
	a.logger.Info("AccountRegistered",
		zap.String("account_id", event.Actor.AccountID),
		zap.String("role", string(event.Actor.Role)))
	return nil
}

func (a *ActivityService) handleReviewSubmitted(ctx context.Context, event events.Event) error {
	a.logger.Info("ReviewSubmitted",
		zap.String("garage_id", event.GarageID),
		zap.String("customer_id", event.Actor.AccountID),
		zap.Any("payload", event.Payload))
	// Ratings are part of the nearby projection.
	a.nearby.Invalidate(ctx)
	return nil
}

func (a *ActivityService) handlePreferredGarageAdded(ctx context.Context, event events.Event) error {
	a.logger.Info("PreferredGarageAdded",
		zap.String("garage_id", event.GarageID),
		zap.String("customer_id", event.Actor.AccountID))
	return nil
}

func (a *ActivityService) handleGarageUpdated(ctx context.Context, event events.Event) error {
	a.logger.Info("GarageUpdated", zap.String("garage_id", event.GarageID), zap.Any("payload", event.Payload))
	a.nearby.Invalidate(ctx)
	return nil
}
