package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/membership-pass/internal/events"
	"github.com/spec-kit/membership-pass/internal/repository"
)

// PassActivityService reacts to pass lifecycle events.
type PassActivityService struct {
	dispatcher events.Dispatcher
	activity   repository.PassActivityRepository
	logger     *zap.Logger
	unsubs     []func()
}

// NewPassActivityService creates the service.
func NewPassActivityService(dispatcher events.Dispatcher, activity repository.PassActivityRepository, logger *zap.Logger) *PassActivityService {
	return &PassActivityService{
		dispatcher: dispatcher,
		activity:   activity,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (p *PassActivityService) RegisterHandlers() {
	if p.dispatcher == nil {
		return
	}
	p.unsubs = append(p.unsubs,
		p.dispatcher.Subscribe(events.EventPassViewActivated, p.handleViewActivated),
		p.dispatcher.Subscribe(events.EventPassViewDeactivated, p.handleViewDeactivated),
	)
}

// UnregisterHandlers removes the subscriptions made by RegisterHandlers.
func (p *PassActivityService) UnregisterHandlers() {
	for _, unsub := range p.unsubs {
		unsub()
	}
	p.unsubs = nil
}

func (p *PassActivityService) handleViewActivated(ctx context.Context, event events.Event) error {
	p.logger.Debug("PassViewActivated", zap.String("view_id", event.ViewID), zap.Any("payload", event.Payload))
	if event.MemberID == "" || p.activity == nil {
		return nil
	}
	return p.activity.RecordView(ctx, event.MemberID, event.Timestamp)
}

func (p *PassActivityService) handleViewDeactivated(_ context.Context, event events.Event) error {
	p.logger.Debug("PassViewDeactivated", zap.String("view_id", event.ViewID), zap.Any("payload", event.Payload))
	return nil
}
