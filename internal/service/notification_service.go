package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/aftersales-service/internal/authz"
	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/events"
	"github.com/spec-kit/aftersales-service/internal/repository"
	apperrors "github.com/spec-kit/aftersales-service/pkg/util/errorutil"
)

// NotificationService turns lifecycle events into in-app notification rows
// and serves the per-user notification feed. Fan-out runs after the core
// mutation has committed; a failed write for one recipient never blocks
// the others.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	dispatcher    events.Dispatcher
	cache         *redis.Client
	cacheTTL      time.Duration
	logger        *zap.Logger
}

// NotificationDependencies bundles collaborators.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	Dispatcher       events.Dispatcher
	Cache            *redis.Client
	CacheTTL         time.Duration
	Logger           *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		notifications: deps.NotificationRepo,
		users:         deps.UserRepo,
		dispatcher:    deps.Dispatcher,
		cache:         deps.Cache,
		cacheTTL:      deps.CacheTTL,
		logger:        logger,
	}
}

// RegisterHandlers subscribes to lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRequestCreated, n.handleRequestCreated)
	n.dispatcher.Subscribe(events.EventRequestStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventRequestAssigned, n.handleAssigned)
	n.dispatcher.Subscribe(events.EventRequestCostAdded, n.handleCostAdded)
	n.dispatcher.Subscribe(events.EventRequestClosed, n.handleClosed)
}

// ListForUser returns the user's notification feed, newest first.
func (n *NotificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	items, err := n.notifications.ListByUser(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// MarkRead flips one notification to read.
func (n *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := n.notifications.MarkRead(ctx, id, userID); err != nil {
		return apperrors.MapError(err)
	}
	n.invalidateUnread(ctx, userID)
	return nil
}

// MarkAllRead flips the user's whole feed to read.
func (n *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	count, err := n.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	n.invalidateUnread(ctx, userID)
	return count, nil
}

// UnreadCount returns the user's unread total, served from Redis when the
// cache is warm and falling back to the database otherwise.
func (n *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	key := unreadKey(userID)
	if n.cache != nil {
		if cached, err := n.cache.Get(ctx, key).Result(); err == nil {
			if count, convErr := strconv.Atoi(cached); convErr == nil {
				return count, nil
			}
		}
	}
	count, err := n.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if n.cache != nil {
		if err := n.cache.Set(ctx, key, count, n.cacheTTL).Err(); err != nil {
			n.logger.Debug("unread cache set failed", zap.Error(err))
		}
	}
	return count, nil
}

func (n *NotificationService) handleRequestCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestCreatedPayload)
	if !ok {
		return nil
	}
	recipients, err := n.departmentManagers(ctx, payload.DepartmentID)
	if err != nil {
		n.logger.Warn("notification fan-out: list recipients", zap.Error(err))
		return err
	}
	title := "New service request"
	message := fmt.Sprintf("request %s was registered in your department: %s", payload.RequestNumber, payload.IssuePreview)
	for _, recipient := range recipients {
		n.deliver(ctx, recipient.ID, &event.RequestID, title, message, domain.NotificationRequestCreated)
	}
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestStatusChangedPayload)
	if !ok {
		return nil
	}
	title := "Request status changed"
	message := fmt.Sprintf("request %s moved from %s to %s", payload.RequestNumber, payload.OldStatus, payload.NewStatus)

	if event.ActorRole == domain.RoleTechnician {
		recipients, err := n.departmentManagers(ctx, payload.DepartmentID)
		if err != nil {
			return err
		}
		for _, recipient := range recipients {
			n.deliver(ctx, recipient.ID, &event.RequestID, title, message, domain.NotificationStatusChanged)
		}
		return nil
	}

	if payload.AssignedTechnicianID != nil && *payload.AssignedTechnicianID != event.ActorID {
		n.deliver(ctx, *payload.AssignedTechnicianID, &event.RequestID, title, message, domain.NotificationStatusChanged)
	}
	return nil
}

func (n *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestAssignedPayload)
	if !ok {
		return nil
	}
	n.deliver(ctx, payload.TechnicianID, &event.RequestID,
		"Request assigned to you",
		fmt.Sprintf("request %s has been assigned to you", payload.RequestNumber),
		domain.NotificationAssigned)

	// the previous technician loses access, so no request reference
	if payload.PrevTechnicianID != nil && *payload.PrevTechnicianID != payload.TechnicianID {
		n.deliver(ctx, *payload.PrevTechnicianID, nil,
			"Request reassigned",
			fmt.Sprintf("request %s was reassigned to another technician", payload.RequestNumber),
			domain.NotificationAssignmentMoved)
	}
	return nil
}

func (n *NotificationService) handleCostAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestCostAddedPayload)
	if !ok {
		return nil
	}
	if !authz.IsManagerOrSupervisor(event.ActorRole) {
		return nil
	}
	if payload.AssignedTechnicianID == nil || *payload.AssignedTechnicianID == event.ActorID {
		return nil
	}
	n.deliver(ctx, *payload.AssignedTechnicianID, &event.RequestID,
		"Cost added",
		fmt.Sprintf("a cost of %.2f %s was added to request %s", payload.Amount, payload.Currency, payload.RequestNumber),
		domain.NotificationCostAdded)
	return nil
}

func (n *NotificationService) handleClosed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestClosedPayload)
	if !ok {
		return nil
	}
	if !authz.IsManagerOrSupervisor(event.ActorRole) {
		return nil
	}
	if payload.AssignedTechnicianID == nil || *payload.AssignedTechnicianID == event.ActorID {
		return nil
	}
	n.deliver(ctx, *payload.AssignedTechnicianID, &event.RequestID,
		"Request closed",
		fmt.Sprintf("request %s has been closed", payload.RequestNumber),
		domain.NotificationRequestClosed)
	return nil
}

// departmentManagers returns active department managers and section
// supervisors of the given department.
func (n *NotificationService) departmentManagers(ctx context.Context, departmentID string) ([]domain.User, error) {
	active := true
	return n.users.List(ctx, repository.UserFilter{
		Roles:        []domain.Role{domain.RoleDepartmentManager, domain.RoleSectionSupervisor},
		DepartmentID: &departmentID,
		Active:       &active,
	})
}

// deliver writes one notification row; failures are logged and skipped so
// remaining recipients still get theirs.
func (n *NotificationService) deliver(ctx context.Context, userID string, requestID *string, title, message string, notificationType domain.NotificationType) {
	notification := &domain.Notification{
		UserID:    userID,
		RequestID: requestID,
		Title:     title,
		Message:   message,
		Type:      notificationType,
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Warn("notification delivery failed",
			zap.String("user_id", userID),
			zap.String("type", string(notificationType)),
			zap.Error(err))
		return
	}
	n.invalidateUnread(ctx, userID)
}

func (n *NotificationService) invalidateUnread(ctx context.Context, userID string) {
	if n.cache == nil {
		return
	}
	if err := n.cache.Del(ctx, unreadKey(userID)).Err(); err != nil {
		n.logger.Debug("unread cache invalidation failed", zap.Error(err))
	}
}

func unreadKey(userID string) string {
	return "notifications:unread:" + userID
}
