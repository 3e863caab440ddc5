package worker

import (
	"github.com/spec-kit/aftersales-service/internal/service"
)

// StartNotificationWorker wires the notification fan-out onto the event
// dispatcher. Called once at startup, before the HTTP server accepts
// traffic.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
