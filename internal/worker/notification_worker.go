package worker

import (
	"github.com/spec-kit/member-portal/internal/service"
)

// StartNotificationWorker registers lifecycle notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
