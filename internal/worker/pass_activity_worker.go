package worker

import (
	"github.com/spec-kit/membership-pass/internal/service"
)

// StartPassActivityWorker registers pass lifecycle handlers and returns a
// func that detaches them.
func StartPassActivityWorker(activity *service.PassActivityService) (stop func()) {
	if activity == nil {
		return func() {}
	}
	activity.RegisterHandlers()
	return activity.UnregisterHandlers
}
