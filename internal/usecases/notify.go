package usecases

import (
	"context"

	"project_resident/internal/entities"
	"project_resident/internal/interfaces"

	"go.uber.org/zap"
)

// ownerNotifier delivers best-effort messages to business owners; a failed
// delivery is logged and never returned to the caller.
type ownerNotifier struct {
	notifier interfaces.Notifier
	log      *zap.Logger
}

func (n ownerNotifier) notify(ctx context.Context, b *entities.Business, text string) {
	if n.notifier == nil || b == nil {
		return
	}
	if err := n.notifier.Notify(ctx, b, text); err != nil {
		n.log.Warn("owner notification failed",
			zap.Int("business_id", b.ID),
			zap.Error(err))
	}
}
