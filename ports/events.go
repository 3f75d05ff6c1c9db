package ports

import (
	"context"

	"github.com/aegis-auth/aegis/core"
)

// EventPublisher publishes events to notify other instances
type EventPublisher interface {
	PublishLogout(ctx context.Context, email core.Email) error
}
