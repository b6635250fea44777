package ports

import (
	"context"

	"github.com/mikey/sms-guard/internal/core"
)

// MessageFilter defines the interface for a message filtering front end
type MessageFilter interface {
	// Check runs a single message through the filter pipeline
	Check(ctx context.Context, msg *core.Message) (*core.Verdict, error)

	// Start starts the filter front end
	Start() error

	// Stop stops the filter front end
	Stop() error
}
