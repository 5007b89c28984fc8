// Package notify is the outbound notification seam. Delivery is
// fire-and-forget; a failed notification never fails the mutation that
// triggered it.
package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Notifier receives workspace events worth telling someone about
type Notifier interface {
	InviteSent(ctx context.Context, email, workspaceTitle string)
}

// LogNotifier logs notifications instead of delivering them. Stands in for
// a mail sender.
type LogNotifier struct{}

// NewLogNotifier creates a logging notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) InviteSent(ctx context.Context, email, workspaceTitle string) {
	log.Info().
		Str("email", email).
		Str("workspace", workspaceTitle).
		Msg("Workspace invitation sent")
}
