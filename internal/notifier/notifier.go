// Package notifier delivers operator messages and report files.
package notifier

import (
	"context"

	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"go.uber.org/zap"
)

// Notifier is the operator notification channel.
type Notifier interface {
	// SendText sends a Markdown message.
	SendText(ctx context.Context, message string) error
	// SendImage uploads the file at path. Images are sent as photos, any
	// other file as a document.
	SendImage(ctx context.Context, path string) error
}

// LogNotifier writes messages to the log instead of a remote channel.
type LogNotifier struct {
	logger *logger.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log.Named("notifier")}
}

// SendText implements Notifier.
func (n *LogNotifier) SendText(_ context.Context, message string) error {
	n.logger.Info("Notification", zap.String("message", message))

	return nil
}

// SendImage implements Notifier.
func (n *LogNotifier) SendImage(_ context.Context, path string) error {
	n.logger.Info("Notification file", zap.String("path", path))

	return nil
}

// BestEffort wraps a Notifier so that delivery failures are logged and
// swallowed. Callers never see a notification error.
type BestEffort struct {
	next   Notifier
	logger *logger.Logger
}

// NewBestEffort wraps next.
func NewBestEffort(next Notifier, log *logger.Logger) *BestEffort {
	return &BestEffort{next: next, logger: log.Named("notifier")}
}

// SendText implements Notifier and always returns nil.
func (b *BestEffort) SendText(ctx context.Context, message string) error {
	if err := b.next.SendText(ctx, message); err != nil {
		b.warn("text", err)
	}

	return nil
}

// SendImage implements Notifier and always returns nil.
func (b *BestEffort) SendImage(ctx context.Context, path string) error {
	if err := b.next.SendImage(ctx, path); err != nil {
		b.warn(path, err)
	}

	return nil
}

func (b *BestEffort) warn(what string, err error) {
	if !errors.IsNotificationDelivery(err) {
		err = errors.Wrap(errors.ErrCodeNotificationDelivery, "notification failed", err)
	}

	b.logger.Warn("Notification not delivered", zap.String("payload", what), zap.Error(err))
}
