// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/collabhub/internal/app/core/membership"
	"github.com/dalemusser/collabhub/internal/app/system/pubsub"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})
	return nil
}

// subscribeEventLog attaches an audit consumer to every membership topic so
// each committed transition leaves a structured log line. Notification
// senders and search indexers subscribe to the same topics.
func subscribeEventLog(bus *pubsub.Bus, logger *zap.Logger) {
	topics := []string{
		membership.TopicJoin,
		membership.TopicLeave,
		membership.TopicInvite,
		membership.TopicRequest,
		membership.TopicAccept,
		membership.TopicInvitationDecline,
		membership.TopicInvitationCancel,
		membership.TopicRequestCancel,
		membership.TopicRequestRefuse,
	}
	for _, topic := range topics {
		bus.Subscribe(topic, func(e pubsub.Event) {
			logger.Info("membership event",
				zap.String("topic", e.Topic),
				zap.String("collaboration", e.Collaboration.ID),
				zap.String("author", e.Author.ID),
				zap.String("target", e.Target.ID),
				zap.String("workflow", e.Workflow))
		})
	}
}
