package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/frahmantamala/ticketing/internal/core/events"
	"github.com/frahmantamala/ticketing/internal/messaging"
	"github.com/frahmantamala/ticketing/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish ticket events by hand to check the event bus and broker wiring`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [event-type]",
	Short:     "Publish a ticket event",
	Long:      `Publish a ticket event on the event bus; it is forwarded to RabbitMQ when messaging is enabled`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: events.TicketEventTypes,
	Run: func(cmd *cobra.Command, args []string) {
		if err := publishTicketEvent(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

var (
	eventTicketID int64
	eventActor    string
	eventOld      string
	eventNew      string
)

func buildTicketEvent(eventType string) (events.Event, error) {
	switch eventType {
	case events.EventTypeTicketCreated:
		return events.NewTicketCreatedEvent(eventTicketID, eventActor, eventNew), nil
	case events.EventTypeTicketStatusChanged:
		return events.NewTicketStatusChangedEvent(eventTicketID, eventOld, eventNew, eventActor), nil
	case events.EventTypeTicketDeleted:
		return events.NewTicketDeletedEvent(eventTicketID, eventActor), nil
	default:
		return nil, fmt.Errorf("unknown event type %q, want one of %v", eventType, events.TicketEventTypes)
	}
}

func publishTicketEvent(eventType string) error {
	config, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	event, err := buildTicketEvent(eventType)
	if err != nil {
		return err
	}

	bus := events.NewEventBus(lg)
	bus.SubscribeAll(events.TicketEventTypes, func(ctx context.Context, e events.Event) error {
		lg.Info("handler received event",
			"event_id", e.EventID(),
			"event_type", e.EventType(),
			"payload", e.Payload())
		return nil
	})

	if config.Messaging.Enabled {
		publisher, err := messaging.NewPublisher(config.Messaging, lg)
		if err != nil {
			return err
		}
		defer publisher.Close()
		publisher.Register(bus)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := bus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	lg.Info("event published", "event_type", event.EventType(), "event_id", event.EventID())
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventTicketID, "ticket-id", 1, "ticket id carried by the event")
	publishEventCmd.Flags().StringVar(&eventActor, "actor", "owner", "username carried by the event")
	publishEventCmd.Flags().StringVar(&eventOld, "old-status", "Terlapor", "previous status for ticket.status_changed")
	publishEventCmd.Flags().StringVar(&eventNew, "new-status", "Dikerjakan", "status for ticket.created and ticket.status_changed")

	eventCmd.AddCommand(publishEventCmd)
	rootCmd.AddCommand(eventCmd)
}
