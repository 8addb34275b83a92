package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"ecodeli/internal/config"
	"ecodeli/internal/database"
	"ecodeli/internal/events"
	"ecodeli/internal/modules/matching"
	"ecodeli/internal/modules/notification"
	"ecodeli/internal/repository"
)

// The matcher worker consumes route.created and announcement.created and
// runs one matching pass per event. Passes are strictly sequential.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.AmqpURL == "" {
		log.Fatal("AMQP_URL is empty; without a broker the API runs matching inline and no worker is needed")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	broker, err := events.Dial(cfg.AmqpURL)
	if err != nil {
		log.Fatal(err)
	}
	defer broker.Close()

	hub := notification.NewHub()
	defer hub.Close()
	notificationService := notification.NewService(notification.NewRepository(db), hub)

	matcher := matching.NewService(
		repository.NewRouteRepository(db),
		repository.NewAnnouncementRepository(db),
		repository.NewMatchRepository(db),
		notificationService,
		cfg.Matching,
	)

	deliveries, err := broker.Consume("matcher", events.RouteCreatedKey, events.AnnouncementCreatedKey)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("matcher_started queue=matcher exchange=%s", events.Exchange)

	for {
		select {
		case <-ctx.Done():
			log.Print("matcher_stopping")
			return
		case d, ok := <-deliveries:
			if !ok {
				log.Print("matcher_channel_closed")
				return
			}
			handle(ctx, matcher, d)
		}
	}
}

func handle(ctx context.Context, matcher *matching.Service, d amqp.Delivery) {
	var err error
	switch d.RoutingKey {
	case events.RouteCreatedKey:
		var ev events.RouteCreated
		if err = json.Unmarshal(d.Body, &ev); err == nil {
			err = matcher.FindMatchingAnnouncements(ctx, ev.RouteID)
		}
	case events.AnnouncementCreatedKey:
		var ev events.AnnouncementCreated
		if err = json.Unmarshal(d.Body, &ev); err == nil {
			err = matcher.FindMatchingRoutes(ctx, ev.AnnouncementID)
		}
	default:
		log.Printf("matcher_unknown_key key=%s", d.RoutingKey)
	}

	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, matching.ErrRouteNotFound), errors.Is(err, matching.ErrAnnouncementNotFound):
		// the record was deleted between publish and consume; drop the event
		log.Printf("matcher_stale_event key=%s error=%q", d.RoutingKey, err.Error())
		_ = d.Ack(false)
	default:
		log.Printf("matcher_pass_failed key=%s error=%q", d.RoutingKey, err.Error())
		_ = d.Nack(false, true)
	}
}
