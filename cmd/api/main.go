package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"ecodeli/internal/cache"
	"ecodeli/internal/config"
	"ecodeli/internal/database"
	"ecodeli/internal/events"
	"ecodeli/internal/middleware"
	"ecodeli/internal/modules/announcement"
	"ecodeli/internal/modules/auth"
	"ecodeli/internal/modules/delivery"
	"ecodeli/internal/modules/matching"
	"ecodeli/internal/modules/notification"
	"ecodeli/internal/modules/route"
	jwtsvc "ecodeli/internal/pkg/jwt"
	"ecodeli/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	var c *cache.Cache
	if cfg.RedisAddr != "" {
		c = cache.New(cfg.RedisAddr, cfg.CacheTTL)
	}

	var broker *events.Broker
	if cfg.AmqpURL != "" {
		broker, err = events.Dial(cfg.AmqpURL)
		if err != nil {
			log.Printf("broker_dial_failed url=%s error=%q", cfg.AmqpURL, err.Error())
			broker = nil
		} else {
			defer broker.Close()
		}
	}

	userRepo := repository.NewUserRepository(db)
	routeRepo := repository.NewRouteRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := notification.NewHub()
	defer hub.Close()
	notificationService := notification.NewService(notification.NewRepository(db), hub)
	notificationHandler := notification.NewHandler(notificationService, hub)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	matchingService := matching.NewService(routeRepo, announcementRepo, matchRepo, notificationService, cfg.Matching)

	// a typed-nil broker must not reach the services as a non-nil interface
	var routePub route.EventPublisher
	var announcementPub announcement.EventPublisher
	if broker != nil {
		routePub = broker
		announcementPub = broker
	}

	routeService := route.NewService(routeRepo, matchRepo, matchingService, routePub)
	routeHandler := route.NewHandler(routeService)

	announcementService := announcement.NewService(announcementRepo, matchingService, announcementPub, c)
	announcementHandler := announcement.NewHandler(announcementService)

	deliveryService := delivery.NewService(
		db,
		deliveryRepo,
		announcementRepo,
		routeRepo,
		matchRepo,
		notificationService,
		announcementService,
	)
	deliveryHandler := delivery.NewHandler(deliveryService)

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		announcementHandler.RegisterPublicRoutes(v1)
		deliveryHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
			deliveryHandler.RegisterProtectedRoutes(protected)

			deliverers := protected.Group("/")
			deliverers.Use(middleware.RequireRole("deliverer", "admin"))
			{
				routeHandler.RegisterRoutes(deliverers)
			}

			clients := protected.Group("/")
			clients.Use(middleware.RequireRole("client", "admin"))
			{
				announcementHandler.RegisterProtectedRoutes(clients)
			}
		}
	}

	log.Printf("api_listening addr=%s broker=%t cache=%t", cfg.HTTPAddr, broker != nil, c != nil)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
