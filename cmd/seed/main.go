package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"ecodeli/internal/config"
	"ecodeli/internal/database"
	"ecodeli/internal/domain"
	"ecodeli/internal/modules/matching"
	"ecodeli/internal/modules/notification"
	"ecodeli/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed: ", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed: ", err)
	}
	if err := notification.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed: ", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM deliveries")
	db.Exec("DELETE FROM route_announcement_matches")
	db.Exec("DELETE FROM announcements")
	db.Exec("DELETE FROM routes")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	routeRepo := repository.NewRouteRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)

	log.Println("Creating users...")

	client := createUser(ctx, userRepo, "marie@ecodeli.fr", "client123", domain.RoleClient, "Marie Dupont", "+33 6 12 34 56 78")
	log.Println("Client created: marie@ecodeli.fr / client123")

	deliverer := createUser(ctx, userRepo, "jean@ecodeli.fr", "deliverer123", domain.RoleDeliverer, "Jean Martin", "+33 6 98 76 54 32")
	log.Println("Deliverer created: jean@ecodeli.fr / deliverer123")

	createUser(ctx, userRepo, "admin@ecodeli.fr", "admin123", domain.RoleAdmin, "Admin", "")
	log.Println("Admin created: admin@ecodeli.fr / admin123")

	log.Println("Creating routes...")

	// Paris -> Lyon day trip with spare capacity
	day := time.Now().AddDate(0, 0, 7)
	departure := time.Date(day.Year(), day.Month(), day.Day(), 8, 0, 0, 0, time.Local)
	arrival := departure.Add(12 * time.Hour)

	weight := 20.0
	volume := 0.5
	pricePerKg := 2.0
	rt := &domain.Route{
		DelivererID:     deliverer.ID,
		StartCity:       "Paris",
		EndCity:         "Lyon",
		DepartureDate:   departure,
		ArrivalDate:     arrival,
		AvailableWeight: &weight,
		AvailableVolume: &volume,
		PricePerKg:      &pricePerKg,
		IsActive:        true,
	}
	if err := routeRepo.Create(ctx, rt); err != nil {
		log.Fatal("seed route: ", err)
	}

	log.Println("Creating announcements...")

	announcements := []*domain.Announcement{
		{
			AuthorID:        client.ID,
			Type:            domain.AnnouncementPackageDelivery,
			Status:          domain.AnnouncementActive,
			Title:           "Small package to Lyon",
			Description:     "Shoebox-sized parcel, nothing fragile",
			PickupAddress:   "12 rue de Vaugirard, Paris 15e",
			DeliveryAddress: "5 place Bellecour, Lyon centre",
			ScheduledAt:     departure.Add(2 * time.Hour),
			Price:           15,
		},
		{
			AuthorID:        client.ID,
			Type:            domain.AnnouncementShopping,
			Status:          domain.AnnouncementActive,
			Title:           "Groceries from Marseille",
			PickupAddress:   "Marche des Capucins, Marseille",
			DeliveryAddress: "18 avenue Foch, Bordeaux",
			ScheduledAt:     departure.Add(30 * time.Hour),
			Price:           25,
		},
		{
			AuthorID:        client.ID,
			Type:            domain.AnnouncementPetSitting,
			Status:          domain.AnnouncementActive,
			Title:           "Cat sitting over the weekend",
			PickupAddress:   "3 rue des Lilas, Paris 19e",
			DeliveryAddress: "3 rue des Lilas, Paris 19e",
			ScheduledAt:     departure.Add(48 * time.Hour),
			Price:           40,
		},
	}
	for _, a := range announcements {
		if err := announcementRepo.Create(ctx, a); err != nil {
			log.Fatal("seed announcement: ", err)
		}
	}

	log.Println("Running a matching pass...")

	matcher := matching.NewService(
		routeRepo,
		announcementRepo,
		repository.NewMatchRepository(db),
		notification.NewService(notification.NewRepository(db), nil),
		cfg.Matching,
	)
	if err := matcher.FindMatchingAnnouncements(ctx, rt.ID); err != nil {
		log.Fatal("matching pass: ", err)
	}

	log.Println("Seed complete")
}

func createUser(ctx context.Context, repo *repository.UserRepository, email, password string, role domain.UserRole, name, phone string) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Name:         name,
		Phone:        phone,
	}
	if err := repo.Create(ctx, u); err != nil {
		log.Fatal("seed user ", email, ": ", err)
	}
	return u
}
