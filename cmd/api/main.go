package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"carbnb/internal/config"
	"carbnb/internal/database"
	"carbnb/internal/middleware"
	"carbnb/internal/modules/auth"
	"carbnb/internal/modules/booking"
	"carbnb/internal/modules/fleet"
	"carbnb/internal/modules/location"
	"carbnb/internal/modules/review"
	"carbnb/internal/modules/upload"
	jwtsvc "carbnb/internal/pkg/jwt"
	"carbnb/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	carRepo := repository.NewCarRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	authHandler := auth.NewHandler(auth.NewService(userRepo, j))
	fleetHandler := fleet.NewHandler(fleet.NewService(carRepo, locationRepo, reviewRepo))
	locationHandler := location.NewHandler(location.NewService(locationRepo, carRepo))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, availabilityRepo, carRepo))
	reviewHandler := review.NewHandler(review.NewService(reviewRepo, bookingRepo))
	uploadHandler := upload.NewHandler(upload.NewService(carRepo, cfg.UploadsDir))

	if config.IsProd(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	r.Static("/static/uploads", cfg.UploadsDir)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		fleetHandler.RegisterPublicRoutes(v1)
		locationHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)
		reviewHandler.RegisterPublicRoutes(v1)
		uploadHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			fleetHandler.RegisterProtectedRoutes(protected)
			locationHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			reviewHandler.RegisterProtectedRoutes(protected)
			uploadHandler.RegisterProtectedRoutes(protected)
		}
	}

	log.Println("Listening on", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
