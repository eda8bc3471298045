package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"carbnb/internal/database"
	"carbnb/internal/domain"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "carbnb.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	// Cleanup old data (in FK-safe order)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM reviews")
	db.Exec("DELETE FROM availability_blocks")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM car_images")
	db.Exec("DELETE FROM cars")
	db.Exec("DELETE FROM locations")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	makeUser := func(email, first, last, password string) domain.User {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		u := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			FirstName:    first,
			LastName:     last,
		}
		db.Create(&u)
		return u
	}

	owner1 := makeUser("aidar@carbnb.kz", "Aidar", "Seitov", "owner123")
	owner2 := makeUser("gulnaz@carbnb.kz", "Gulnaz", "Akhmetova", "owner123")
	renters := []domain.User{
		makeUser("asel@mail.kz", "Asel", "Nurlanova", "renter123"),
		makeUser("bekzat@gmail.com", "Bekzat", "Omarov", "renter123"),
		makeUser("dina@yandex.kz", "Dina", "Kairatova", "renter123"),
	}

	// ================== LOCATIONS ==================
	log.Println("Creating locations...")
	locations := []domain.Location{
		{Name: "Almaty Downtown", City: "Almaty", Address: "Abay Ave 44", Phone: "+7 727 000 0001"},
		{Name: "Almaty Airport", City: "Almaty", Address: "Mailin St 2", Phone: "+7 727 000 0002"},
		{Name: "Astana Center", City: "Astana", Address: "Mangilik El 10", Phone: "+7 717 000 0003"},
	}
	for i := range locations {
		db.Create(&locations[i])
	}

	// ================== CARS ==================
	log.Println("Creating cars...")
	type carSpec struct {
		owner        domain.User
		make_, model string
		year         int
		category     domain.CarCategory
		rate         float64
		seats        int
	}
	carSpecs := []carSpec{
		{owner1, "Toyota", "Camry", 2022, domain.CategorySedan, 55, 5},
		{owner1, "Toyota", "RAV4", 2023, domain.CategorySUV, 80, 5},
		{owner1, "Kia", "Rio", 2021, domain.CategoryEconomy, 30, 5},
		{owner2, "BMW", "X5", 2023, domain.CategoryLuxury, 190, 5},
		{owner2, "Hyundai", "Staria", 2022, domain.CategoryVan, 95, 9},
		{owner2, "Hyundai", "Accent", 2020, domain.CategoryCompact, 28, 5},
	}

	cars := make([]domain.Car, 0, len(carSpecs))
	for i, sp := range carSpecs {
		car := domain.Car{
			OwnerID:      sp.owner.ID,
			LocationID:   locations[i%len(locations)].ID,
			Make:         sp.make_,
			Model:        sp.model,
			Year:         sp.year,
			Category:     sp.category,
			Transmission: domain.TransmissionAutomatic,
			FuelType:     domain.FuelPetrol,
			Seats:        sp.seats,
			DailyRate:    sp.rate,
			Description:  fmt.Sprintf("%s %s %d in great condition", sp.make_, sp.model, sp.year),
			Features:     []string{"air conditioning", "bluetooth"},
			IsAvailable:  true,
		}
		db.Create(&car)
		cars = append(cars, car)
	}

	// ================== BOOKINGS ==================
	log.Println("Creating bookings...")
	today := time.Now().UTC().Truncate(24 * time.Hour)

	makeBooking := func(car domain.Car, renter domain.User, startOffset, days int, status domain.BookingStatus, payment domain.PaymentStatus) {
		start := today.AddDate(0, 0, startOffset)
		end := start.AddDate(0, 0, days)
		b := domain.Booking{
			CarID:         car.ID,
			RenterID:      renter.ID,
			StartDate:     start,
			EndDate:       end,
			TotalPrice:    car.DailyRate * float64(days),
			Status:        status,
			PaymentStatus: payment,
		}
		db.Create(&b)
	}

	// past, completed (reviewable)
	makeBooking(cars[0], renters[0], -30, 3, domain.BookingCompleted, domain.PaymentPaid)
	makeBooking(cars[3], renters[1], -20, 2, domain.BookingCompleted, domain.PaymentPaid)
	// upcoming
	makeBooking(cars[0], renters[1], 7, 4, domain.BookingConfirmed, domain.PaymentPaid)
	makeBooking(cars[1], renters[2], 10, 2, domain.BookingPending, domain.PaymentUnpaid)
	// cancelled, frees the range
	makeBooking(cars[2], renters[0], 5, 3, domain.BookingCancelled, domain.PaymentRefunded)

	// ================== REVIEWS ==================
	log.Println("Creating reviews...")
	var completed []domain.Booking
	db.Where("status = ?", domain.BookingCompleted).Find(&completed)
	comments := []string{"Clean car, smooth pickup.", "Great value, would rent again."}
	for i, b := range completed {
		db.Create(&domain.Review{
			BookingID: b.ID,
			CarID:     b.CarID,
			RenterID:  b.RenterID,
			Rating:    4 + rand.Intn(2),
			Comment:   comments[i%len(comments)],
		})
	}

	log.Println("Seed completed.")
	log.Println("Owners: aidar@carbnb.kz, gulnaz@carbnb.kz / owner123")
	log.Println("Renters: asel@mail.kz, bekzat@gmail.com, dina@yandex.kz / renter123")
}
