package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"carbnb/internal/domain"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate creates the schema and, on PostgreSQL, installs the exclusion
// constraint that makes the conflict check atomic: two concurrent inserts
// for overlapping ranges on the same car cannot both commit, so the
// check-then-insert sequence in the booking service is only an early exit
// for the common case, not the actual guarantee.
func Migrate(db *gorm.DB) error {
	models := []interface{}{
		&domain.User{},
		&domain.Location{},
		&domain.Car{},
		&domain.CarImage{},
		&domain.Booking{},
		&domain.AvailabilityBlock{},
		&domain.Review{},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return err
		}
	}

	if db.Dialector.Name() != "postgres" {
		// SQLite has no range exclusion constraints. Local dev and the test
		// suite run single-writer, so the pre-insert check is sufficient
		// there; production runs on Postgres.
		return nil
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	// ADD CONSTRAINT has no IF NOT EXISTS form, so recreate it.
	if err := db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_no_overlap`).Error; err != nil {
		return err
	}

	return db.Exec(`
ALTER TABLE bookings
ADD CONSTRAINT bookings_no_overlap
EXCLUDE USING gist (
	car_id WITH =,
	daterange(start_date, end_date, '[]') WITH &&
) WHERE (status IN ('pending', 'confirmed'))
`).Error
}
