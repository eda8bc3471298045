package fleet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbnb/internal/database"
	"carbnb/internal/domain"
	"carbnb/internal/repository"
)

func setupService(t *testing.T) (*Service, *repository.LocationRepository) {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cars := repository.NewCarRepository(db)
	locations := repository.NewLocationRepository(db)
	reviews := repository.NewReviewRepository(db)

	return NewService(cars, locations, reviews), locations
}

func seedLocation(t *testing.T, locations *repository.LocationRepository) int64 {
	loc := &domain.Location{Name: "Downtown", City: "Almaty", Address: "Abay 1"}
	require.NoError(t, locations.Create(context.Background(), loc))
	return loc.ID
}

func TestCreateCar_DefaultsAndValidation(t *testing.T) {
	service, locations := setupService(t)
	locID := seedLocation(t, locations)

	car, err := service.CreateCar(context.Background(), 1, CreateCarRequest{
		LocationID: locID,
		Make:       "Toyota",
		Model:      "Camry",
		Year:       2021,
		DailyRate:  50,
	})

	assert.NoError(t, err)
	assert.True(t, car.IsAvailable)
	assert.Equal(t, 5, car.Seats)
	assert.Equal(t, domain.TransmissionAutomatic, car.Transmission)

	_, err = service.CreateCar(context.Background(), 1, CreateCarRequest{
		LocationID: locID,
		Make:       "Toyota",
		Model:      "Camry",
		Year:       2021,
		DailyRate:  50,
		FuelType:   "plutonium",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateCar_UnknownLocation(t *testing.T) {
	service, _ := setupService(t)

	_, err := service.CreateCar(context.Background(), 1, CreateCarRequest{
		LocationID: 12345,
		Make:       "Toyota",
		Model:      "Camry",
		Year:       2021,
		DailyRate:  50,
	})
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestListCars_Filters(t *testing.T) {
	service, locations := setupService(t)
	locID := seedLocation(t, locations)

	mustCreate := func(make, model, category string, rate float64) {
		_, err := service.CreateCar(context.Background(), 1, CreateCarRequest{
			LocationID: locID,
			Make:       make,
			Model:      model,
			Year:       2022,
			Category:   category,
			DailyRate:  rate,
		})
		require.NoError(t, err)
	}

	mustCreate("Toyota", "Camry", "sedan", 50)
	mustCreate("Toyota", "RAV4", "suv", 80)
	mustCreate("BMW", "X5", "luxury", 200)

	res, err := service.ListCars(context.Background(), repository.CarFilters{Make: "toyota"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)

	res, err = service.ListCars(context.Background(), repository.CarFilters{MaxPrice: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)

	res, err = service.ListCars(context.Background(), repository.CarFilters{Category: "luxury"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	assert.Equal(t, "BMW", res.Cars[0].Make)
}

func TestUpdateCar_OwnershipEnforced(t *testing.T) {
	service, locations := setupService(t)
	locID := seedLocation(t, locations)

	car, err := service.CreateCar(context.Background(), 1, CreateCarRequest{
		LocationID: locID,
		Make:       "Toyota",
		Model:      "Camry",
		Year:       2021,
		DailyRate:  50,
	})
	require.NoError(t, err)

	newRate := 75.0
	_, err = service.UpdateCar(context.Background(), 2, car.ID, UpdateCarRequest{DailyRate: &newRate})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := service.UpdateCar(context.Background(), 1, car.ID, UpdateCarRequest{DailyRate: &newRate})
	assert.NoError(t, err)
	assert.Equal(t, 75.0, updated.DailyRate)
}

func TestDeleteCar_HidesListing(t *testing.T) {
	service, locations := setupService(t)
	locID := seedLocation(t, locations)

	car, err := service.CreateCar(context.Background(), 1, CreateCarRequest{
		LocationID: locID,
		Make:       "Toyota",
		Model:      "Camry",
		Year:       2021,
		DailyRate:  50,
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteCar(context.Background(), 1, car.ID))

	_, err = service.GetCar(context.Background(), car.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	res, err := service.ListCars(context.Background(), repository.CarFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total)
}

func TestSetAvailability_RemovesFromListing(t *testing.T) {
	service, locations := setupService(t)
	locID := seedLocation(t, locations)

	car, err := service.CreateCar(context.Background(), 1, CreateCarRequest{
		LocationID: locID,
		Make:       "Toyota",
		Model:      "Camry",
		Year:       2021,
		DailyRate:  50,
	})
	require.NoError(t, err)

	require.NoError(t, service.SetAvailability(context.Background(), 1, car.ID, false))

	res, err := service.ListCars(context.Background(), repository.CarFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total)

	// but the owner still sees it in the dashboard
	mine, err := service.MyCars(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
