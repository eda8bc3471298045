package domain

import "time"

type Transmission string

const (
	TransmissionAutomatic Transmission = "automatic"
	TransmissionManual    Transmission = "manual"
)

type FuelType string

const (
	FuelPetrol   FuelType = "petrol"
	FuelDiesel   FuelType = "diesel"
	FuelHybrid   FuelType = "hybrid"
	FuelElectric FuelType = "electric"
)

type CarCategory string

const (
	CategoryEconomy CarCategory = "economy"
	CategoryCompact CarCategory = "compact"
	CategorySedan   CarCategory = "sedan"
	CategorySUV     CarCategory = "suv"
	CategoryLuxury  CarCategory = "luxury"
	CategoryVan     CarCategory = "van"
)

type Car struct {
	ID           int64        `json:"id"`
	OwnerID      int64        `json:"owner_id"`
	LocationID   int64        `json:"location_id" validate:"required"`
	Make         string       `json:"make" validate:"required"`
	Model        string       `json:"model" validate:"required"`
	Year         int          `json:"year" validate:"required,gte=1990"`
	Category     CarCategory  `json:"category"`
	Transmission Transmission `json:"transmission"`
	FuelType     FuelType     `json:"fuel_type"`
	Seats        int          `json:"seats" validate:"gte=1,lte=12"`
	DailyRate    float64      `json:"daily_rate" validate:"required,gt=0"`
	Description  string       `json:"description,omitempty" gorm:"type:text"`
	Features     []string     `json:"features,omitempty" gorm:"serializer:json"`
	MainImageURL string       `json:"main_image_url,omitempty"`
	IsAvailable  bool         `json:"is_available"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	DeletedAt    *time.Time   `json:"-"`

	Location *Location  `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	Images   []CarImage `json:"images,omitempty" gorm:"foreignKey:CarID"`
}

type CarImage struct {
	ID        int64     `json:"id"`
	CarID     int64     `json:"car_id" gorm:"not null;index"`
	ImageURL  string    `json:"image_url"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

func (CarImage) TableName() string { return "car_images" }

func ParseTransmission(s string) (Transmission, bool) {
	switch Transmission(s) {
	case TransmissionAutomatic, TransmissionManual:
		return Transmission(s), true
	}
	return "", false
}

func ParseFuelType(s string) (FuelType, bool) {
	switch FuelType(s) {
	case FuelPetrol, FuelDiesel, FuelHybrid, FuelElectric:
		return FuelType(s), true
	}
	return "", false
}

func ParseCarCategory(s string) (CarCategory, bool) {
	switch CarCategory(s) {
	case CategoryEconomy, CategoryCompact, CategorySedan, CategorySUV, CategoryLuxury, CategoryVan:
		return CarCategory(s), true
	}
	return "", false
}
