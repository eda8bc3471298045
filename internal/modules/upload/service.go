package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carbnb/internal/domain"
	"carbnb/internal/repository"
)

const (
	MaxFileSize   = 10 * 1024 * 1024 // 10 MB
	StaticURLBase = "/static/uploads"
)

// Car photos only; no documents or video.
var allowedMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Service saves car photos to local disk and records them as car images.
type Service struct {
	cars       *repository.CarRepository
	baseDir    string
	staticBase string
}

func NewService(cars *repository.CarRepository, baseDir string) *Service {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	return &Service{cars: cars, baseDir: baseDir, staticBase: StaticURLBase}
}

// AddCarImage stores the photo on disk under YYYY/MM/DD and attaches it
// to the car. The first image on a car becomes its main image.
func (s *Service) AddCarImage(ctx context.Context, ownerID, carID int64, fileHeader *multipart.FileHeader) (*domain.CarImage, error) {
	car, err := s.ownedCar(ctx, ownerID, carID)
	if err != nil {
		return nil, err
	}

	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	// sniff the real content type, the client header lies
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	ext, ok := allowedMimeTypes[mimeType]
	if !ok {
		return nil, ErrInvalidMimeType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	now := time.Now()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(s.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	absPath := filepath.Join(absDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("write file: %w", err)
	}

	imageURL := s.staticBase + "/" + relDir + "/" + filename

	img := &domain.CarImage{
		CarID:     carID,
		ImageURL:  imageURL,
		IsPrimary: len(car.Images) == 0,
	}
	if err := s.cars.AddImage(ctx, img); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("save image record: %w", err)
	}

	if img.IsPrimary {
		if err := s.cars.SetMainImage(ctx, carID, imageURL); err != nil {
			return nil, err
		}
	}
	return img, nil
}

func (s *Service) ListCarImages(ctx context.Context, carID int64) ([]domain.CarImage, error) {
	if _, err := s.cars.GetByID(ctx, carID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	return s.cars.GetImages(ctx, carID)
}

func (s *Service) SetPrimary(ctx context.Context, ownerID, carID, imageID int64) error {
	if _, err := s.ownedCar(ctx, ownerID, carID); err != nil {
		return err
	}
	if err := s.cars.SetPrimaryImage(ctx, carID, imageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}
	return nil
}

// DeleteImage removes the record and the file on disk.
func (s *Service) DeleteImage(ctx context.Context, ownerID, carID, imageID int64) error {
	if _, err := s.ownedCar(ctx, ownerID, carID); err != nil {
		return err
	}

	img, err := s.cars.GetImage(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}
	if img.CarID != carID {
		return ErrImageNotFound
	}

	if err := s.cars.DeleteImage(ctx, imageID); err != nil {
		return err
	}

	if rel, ok := strings.CutPrefix(img.ImageURL, s.staticBase+"/"); ok {
		_ = os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(rel)))
	}
	return nil
}

func (s *Service) ownedCar(ctx context.Context, ownerID, carID int64) (*domain.Car, error) {
	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	if car.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return car, nil
}
