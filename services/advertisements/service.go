package advertisements

import (
	"context"
	"time"

	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/repositories"
	"github.com/medimart/medi-server/services"
	"go.uber.org/zap"
)

// Input holds the seller editable fields of an advertisement
type Input struct {
	MedicineName string
	Description  string
	Image        string
}

// Service manages seller advertisements and the home slider
type Service struct {
	ads    repositories.Collection[models.Advertisement]
	logger *zap.Logger
}

// NewService creates a new advertisement service
func NewService(ads repositories.Collection[models.Advertisement], logger *zap.Logger) *Service {
	return &Service{ads: ads, logger: logger}
}

// List returns every advertisement
func (s *Service) List(ctx context.Context) ([]*models.Advertisement, error) {
	return s.find(ctx, nil)
}

// ListBySeller returns the advertisements of one seller
func (s *Service) ListBySeller(ctx context.Context, sellerEmail string) ([]*models.Advertisement, error) {
	return s.find(ctx, repositories.Filter{"seller_email": sellerEmail})
}

// Slides returns the advertisements an admin put into the home slider
func (s *Service) Slides(ctx context.Context) ([]*models.Advertisement, error) {
	return s.find(ctx, repositories.Filter{"in_slide": true})
}

func (s *Service) find(ctx context.Context, filter repositories.Filter) ([]*models.Advertisement, error) {
	ads, err := s.ads.Find(ctx, filter)
	if err != nil {
		return nil, services.WrapInternal("failed to list advertisements", err)
	}
	return ads, nil
}

// Create stores a new advertisement for sellerEmail. New advertisements start outside the slider.
func (s *Service) Create(ctx context.Context, sellerEmail string, in Input) (*models.Advertisement, error) {
	ad := &models.Advertisement{
		MedicineName: in.MedicineName,
		Description:  in.Description,
		Image:        in.Image,
		SellerEmail:  sellerEmail,
		InSlide:      false,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.ads.Insert(ctx, ad); err != nil {
		return nil, services.WrapInternal("failed to create advertisement", err)
	}

	s.logger.Info("advertisement created", zap.String("advertisement_id", ad.ID), zap.String("seller_email", sellerEmail))
	return ad, nil
}

// Update edits an advertisement owned by sellerEmail
func (s *Service) Update(ctx context.Context, id, sellerEmail string, in Input) (*models.Advertisement, error) {
	ad, err := s.ads.FindByID(ctx, id)
	if err != nil {
		return nil, services.WrapStoreError(err, services.ErrAdvertisementNotFound, nil, "load advertisement")
	}
	if ad.SellerEmail != sellerEmail {
		s.logger.Warn("advertisement edit by another seller",
			zap.String("advertisement_id", id),
			zap.String("seller_email", sellerEmail))
		return nil, services.ErrNotOwner
	}

	err = s.ads.UpdateByID(ctx, id, repositories.Update{
		"medicine_name": in.MedicineName,
		"description":   in.Description,
		"image":         in.Image,
	})
	if err != nil {
		return nil, services.WrapStoreError(err, services.ErrAdvertisementNotFound, nil, "update advertisement")
	}

	ad.MedicineName = in.MedicineName
	ad.Description = in.Description
	ad.Image = in.Image
	return ad, nil
}

// SetSlide includes or removes an advertisement from the home slider
func (s *Service) SetSlide(ctx context.Context, id string, inSlide bool) (*models.Advertisement, error) {
	if err := s.ads.UpdateByID(ctx, id, repositories.Update{"in_slide": inSlide}); err != nil {
		return nil, services.WrapStoreError(err, services.ErrAdvertisementNotFound, nil, "update advertisement")
	}

	ad, err := s.ads.FindByID(ctx, id)
	if err != nil {
		return nil, services.WrapStoreError(err, services.ErrAdvertisementNotFound, nil, "load advertisement")
	}

	s.logger.Info("advertisement slide flag set", zap.String("advertisement_id", id), zap.Bool("in_slide", inSlide))
	return ad, nil
}
