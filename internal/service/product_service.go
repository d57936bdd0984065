package service

import (
	"context"
	"fmt"

	"pos-inventory/internal/domain"
	"pos-inventory/internal/repository"
	"pos-inventory/internal/storage"
	"pos-inventory/internal/validation"

	"go.uber.org/zap"
)

// ProductService defines the interface for product business logic
type ProductService interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error)
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Get(ctx context.Context, id int64, visibility domain.Visibility) (*domain.Product, error)
	Update(ctx context.Context, id int64, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) (*domain.Product, error)
	ForceDelete(ctx context.Context, id int64) error
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	media      storage.MediaStore
	validator  *validation.Validator
	imageRule  validation.ImageRule
	logger     *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	media storage.MediaStore,
	validator *validation.Validator,
	imageRule validation.ImageRule,
	logger *zap.Logger,
) ProductService {
	return &productService{
		products:   products,
		categories: categories,
		media:      media,
		validator:  validator,
		imageRule:  imageRule,
		logger:     logger,
	}
}

func (s *productService) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	return s.products.List(ctx, filter)
}

// validate runs the field rules in declaration order, with the category
// existence rule attached to category_id, then the image rule
func (s *productService) validate(ctx context.Context, input ProductInput) error {
	if err := s.validator.StructExists(ctx, input, "category_id", s.categories); err != nil {
		return err
	}

	if input.Image != nil {
		img := input.Image
		if err := s.validator.Image("image", img.Filename, img.Size, img.Content, s.imageRule); err != nil {
			return err
		}
	}

	return nil
}

// storeImage persists the upload if one was supplied and returns its reference
func (s *productService) storeImage(ctx context.Context, upload *storage.Upload) (*string, error) {
	if upload == nil {
		return nil, nil
	}

	ref, err := s.media.Store(ctx, storage.ProductNamespace, upload)
	if err != nil {
		return nil, fmt.Errorf("failed to store product image: %w", err)
	}
	return &ref, nil
}

// Create validates input, stores the image and inserts the product.
// An image stored before a failed insert is left behind.
func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	image, err := s.storeImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{Image: image}
	applyProductInput(product, input)

	if err := s.products.Create(ctx, product); err != nil {
		if image != nil {
			s.logger.Warn("Product insert failed after image was stored",
				zap.String("image", *image),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.logger.Info("Product created", zap.Int64("product_id", product.ID))
	return product, nil
}

func (s *productService) Get(ctx context.Context, id int64, visibility domain.Visibility) (*domain.Product, error) {
	return s.products.FindByID(ctx, id, visibility)
}

// Update edits active and trashed products alike. A replacement image is
// stored first and the previous one is released only once the row is updated.
func (s *productService) Update(ctx context.Context, id int64, input ProductInput) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id, domain.VisibilityAll)
	if err != nil {
		return nil, err
	}

	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	previous := product.Image
	image, err := s.storeImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	applyProductInput(product, input)
	product.Category = nil
	if image != nil {
		product.Image = image
	}

	if err := s.products.Update(ctx, product, domain.VisibilityAll); err != nil {
		return nil, err
	}

	if image != nil && previous != nil && *previous != *image {
		s.releaseImage(ctx, *previous)
	}

	s.logger.Info("Product updated", zap.Int64("product_id", product.ID))
	return product, nil
}

// Delete moves an active product to the trash
func (s *productService) Delete(ctx context.Context, id int64) error {
	if _, err := s.products.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Product soft deleted", zap.Int64("product_id", id))
	return nil
}

// Restore brings a trashed product back and returns it with its category
func (s *productService) Restore(ctx context.Context, id int64) (*domain.Product, error) {
	if err := s.products.Restore(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("Product restored", zap.Int64("product_id", id))
	return s.products.FindByID(ctx, id, domain.VisibilityActive)
}

// ForceDelete removes a trashed product for good and releases its image
func (s *productService) ForceDelete(ctx context.Context, id int64) error {
	removed, err := s.products.HardDelete(ctx, id)
	if err != nil {
		return err
	}

	if removed.Image != nil {
		s.releaseImage(ctx, *removed.Image)
	}

	s.logger.Info("Product permanently deleted", zap.Int64("product_id", id))
	return nil
}

// releaseImage deletes a media reference. Failures only orphan a file.
func (s *productService) releaseImage(ctx context.Context, ref string) {
	if err := s.media.Delete(ctx, ref); err != nil {
		s.logger.Warn("Failed to release product image", zap.String("image", ref), zap.Error(err))
	}
}

// applyProductInput copies validated fields onto product. Description and
// favorite are only overwritten when supplied.
func applyProductInput(product *domain.Product, input ProductInput) {
	product.CategoryID = int64(*input.CategoryID)
	product.Name = input.Name
	if input.Description.Set {
		product.Description = input.Description.Value
	}
	product.Price = int64(*input.Price)
	product.Stock = int64(*input.Stock)
	product.Status = domain.ProductStatus(input.Status)
	product.Criteria = domain.ProductCriteria(input.Criteria)
	if input.Favorite != nil {
		product.Favorite = *input.Favorite
	}
}
