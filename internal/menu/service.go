package menu

import (
	"context"
	"strings"

	"tarim-admin/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context) ([]MenuItem, error)
	Create(ctx context.Context, input CreateInput) (*MenuItem, error)
	Update(ctx context.Context, id string, input UpdateInput) (*MenuItem, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]MenuItem, error) {
	return s.repo.List(ctx)
}

func (s *service) Create(ctx context.Context, input CreateInput) (*MenuItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateMenuItem"),
	)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if input.Price == nil {
		return nil, ErrPriceRequired
	}
	if *input.Price < 0 {
		return nil, ErrInvalidPrice
	}
	category, err := ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}

	item := MenuItem{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Category:    category,
		Price:       *input.Price,
		Image:       strings.TrimSpace(input.Image),
		IsVeg:       input.IsVeg,
		Rating:      input.Rating,
		Reviews:     input.Reviews,
	}

	id, err := s.repo.Create(ctx, item)
	if err != nil {
		log.Error("failed to create menu item", zap.Error(err))
		return nil, err
	}
	item.ID = id

	log.Info("menu item created", zap.String("item_id", id), zap.String("name", name))
	return &item, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*MenuItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateMenuItem"),
		zap.String("item_id", id),
	)

	fields, err := updateFields(input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		log.Error("failed to update menu item", zap.Error(err))
		return nil, err
	}

	log.Info("menu item updated", zap.Int("field_count", len(fields)))
	return s.repo.Get(ctx, id)
}

func updateFields(input UpdateInput) (map[string]any, error) {
	fields := map[string]any{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		fields["name"] = name
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, ErrInvalidPrice
		}
		fields["price"] = *input.Price
	}
	if input.Category != nil {
		c, err := ParseCategory(*input.Category)
		if err != nil {
			return nil, err
		}
		fields["category"] = c
	}
	if input.Description != nil {
		fields["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Image != nil {
		fields["image"] = strings.TrimSpace(*input.Image)
	}
	if input.IsVeg != nil {
		fields["isVeg"] = *input.IsVeg
	}
	if input.Rating != nil {
		fields["rating"] = *input.Rating
	}
	if input.Reviews != nil {
		fields["reviews"] = *input.Reviews
	}

	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	return fields, nil
}

// Delete removes the item. Deleting an unknown id succeeds.
func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		logger.FromCtx(ctx).Error("failed to delete menu item",
			zap.String("layer", "service"),
			zap.String("item_id", id),
			zap.Error(err),
		)
		return err
	}
	return nil
}
