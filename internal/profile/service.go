package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"tarim-admin/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Get(ctx context.Context, uid string) (*AdminProfile, error)
	Create(ctx context.Context, p AdminProfile) (*AdminProfile, error)
	Update(ctx context.Context, uid, email string, input UpdateInput) (*AdminProfile, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Get(ctx context.Context, uid string) (*AdminProfile, error) {
	return s.repo.Get(ctx, uid)
}

// Create stores a fresh admin profile for uid.
func (s *service) Create(ctx context.Context, p AdminProfile) (*AdminProfile, error) {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Role = RoleAdmin
	p.CreatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, p); err != nil {
		logger.FromCtx(ctx).Error("failed to create profile",
			zap.String("layer", "service"),
			zap.String("uid", p.UID),
			zap.Error(err),
		)
		return nil, err
	}
	return &p, nil
}

// Update edits the profile of uid. email is the signed-in identity's
// address and is used when the profile has to be created.
func (s *service) Update(ctx context.Context, uid, email string, input UpdateInput) (*AdminProfile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProfile"),
		zap.String("uid", uid),
	)

	current, err := s.repo.Get(ctx, uid)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	known := email
	if current != nil {
		known = current.Email
	}
	if input.Email != nil && !strings.EqualFold(strings.TrimSpace(*input.Email), known) {
		log.Warn("attempt to change email")
		return nil, ErrEmailImmutable
	}

	fields := map[string]any{}
	if input.Name != nil {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.RestaurantName != nil {
		fields["restaurantName"] = strings.TrimSpace(*input.RestaurantName)
	}
	if input.RestaurantPhone != nil {
		fields["restaurantPhone"] = strings.TrimSpace(*input.RestaurantPhone)
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	if current == nil {
		log.Info("profile missing, creating")
		p := AdminProfile{UID: uid, Email: email}
		applyFields(&p, fields)
		return s.Create(ctx, p)
	}

	if err := s.repo.Update(ctx, uid, fields); err != nil {
		log.Error("failed to update profile", zap.Error(err))
		return nil, err
	}

	applyFields(current, fields)
	log.Info("profile updated", zap.Int("field_count", len(fields)))
	return current, nil
}

func applyFields(p *AdminProfile, fields map[string]any) {
	if v, ok := fields["name"].(string); ok {
		p.Name = v
	}
	if v, ok := fields["restaurantName"].(string); ok {
		p.RestaurantName = v
	}
	if v, ok := fields["restaurantPhone"].(string); ok {
		p.RestaurantPhone = v
	}
}
