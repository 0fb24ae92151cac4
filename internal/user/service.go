package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"tarim-admin/internal/logger"
	"tarim-admin/internal/profile"

	"go.uber.org/zap"
)

const minPasswordLen = 6

type ProfileService interface {
	Get(ctx context.Context, uid string) (*profile.AdminProfile, error)
	Create(ctx context.Context, p profile.AdminProfile) (*profile.AdminProfile, error)
}

// Session is the result of a successful sign-up or sign-in.
type Session struct {
	Token   string                `json:"token"`
	User    *User                 `json:"user"`
	Profile *profile.AdminProfile `json:"profile"`
}

type Service interface {
	Register(ctx context.Context, input SignUpInput) (*Session, error)
	Login(ctx context.Context, input LoginInput) (*Session, error)
	GetByID(ctx context.Context, id uint) (*User, error)
}

type service struct {
	repo     Repository
	profiles ProfileService
}

func NewService(repo Repository, profiles ProfileService) Service {
	return &service{repo: repo, profiles: profiles}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Register creates the credentials and the admin profile, then signs in.
func (s *service) Register(ctx context.Context, input SignUpInput) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	u, err := s.repo.Create(ctx, email, hashed, string(RoleAdmin))
	if err != nil {
		if !errors.Is(err, ErrEmailExists) {
			log.Error("failed to create user", zap.String("email", email), zap.Error(err))
		}
		return nil, err
	}

	p, err := s.profiles.Create(ctx, profile.AdminProfile{
		UID:             u.UID(),
		Email:           email,
		Name:            strings.TrimSpace(input.Name),
		RestaurantName:  strings.TrimSpace(input.RestaurantName),
		RestaurantPhone: strings.TrimSpace(input.RestaurantPhone),
	})
	if err != nil {
		log.Error("failed to create admin profile, removing user",
			zap.Uint("user_id", u.ID),
			zap.Error(err),
		)
		if delErr := s.repo.Delete(ctx, u.ID); delErr != nil {
			log.Error("failed to remove user", zap.Uint("user_id", u.ID), zap.Error(delErr))
		}
		return nil, err
	}

	token, err := GenerateJWT(u.ID, string(u.Role), email)
	if err != nil {
		log.Error("failed to generate jwt", zap.Uint("user_id", u.ID), zap.Error(err))
		return nil, err
	}

	log.Info("register service completed",
		zap.Uint("user_id", u.ID),
		zap.String("email", email),
	)

	return &Session{Token: token, User: u, Profile: p}, nil
}

// Login checks credentials and requires an admin profile.
func (s *service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	email := strings.ToLower(strings.TrimSpace(input.Email))
	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		log.Info("email not found")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !CheckPasswordHash(input.Password, u.Password) {
		log.Info("password not match", zap.Uint("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	p, err := s.profiles.Get(ctx, u.UID())
	if errors.Is(err, profile.ErrProfileNotFound) || (err == nil && !p.IsAdmin()) {
		log.Warn("sign-in without admin profile", zap.Uint("user_id", u.ID))
		return nil, ErrNotRegistered
	}
	if err != nil {
		return nil, err
	}

	token, err := GenerateJWT(u.ID, string(u.Role), u.Email)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, User: u, Profile: p}, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}
