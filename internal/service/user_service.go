package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"aroha/internal/model"
	"aroha/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// userService implements UserService.
type userService struct {
	userRepo   repository.UserRepository
	sessionTTL time.Duration
	logger     zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, sessionTTL time.Duration, logger zerolog.Logger) UserService {
	return &userService{
		userRepo:   userRepo,
		sessionTTL: sessionTTL,
		logger:     logger.With().Str("service", "user").Logger(),
	}
}

// Signup creates an account and issues a login session. Passwords are stored
// only as bcrypt hashes.
func (s *userService) Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error) {
	if req == nil || strings.TrimSpace(req.Mobile) == "" {
		return nil, model.MissingField("mobile")
	}
	if req.Password == "" {
		return nil, model.MissingField("password")
	}

	existing, err := s.userRepo.GetByMobile(ctx, req.Mobile)
	if err != nil {
		s.logger.Error().Err(err).Str("mobile", req.Mobile).Msg("failed to check existing user")
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}
	if existing != nil {
		s.logger.Debug().Str("mobile", req.Mobile).Msg("mobile already registered")
		return nil, model.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Mobile:       req.Mobile,
		Email:        req.Email,
		PasswordHash: string(hash),
		Gender:       req.Gender,
		Address:      req.Address,
		Details:      req.Details,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("mobile", req.Mobile).Msg("failed to create user")
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}

	session, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user signed up")

	return &model.AuthResponse{User: user, Token: session.Token}, nil
}

// Login verifies credentials and issues a login session. Lookup misses and
// hash mismatches both report the same invalid-credentials error.
func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if req == nil || strings.TrimSpace(req.Mobile) == "" {
		return nil, model.MissingField("mobile")
	}
	if req.Password == "" {
		return nil, model.MissingField("password")
	}

	user, err := s.userRepo.GetByMobile(ctx, req.Mobile)
	if err != nil {
		s.logger.Error().Err(err).Str("mobile", req.Mobile).Msg("failed to look up user")
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	if user == nil {
		s.logger.Debug().Str("mobile", req.Mobile).Msg("login for unknown mobile")
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Debug().Str("mobile", req.Mobile).Msg("password mismatch")
		return nil, model.ErrInvalidCredentials
	}

	session, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")

	return &model.AuthResponse{User: user, Token: session.Token}, nil
}

// ForgotPassword issues a six-digit recovery code for the given mobile.
func (s *userService) ForgotPassword(ctx context.Context, mobile string) (string, error) {
	if strings.TrimSpace(mobile) == "" {
		return "", model.MissingField("mobile")
	}

	code, err := recoveryCode()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate recovery code")
		return "", fmt.Errorf("failed to issue recovery code: %w", err)
	}

	found, err := s.userRepo.SetRecoveryCode(ctx, mobile, code)
	if err != nil {
		s.logger.Error().Err(err).Str("mobile", mobile).Msg("failed to store recovery code")
		return "", fmt.Errorf("failed to issue recovery code: %w", err)
	}

	if !found {
		return "", model.ErrUserNotFound
	}

	s.logger.Info().Str("mobile", mobile).Msg("recovery code issued")

	return code, nil
}

// UpdateProfile updates the authenticated user's profile fields. Nil fields
// are left unchanged; a new password is re-hashed before storage.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.ProfileUpdateRequest) (*model.User, error) {
	if req == nil {
		return nil, model.MissingField("body")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to look up user")
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if user == nil {
		return nil, model.ErrUserNotFound
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Details != nil {
		user.Details = *req.Details
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to hash password")
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to update user")
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info().Str("user_id", userID.String()).Msg("profile updated")

	return user, nil
}

// Authenticate resolves a bearer token to a live session.
func (s *userService) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, model.ErrInvalidSession
	}

	session, err := s.userRepo.GetSession(ctx, token)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to look up session")
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if session == nil || session.Expired(time.Now()) {
		return nil, model.ErrInvalidSession
	}

	return session, nil
}

// issueSession creates and stores a new opaque session token.
func (s *userService) issueSession(ctx context.Context, userID uuid.UUID) (*model.Session, error) {
	token, err := sessionToken()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate session token")
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	now := time.Now()
	session := &model.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}

	if err := s.userRepo.CreateSession(ctx, session); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to store session")
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	return session, nil
}

// sessionToken returns 32 random bytes hex-encoded.
func sessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// recoveryCode returns a random six-digit numeric code.
func recoveryCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
