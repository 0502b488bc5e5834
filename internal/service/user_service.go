package service

import (
	"context"
	"errors"
	"time"

	"shallbuy/internal/entity"
	"shallbuy/internal/repository"
	"shallbuy/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type UserConfig struct {
	// VerificationTTL bounds the lifetime of an email verification challenge.
	VerificationTTL time.Duration
	// FrontendBaseURL is the base for the deep link in the welcome email.
	FrontendBaseURL string
}

type UserService struct {
	users    repository.UserRepository
	activity repository.ActivityLogRepository

	billing   BillingGateway
	email     EmailSender
	tokens    TokenIssuer
	passwords PasswordHasher
	clock     Clock
	logger    *logrus.Logger
	config    UserConfig
}

func NewUserService(
	users repository.UserRepository,
	activity repository.ActivityLogRepository,
	billing BillingGateway,
	email EmailSender,
	tokens TokenIssuer,
	passwords PasswordHasher,
	clock Clock,
	logger *logrus.Logger,
	config UserConfig,
) *UserService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UserService{
		users:     users,
		activity:  activity,
		billing:   billing,
		email:     email,
		tokens:    tokens,
		passwords: passwords,
		clock:     clock,
		logger:    logger,
		config:    config,
	}
}

type RegisterInput struct {
	Email       string
	Username    string
	Password    string
	FullName    string
	CountryCode string
	PhoneNumber string
	CompanyName string
	Addresses   []entity.Address
}

type LoginResult struct {
	Token string
	User  *entity.User
}

// Register creates a new account in the pending-verification state. The
// billing customer is resolved before the row is persisted; the welcome email
// and the activity-log entry run afterwards and are never rolled back.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	email := utils.NormalizeEmail(input.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	code, err := utils.GenerateCode()
	if err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(s.verificationTTL())

	customerID, err := s.billing.FindOrCreateCustomer(ctx, email, input.Username)
	if err != nil {
		return nil, upstreamError("resolve billing customer", err)
	}

	user := &entity.User{
		Email:                      email,
		Username:                   input.Username,
		PasswordHash:               hash,
		FullName:                   input.FullName,
		CountryCode:                input.CountryCode,
		PhoneNumber:                input.PhoneNumber,
		ProfileType:                entity.ProfileIndividual,
		BillingCustomerID:          customerID,
		EmailVerificationCode:      &code,
		EmailVerificationExpiresAt: &expiresAt,
		Addresses:                  input.Addresses,
	}
	if input.CompanyName != "" {
		user.ProfileType = entity.ProfileBusiness
		user.CompanyName = &input.CompanyName
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if s.email != nil {
		subject, html := accountVerificationEmail(user, code, s.config.FrontendBaseURL)
		if err := s.email.Send(ctx, user.Email, subject, html); err != nil {
			s.logger.WithError(err).WithField("user_id", user.ID).Error("send verification email")
		}
	}
	if s.activity != nil {
		if err := s.activity.Record(ctx, entity.ActionCreate, entity.ActionTypeUser, user.ID); err != nil {
			s.logger.WithError(err).WithField("user_id", user.ID).Error("record activity log")
		}
	}

	return user, nil
}

// Login authenticates by email and password. Verification state is not a
// gate here; unverified users may log in.
func (s *UserService) Login(ctx context.Context, email string, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if !s.passwords.Verify(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("persist last login")
	}
	user.LastLoginAt = &now

	return &LoginResult{Token: token, User: user}, nil
}

// VerifyEmail consumes the one-time challenge. The challenge is cleared on
// success, so a repeat attempt fails with the expired reason.
func (s *UserService) VerifyEmail(ctx context.Context, userID uuid.UUID, code string) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.EmailVerificationCode == nil ||
		user.EmailVerificationExpiresAt == nil ||
		user.EmailVerificationExpiresAt.Before(s.now()) {
		return nil, &VerificationError{Reason: VerificationExpired}
	}
	if *user.EmailVerificationCode != code {
		return nil, &VerificationError{Reason: VerificationCodeMismatch}
	}

	if err := s.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	user.EmailVerified = true
	user.EmailVerificationCode = nil
	user.EmailVerificationExpiresAt = nil
	return user, nil
}

func (s *UserService) CheckUsernameAvailable(ctx context.Context, username string) (bool, error) {
	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByIDWithRelations(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// DeleteUser removes the account together with its activity logs,
// subscription memberships, payments and addresses; all or nothing.
func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *UserService) verificationTTL() time.Duration {
	if s.config.VerificationTTL > 0 {
		return s.config.VerificationTTL
	}
	return 20 * time.Minute
}
