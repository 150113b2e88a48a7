package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Anika2121/brain-bloom/internal/domain"
	"github.com/Anika2121/brain-bloom/internal/repository"
)

const otpTTL = 10 * time.Minute

// OTPMailer delivers one-time verification codes. Implemented by the SMTP
// mailer; tests swap in a recorder.
type OTPMailer interface {
	SendOTP(to, code string) error
}

// AuthService handles signup with email verification and JWT login.
type AuthService struct {
	userRepo  repository.UserRepository
	mailer    OTPMailer
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, mailer OTPMailer, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if userRepo == nil {
		panic("service: user repository is nil")
	}
	if mailer == nil {
		panic("service: mailer is nil")
	}
	if jwtSecret == "" {
		panic("service: jwt secret is empty")
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:  userRepo,
		mailer:    mailer,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Register creates an unverified account and emails a 6-digit OTP to it.
func (s *AuthService) Register(ctx context.Context, name, email, password, department, semester string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service: hash password: %w", err)
	}

	user := &domain.User{
		Name:       name,
		Email:      email,
		Password:   string(hashed),
		Department: department,
		Semester:   semester,
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, fmt.Errorf("%w: email already registered", ErrRegistrationFailed)
		}
		return nil, fmt.Errorf("service: save user: %w", err)
	}

	code, err := generateOTPCode()
	if err != nil {
		return nil, fmt.Errorf("service: generate otp: %w", err)
	}
	otp := &domain.OTP{Email: email, Code: code}
	if err := s.userRepo.SaveOTP(ctx, otp); err != nil {
		return nil, fmt.Errorf("service: save otp: %w", err)
	}
	if err := s.mailer.SendOTP(email, code); err != nil {
		logrus.WithFields(logrus.Fields{"email": email, "error": err}).Error("Failed to send OTP email")
	}
	return user, nil
}

// VerifyOTP marks the account verified when the latest unexpired code matches.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return fmt.Errorf("%w: email and code are required", ErrValidation)
	}

	otp, err := s.userRepo.LatestOTP(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: no pending verification", ErrAuthenticationFailed)
		}
		return fmt.Errorf("service: load otp: %w", err)
	}
	if s.now().After(otp.CreatedAt.Add(otpTTL)) {
		return fmt.Errorf("%w: code expired", ErrAuthenticationFailed)
	}
	if otp.Code != code {
		return fmt.Errorf("%w: incorrect code", ErrAuthenticationFailed)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: account not found", ErrAuthenticationFailed)
		}
		return fmt.Errorf("service: load user: %w", err)
	}
	user.IsVerified = true
	if err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("service: mark verified: %w", err)
	}
	if err := s.userRepo.DeleteOTPs(ctx, email); err != nil {
		logrus.WithFields(logrus.Fields{"email": email, "error": err}).Warn("Failed to clear used OTPs")
	}
	return nil
}

// Login checks credentials for a verified account and issues a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, fmt.Errorf("service: load user: %w", err)
	}
	if !user.IsVerified {
		return "", nil, fmt.Errorf("%w: email not verified", ErrAuthenticationFailed)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	now := s.now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("service: sign token: %w", err)
	}
	return signed, user, nil
}

func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
