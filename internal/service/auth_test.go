package service_test

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Anika2121/brain-bloom/internal/domain"
	"github.com/Anika2121/brain-bloom/internal/repository"
	"github.com/Anika2121/brain-bloom/internal/repository/mocks"
	"github.com/Anika2121/brain-bloom/internal/service"
)

const testJWTSecret = "unit-test-secret"

func newAuthService(userRepo *mocks.UserRepository, mailer *recordingMailer) *service.AuthService {
	return service.NewAuthService(userRepo, mailer, testJWTSecret, 24*time.Hour)
}

func TestAuthService_Register_SendsOTP(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	mailer := &recordingMailer{}
	svc := newAuthService(userRepo, mailer)
	ctx := context.Background()

	var savedUser *domain.User
	userRepo.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
		savedUser = args.Get(1).(*domain.User)
		savedUser.ID = 42
	}).Return(nil).Once()

	var savedOTP *domain.OTP
	userRepo.On("SaveOTP", ctx, mock.Anything).Run(func(args mock.Arguments) {
		savedOTP = args.Get(1).(*domain.OTP)
	}).Return(nil).Once()

	user, err := svc.Register(ctx, " Anika ", "Anika@Example.COM", "secret123", "CSE", "6")

	require.NoError(t, err)
	assert.Equal(t, uint(42), user.ID)
	assert.Equal(t, "Anika", savedUser.Name)
	assert.Equal(t, "anika@example.com", savedUser.Email)
	assert.False(t, savedUser.IsVerified)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(savedUser.Password), []byte("secret123")))

	require.NotNil(t, savedOTP)
	assert.Equal(t, "anika@example.com", savedOTP.Email)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), savedOTP.Code)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "anika@example.com:"+savedOTP.Code, mailer.sent[0])
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	svc := newAuthService(userRepo, &recordingMailer{})

	userRepo.On("Save", mock.Anything, mock.Anything).Return(repository.ErrDuplicateEntry).Once()

	_, err := svc.Register(context.Background(), "Anika", "anika@example.com", "secret123", "", "")
	assert.ErrorIs(t, err, service.ErrRegistrationFailed)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthService(new(mocks.UserRepository), &recordingMailer{})

	_, err := svc.Register(context.Background(), "Anika", "not-an-email", "secret123", "", "")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.Register(context.Background(), "Anika", "anika@example.com", "short", "", "")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestAuthService_Register_MailFailureStillRegisters(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	mailer := &recordingMailer{err: assert.AnError}
	svc := newAuthService(userRepo, mailer)

	userRepo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	userRepo.On("SaveOTP", mock.Anything, mock.Anything).Return(nil).Once()

	user, err := svc.Register(context.Background(), "Anika", "anika@example.com", "secret123", "", "")
	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestAuthService_VerifyOTP(t *testing.T) {
	const email = "anika@example.com"

	t.Run("marks verified and clears codes", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := newAuthService(userRepo, &recordingMailer{})
		ctx := context.Background()

		userRepo.On("LatestOTP", ctx, email).Return(&domain.OTP{Email: email, Code: "123456", CreatedAt: time.Now()}, nil).Once()
		userRepo.On("FindByEmail", ctx, email).Return(&domain.User{ID: 42, Email: email}, nil).Once()

		var saved *domain.User
		userRepo.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.User)
		}).Return(nil).Once()
		userRepo.On("DeleteOTPs", ctx, email).Return(nil).Once()

		require.NoError(t, svc.VerifyOTP(ctx, email, "123456"))
		assert.True(t, saved.IsVerified)
	})

	t.Run("expired code", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := newAuthService(userRepo, &recordingMailer{})

		stale := &domain.OTP{Email: email, Code: "123456", CreatedAt: time.Now().Add(-11 * time.Minute)}
		userRepo.On("LatestOTP", mock.Anything, email).Return(stale, nil).Once()

		err := svc.VerifyOTP(context.Background(), email, "123456")
		assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
		userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("wrong code", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := newAuthService(userRepo, &recordingMailer{})

		userRepo.On("LatestOTP", mock.Anything, email).Return(&domain.OTP{Email: email, Code: "123456", CreatedAt: time.Now()}, nil).Once()

		err := svc.VerifyOTP(context.Background(), email, "654321")
		assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	})

	t.Run("no pending code", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := newAuthService(userRepo, &recordingMailer{})

		userRepo.On("LatestOTP", mock.Anything, email).Return(nil, repository.ErrNotFound).Once()

		err := svc.VerifyOTP(context.Background(), email, "123456")
		assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	})
}

func TestAuthService_Login(t *testing.T) {
	const email = "anika@example.com"
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	verified := &domain.User{ID: 42, Email: email, Password: string(hashed), IsVerified: true}

	t.Run("issues a parseable token", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := newAuthService(userRepo, &recordingMailer{})

		userRepo.On("FindByEmail", mock.Anything, email).Return(verified, nil).Once()

		token, user, err := svc.Login(context.Background(), strings.ToUpper(email), "secret123")
		require.NoError(t, err)
		assert.Equal(t, uint(42), user.ID)

		parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
			return []byte(testJWTSecret), nil
		})
		require.NoError(t, err)
		claims := parsed.Claims.(jwt.MapClaims)
		assert.Equal(t, float64(42), claims["user_id"])
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := newAuthService(userRepo, &recordingMailer{})

		userRepo.On("FindByEmail", mock.Anything, email).Return(verified, nil).Once()

		_, _, err := svc.Login(context.Background(), email, "wrong")
		assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	})

	t.Run("unverified account", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := newAuthService(userRepo, &recordingMailer{})

		unverified := &domain.User{ID: 7, Email: email, Password: string(hashed)}
		userRepo.On("FindByEmail", mock.Anything, email).Return(unverified, nil).Once()

		_, _, err := svc.Login(context.Background(), email, "secret123")
		assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	})

	t.Run("unknown email", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := newAuthService(userRepo, &recordingMailer{})

		userRepo.On("FindByEmail", mock.Anything, email).Return(nil, repository.ErrNotFound).Once()

		_, _, err := svc.Login(context.Background(), email, "secret123")
		assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	})
}
