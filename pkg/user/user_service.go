package user

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"crypto/rand"

	"notin-market/domain"
	"notin-market/entities"
	"notin-market/internal/utils/mailing"
	"notin-market/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const otpTTL = 10 * time.Minute

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (*domain.UserResponse, error)
		SendVerificationEmail(ctx context.Context, email string) error
		VerifyOtp(ctx context.Context, req domain.VerifyOtpRequest) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

// Register creates the user and opens their wallet with the starting coin
// grant in one transaction. Wallet creation is an explicit step here, not a
// persistence hook, so "every user has exactly one wallet" is enforced by
// this code path alone.
func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
	}

	err = s.userRepository.Atomic(ctx, func(repo UserRepository) error {
		if err := repo.CreateUser(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrEmailAlreadyExists
			}
			return err
		}
		return repo.CreateWallet(ctx, &entities.Wallet{
			UserID: user.ID,
			Coins:  domain.StartingCoinGrant,
		})
	})
	if err != nil {
		return nil, err
	}

	return &domain.RegisterResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
		Coins: domain.StartingCoinGrant,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCredentialsInvalid
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, domain.ErrCredentialsInvalid
	}

	role := domain.RoleUser
	if user.IsAdmin {
		role = domain.RoleAdmin
	}

	return &domain.LoginResponse{
		Token: s.jwtService.GenerateTokenUser(user.ID.String(), role),
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (*domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	resp := &domain.UserResponse{
		ID:              user.ID.String(),
		Name:            user.Name,
		Email:           user.Email,
		EmailVerifiedAt: user.EmailVerifiedAt,
	}
	if user.Wallet != nil {
		resp.Coins = user.Wallet.Coins
	}
	return resp, nil
}

func (s *userService) SendVerificationEmail(ctx context.Context, email string) error {
	user, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	code, err := generateOtpCode()
	if err != nil {
		return err
	}

	if err := s.userRepository.CreateOtp(ctx, &entities.Otp{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(otpTTL),
	}); err != nil {
		return err
	}

	body := fmt.Sprintf("<p>Your verification code is <b>%s</b>. It expires in 10 minutes.</p>", code)
	return mailing.SendMail(user.Email, "Verify your email", body)
}

func (s *userService) VerifyOtp(ctx context.Context, req domain.VerifyOtpRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	otp, err := s.userRepository.GetLatestOtp(ctx, user.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOtpInvalid
		}
		return err
	}

	if otp.Code != req.Code {
		return domain.ErrOtpInvalid
	}
	if time.Now().After(otp.ExpiresAt) {
		return domain.ErrOtpExpired
	}

	now := time.Now()
	user.EmailVerifiedAt = &now

	return s.userRepository.Atomic(ctx, func(repo UserRepository) error {
		if err := repo.MarkOtpUsed(ctx, otp); err != nil {
			return err
		}
		return repo.UpdateUser(ctx, user)
	})
}

func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
