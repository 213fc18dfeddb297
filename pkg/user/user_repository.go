package user

import (
	"context"
	"time"

	"notin-market/entities"

	"gorm.io/gorm"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		UpdateUser(ctx context.Context, user *entities.User) error
		CreateWallet(ctx context.Context, wallet *entities.Wallet) error

		CreateOtp(ctx context.Context, otp *entities.Otp) error
		GetLatestOtp(ctx context.Context, userID string) (*entities.Otp, error)
		MarkOtpUsed(ctx context.Context, otp *entities.Otp) error

		Atomic(ctx context.Context, fn func(repo UserRepository) error) error
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).
		Preload("Wallet").
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).
		Preload("Wallet").
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) CreateWallet(ctx context.Context, wallet *entities.Wallet) error {
	return r.db.WithContext(ctx).Create(wallet).Error
}

func (r *userRepository) CreateOtp(ctx context.Context, otp *entities.Otp) error {
	return r.db.WithContext(ctx).Create(otp).Error
}

func (r *userRepository) GetLatestOtp(ctx context.Context, userID string) (*entities.Otp, error) {
	var otp entities.Otp
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND used_at IS NULL", userID).
		Order("created_at DESC").
		First(&otp).Error; err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *userRepository) MarkOtpUsed(ctx context.Context, otp *entities.Otp) error {
	now := time.Now()
	otp.UsedAt = &now
	return r.db.WithContext(ctx).Save(otp).Error
}

func (r *userRepository) Atomic(ctx context.Context, fn func(repo UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&userRepository{db: tx})
	})
}
