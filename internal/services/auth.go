package services

import (
	"errors"
	"time"

	"github.com/nathantkn/restockd/internal/config"
	"github.com/nathantkn/restockd/internal/models"
	"github.com/nathantkn/restockd/internal/utils"
	"github.com/nathantkn/restockd/pkg/apperrors"
	"github.com/nathantkn/restockd/pkg/logger"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{db: db, jwtConfig: jwtCfg}
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Role      string `json:"role" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	OrgName   string `json:"org_name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	ExpireAt time.Time    `json:"expire_at"`
}

// Register creates a new donor or food bank account.
func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	if req.Role != models.RoleDonor && req.Role != models.RoleFoodBank {
		return nil, apperrors.NewValidation("role must be donor or food_bank")
	}
	if req.Role == models.RoleFoodBank && req.OrgName == "" {
		return nil, apperrors.NewValidation("food bank accounts require an organization name")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.NewDependency("failed to hash password", err)
	}

	user := models.User{
		Email:     req.Email,
		Password:  hashed,
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		OrgName:   req.OrgName,
		Address:   req.Address,
		Phone:     req.Phone,
		IsActive:  true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewConflict("email is already registered")
		}
		return nil, apperrors.NewDependency("failed to store user", err)
	}

	return &user, nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewValidation("invalid email or password")
		}
		return nil, apperrors.NewDependency("failed to load user", err)
	}

	if !user.IsActive {
		return nil, apperrors.NewValidation("account is disabled")
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, apperrors.NewValidation("invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, s.jwtConfig.ExpireHour)
	if err != nil {
		return nil, apperrors.NewDependency("failed to issue token", err)
	}

	now := time.Now()
	user.LastLogin = &now
	// Best effort: a failed stamp must not block the login.
	if err := s.db.Save(&user).Error; err != nil {
		logger.Warnf("[Auth] Failed to record last login for user %d: %v", user.ID, err)
	}

	return &LoginResponse{
		Token:    token,
		User:     &user,
		ExpireAt: now.Add(time.Duration(s.jwtConfig.ExpireHour) * time.Hour),
	}, nil
}

// GetUserByID retrieves a user by ID.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user not found")
		}
		return nil, apperrors.NewDependency("failed to load user", err)
	}
	return &user, nil
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func (s *AuthService) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return apperrors.NewNotFound("user not found")
	}

	if !utils.CheckPassword(req.OldPassword, user.Password) {
		return apperrors.NewValidation("incorrect old password")
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.NewDependency("failed to hash password", err)
	}

	user.Password = hashed
	if err := s.db.Save(&user).Error; err != nil {
		return apperrors.NewDependency("failed to update password", err)
	}
	return nil
}
