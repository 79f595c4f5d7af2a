package service

import (
	"context"
	"strings"

	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

const msgDuplicateUser = "Email or username already exists"

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

type UserService struct {
	userRepo repository.UserRepository
	hashCost int
	now      Clock
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		hashCost: bcrypt.DefaultCost,
		now:      utcNow,
	}
}

// Register creates an account. The stored password is a bcrypt hash and is never
// serialized back to callers.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" || in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Missing required fields")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, storeError(ctx, "Error creating user", err)
	}
	if existing == nil {
		existing, err = s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, storeError(ctx, "Error creating user", err)
		}
	}
	if existing != nil {
		return nil, models.NewValidationError(msgDuplicateUser)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, storeError(ctx, "Error creating user", err)
	}

	now := s.now()
	user := &models.User{
		Name:      in.Name,
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hash),
		CreatedAt: now,
		UpdatedAt: now,
	}
	// The unique indexes still catch a registration racing the lookup above.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeError(ctx, "Error creating user", err)
	}
	return user, nil
}

// Authenticate returns the user whose email and password match. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeError(ctx, "Failed to sign in", err)
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	if err := requireUser(id); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "Failed to fetch user", err)
	}
	return user, nil
}
