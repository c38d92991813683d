// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"

	"conduit/internal/models"
	"conduit/internal/observability"
	"conduit/internal/repository"
	"conduit/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration, authentication, profile management and
// the follow graph.
type UserService struct {
	userRepo  repository.UserRepository
	sanitizer validation.Sanitizer
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo:  userRepo,
		sanitizer: validation.BasicSanitizer{},
	}
}

// RegisterInput carries the fields for a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register validates the input, hashes the password and creates the account.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	fields := map[string][]string{}
	if err := validation.ValidateUsername(in.Username); err != nil {
		fields["username"] = append(fields["username"], err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		fields["email"] = append(fields["email"], err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		fields["password"] = append(fields["password"], err.Error())
	}
	if len(fields) > 0 {
		return nil, models.NewFieldErrors(fields)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	observability.UsersRegistered.Inc()
	return user, nil
}

// Login verifies the credentials. Unknown email and wrong password produce
// the same error so accounts cannot be enumerated.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		observability.LoginFailures.Inc()
		return nil, models.NewAuthError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		observability.LoginFailures.Inc()
		return nil, models.NewAuthError()
	}
	return user, nil
}

// GetByID returns the user for the given id.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateUserInput carries a partial account update. Nil pointers mean the
// field is untouched; an explicit empty string clears it where allowed.
type UpdateUserInput struct {
	UserID   uint
	Email    *string
	Username *string
	Password *string
	Bio      *string
	Image    *string
}

// Update applies the provided fields to the account after validating each.
func (s *UserService) Update(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	fields := map[string][]string{}
	if in.Username != nil {
		if err := validation.ValidateUsername(*in.Username); err != nil {
			fields["username"] = append(fields["username"], err.Error())
		}
	}
	if in.Email != nil {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			fields["email"] = append(fields["email"], err.Error())
		}
	}
	if in.Password != nil {
		if err := validation.ValidatePassword(*in.Password); err != nil {
			fields["password"] = append(fields["password"], err.Error())
		}
	}
	if len(fields) > 0 {
		return nil, models.NewFieldErrors(fields)
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hashed)
	}
	if in.Bio != nil {
		user.Bio = s.sanitizer.Clean(*in.Bio)
	}
	if in.Image != nil {
		user.Image = s.sanitizer.Clean(*in.Image)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Profile returns the viewer-relative profile for a username.
func (s *UserService) Profile(ctx context.Context, username string, viewerID uint) (*models.Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("Profile", username)
	}

	following, err := s.userRepo.IsFollowing(ctx, viewerID, user.ID)
	if err != nil {
		return nil, err
	}
	profile := user.Profile(following)
	return &profile, nil
}

// Follow adds a follow edge and returns the updated profile. Following
// yourself is rejected.
func (s *UserService) Follow(ctx context.Context, followerID uint, username string) (*models.Profile, error) {
	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, models.NewNotFoundError("Profile", username)
	}
	if target.ID == followerID {
		return nil, models.NewValidationError("you cannot follow yourself")
	}

	if err := s.userRepo.Follow(ctx, followerID, target.ID); err != nil {
		return nil, err
	}
	profile := target.Profile(true)
	return &profile, nil
}

// Unfollow removes a follow edge and returns the updated profile.
func (s *UserService) Unfollow(ctx context.Context, followerID uint, username string) (*models.Profile, error) {
	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, models.NewNotFoundError("Profile", username)
	}

	if err := s.userRepo.Unfollow(ctx, followerID, target.ID); err != nil {
		return nil, err
	}
	profile := target.Profile(false)
	return &profile, nil
}
