// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"conduit/internal/cache"
	"conduit/internal/models"
	"conduit/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users and the follow graph.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Follow(ctx context.Context, followerID, followedID uint) error
	Unfollow(ctx context.Context, followerID, followedID uint) error
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("get_by_id", "users")()

	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user has the email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer observability.TrackQuery("get_by_email", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// errUnknownUsername keeps absent usernames out of the cache.
var errUnknownUsername = errors.New("unknown username")

// GetByUsername returns (nil, nil) when no user has the username. Hits are
// cached; the viewer-relative following flag is computed separately, so the
// entry is safe to share between viewers.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	defer observability.TrackQuery("get_by_username", "users")()

	var user models.User
	err := cache.Aside(ctx, cache.ProfileKey(username), &user, cache.ProfileTTL, func() error {
		if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errUnknownUsername
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if errors.Is(err, errUnknownUsername) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", "users")()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return duplicateUserError(constraint, err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("update", "users")()

	// The caller may have changed the username already, so the stored one is
	// read back to invalidate its cache entry too.
	var stored models.User
	prevUsername := ""
	if err := r.db.WithContext(ctx).Select("username").Take(&stored, user.ID).Error; err == nil {
		prevUsername = stored.Username
	}

	// Cached user rows come back without the password hash (json:"-"), so an
	// empty hash must never overwrite the stored one.
	q := r.db.WithContext(ctx)
	if user.Password == "" {
		q = q.Omit("password")
	}
	if err := q.Save(user).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return duplicateUserError(constraint, err)
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	cache.InvalidateProfile(ctx, user.Username)
	if prevUsername != "" && prevUsername != user.Username {
		cache.InvalidateProfile(ctx, prevUsername)
	}
	return nil
}

// duplicateUserError maps a unique violation on users to a per-field message
// when the constraint name identifies the column.
func duplicateUserError(constraint string, err error) error {
	c := strings.ToLower(constraint)
	lowered := strings.ToLower(err.Error())
	switch {
	case strings.Contains(c, "email") || strings.Contains(lowered, "email"):
		return models.NewFieldErrors(map[string][]string{"email": {"has already been taken"}})
	case strings.Contains(c, "username") || strings.Contains(lowered, "username"):
		return models.NewFieldErrors(map[string][]string{"username": {"has already been taken"}})
	default:
		return models.NewConflictError("username or email has already been taken")
	}
}

// Follow inserts a follow edge. Following an already followed user is a
// conflict, not a no-op.
func (r *userRepository) Follow(ctx context.Context, followerID, followedID uint) error {
	defer observability.TrackQuery("follow", "followings")()

	edge := models.Follow{FollowerID: followerID, FollowedID: followedID}
	if err := r.db.WithContext(ctx).Create(&edge).Error; err != nil {
		if _, ok := uniqueViolation(err); ok {
			return models.NewConflictError("already following this user")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Unfollow removes a follow edge. Unfollowing a user who was never followed
// reports not found.
func (r *userRepository) Unfollow(ctx context.Context, followerID, followedID uint) error {
	defer observability.TrackQuery("unfollow", "followings")()

	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Following", followedID)
	}
	return nil
}

func (r *userRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	defer observability.TrackQuery("is_following", "followings")()

	if followerID == 0 {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
