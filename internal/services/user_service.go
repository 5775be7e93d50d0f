package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chinwag/api/internal/helpers"
	"github.com/chinwag/api/internal/models"
)

type UserService struct {
	usersRepo models.UserRepo
	cld       *cloudinary.Cloudinary
	secret    string
	tokenTTL  time.Duration
}

func NewUserService(usersRepo models.UserRepo, cld *cloudinary.Cloudinary, secret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		usersRepo: usersRepo,
		cld:       cld,
		secret:    secret,
		tokenTTL:  tokenTTL,
	}
}

// ProfileUpdate carries the self-editable profile fields.
type ProfileUpdate struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
	Password  *string `json:"password"`
}

func (us *UserService) Register(ctx context.Context, user *models.User, password string) (*models.User, error) {
	if !user.AccessLevel.Valid() {
		user.AccessLevel = models.RoleGuest
	}
	if err := models.Validate.Struct(user); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	if !helpers.IsPasswordStrong(password) {
		return nil, fmt.Errorf("%w: password is not strong enough", models.ErrInvalidInput)
	}

	existing, err := us.usersRepo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrEmailTaken
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user.Password = hash

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	return us.usersRepo.CreateUser(ctx, user)
}

// Authenticate verifies credentials and issues a signed access token.
func (us *UserService) Authenticate(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := us.usersRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, models.ErrUserNotFound
	}

	if !helpers.VerifyPassword(password, user.Password) {
		return "", nil, models.ErrInvalidCredentials
	}

	token, err := helpers.GenerateAccessToken(user.ID.Hex(), int(user.AccessLevel), us.secret, us.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (us *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := us.usersRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies a partial self-update; a password change is
// re-hashed and re-checked for strength.
func (us *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) (*models.User, error) {
	fields := map[string]interface{}{}
	if update.FirstName != nil {
		fields["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		fields["last_name"] = *update.LastName
	}
	if update.Email != nil {
		fields["email"] = *update.Email
	}
	if update.Bio != nil {
		if err := models.Validate.Var(*update.Bio, "max=500"); err != nil {
			return nil, fmt.Errorf("%w: bio cannot exceed 500 characters", models.ErrInvalidInput)
		}
		fields["bio"] = *update.Bio
	}
	if update.Password != nil {
		if !helpers.IsPasswordStrong(*update.Password) {
			return nil, fmt.Errorf("%w: password is not strong enough", models.ErrInvalidInput)
		}
		hash, err := helpers.HashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		fields["password"] = hash
	}

	updated, err := us.usersRepo.UpdateUser(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, models.ErrUserNotFound
	}

	return updated, nil
}

func (us *UserService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	return us.usersRepo.DeleteUser(ctx, id)
}

// UploadAvatar uploads a new avatar image and stores its URL on the profile.
func (us *UserService) UploadAvatar(ctx context.Context, id primitive.ObjectID, file io.Reader) (*models.User, error) {
	publicID := fmt.Sprintf("%s-%s", id.Hex(), uuid.New().String())
	url, err := helpers.UploadImage(ctx, us.cld, file, helpers.AvatarFolder, publicID)
	if err != nil {
		return nil, err
	}

	updated, err := us.usersRepo.UpdateUser(ctx, id, map[string]interface{}{"avatar": url})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, models.ErrUserNotFound
	}

	return updated, nil
}
