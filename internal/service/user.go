package service

import (
	"context"
	"strings"

	"github.com/quizdeck-dev/quizdeck/internal/apperr"
	"github.com/quizdeck-dev/quizdeck/internal/auth"
	"github.com/quizdeck-dev/quizdeck/internal/logging"
	"github.com/quizdeck-dev/quizdeck/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	ByID(ctx context.Context, id string) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	ListPaginated(ctx context.Context, page, limit int) ([]models.User, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type SignUpInput struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProfilePatch enumerates the mutable profile fields. Any change requires
// proving the current password.
type ProfilePatch struct {
	CurrentPassword string  `json:"current_password" binding:"required"`
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	NewPassword     *string `json:"new_password"`
}

type UserService struct {
	users  UserStore
	tokens *auth.TokenIssuer
}

func NewUserService(users UserStore, tokens *auth.TokenIssuer) *UserService {
	return &UserService{users: users, tokens: tokens}
}

func (s *UserService) SignUp(ctx context.Context, input SignUpInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if len(input.Username) < 6 {
		return nil, apperr.Invalid("username must be at least 6 characters")
	}
	if len(input.Password) < 8 {
		return nil, apperr.Invalid("password must be at least 8 characters")
	}

	if taken, err := s.users.UsernameTaken(ctx, input.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Conflict("username already taken")
	}
	if taken, err := s.users.EmailTaken(ctx, input.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Conflict("email already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(err, "hash password")
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}

	logging.L.WithField("user_id", user.ID).Info("user created")
	return &user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return "", nil, apperr.Invalid("invalid email or password")
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperr.Invalid("invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", nil, apperr.Wrap(err, "issue token")
	}

	return token, user, nil
}

func (s *UserService) ByID(ctx context.Context, id string) (*models.User, error) {
	return s.users.ByID(ctx, id)
}

func (s *UserService) ListPaginated(ctx context.Context, page, limit int) ([]models.User, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}
	users, err := s.users.ListPaginated(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperr.NotFound("no users found at page %d", page)
	}
	return users, nil
}

// UpdateProfile applies the patch field-by-field after verifying the
// caller's current password. Only the caller may update their own profile.
func (s *UserService) UpdateProfile(ctx context.Context, callerID, targetID string, patch ProfilePatch) (*models.User, error) {
	if callerID != targetID {
		return nil, apperr.Forbidden("you may only update your own profile")
	}

	user, err := s.users.ByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(patch.CurrentPassword)); err != nil {
		return nil, apperr.Invalid("incorrect password")
	}

	fields := make(map[string]interface{})
	if patch.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*patch.LastName)
	}
	if patch.NewPassword != nil {
		if len(*patch.NewPassword) < 8 {
			return nil, apperr.Invalid("password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperr.Wrap(err, "hash password")
		}
		fields["password_hash"] = string(hash)
	}

	if len(fields) == 0 {
		return nil, apperr.Invalid("no fields to update")
	}

	if err := s.users.Update(ctx, targetID, fields); err != nil {
		return nil, err
	}

	return s.users.ByID(ctx, targetID)
}

// Delete removes the caller's own account. Memberships, actions, results
// and notifications cascade with the row.
func (s *UserService) Delete(ctx context.Context, callerID, targetID string) error {
	if callerID != targetID {
		return apperr.Forbidden("you may only delete your own account")
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}
	logging.L.WithField("user_id", targetID).Info("user deleted")
	return nil
}
