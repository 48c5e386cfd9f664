package services

import (
	"context"
	"errors"
	"strings"

	"blogadmin/internal/apperr"
	"blogadmin/internal/models"
	"blogadmin/internal/repository"
	"blogadmin/internal/utils"

	"go.uber.org/zap"
)

type UserService struct {
	users *repository.Store[models.User]
	log   *zap.Logger
}

func NewUserService(users *repository.Store[models.User], log *zap.Logger) *UserService {
	return &UserService{users: users, log: log}
}

type UserInput struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
}

// UserPatch has no password field; passwords change through UpdatePassword.
type UserPatch struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Avatar *string `json:"avatar"`
	Role   *string `json:"role"`
}

type PasswordChange struct {
	Password       string `json:"password"`
	NewPassword    string `json:"new_password"`
	RelNewPassword string `json:"rel_new_password"`
}

func validRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleVisitor
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	if strings.TrimSpace(in.Name) == "" || in.Password == "" {
		return nil, apperr.Validation("name and password are required")
	}
	if in.Role == "" {
		in.Role = models.RoleVisitor
	}
	if !validRole(in.Role) {
		return nil, apperr.Validation("unknown role " + in.Role)
	}

	taken, err := s.users.Exists(ctx, repository.Query{}.Eq("name", in.Name))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("user already exists")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:     in.Name,
		Password: hash,
		Email:    in.Email,
		Avatar:   in.Avatar,
		Role:     in.Role,
	}
	if u.Avatar == "" && u.Email != "" {
		u.Avatar = utils.GravatarURL(u.Email)
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) FindAll(ctx context.Context, params ListParams) (*Page[models.User], error) {
	p := params.normalized()
	return Paginate[models.User](ctx, s.users, repository.Query{}.OrderBy("created_at", false), p.Page, p.PageSize)
}

func (s *UserService) FindOne(ctx context.Context, id uint) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) FindByName(ctx context.Context, name string) (*models.User, error) {
	return s.users.First(ctx, repository.Query{}.Eq("name", name))
}

// Update changes profile fields of user id. Only admins may do so.
func (s *UserService) Update(ctx context.Context, actor *models.User, id uint, patch UserPatch) (*models.User, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, apperr.Forbidden("admin role required")
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != u.Name {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, apperr.Validation("name must not be empty")
		}
		taken, err := s.users.Exists(ctx, repository.Query{}.Eq("name", *patch.Name))
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("user already exists")
		}
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Avatar != nil {
		u.Avatar = *patch.Avatar
	}
	if patch.Role != nil {
		if !validRole(*patch.Role) {
			return nil, apperr.Validation("unknown role " + *patch.Role)
		}
		u.Role = *patch.Role
	}

	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) UpdatePassword(ctx context.Context, id uint, in PasswordChange) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(in.Password, u.Password) {
		return nil, apperr.InvalidCredentials("invalid password")
	}
	if in.NewPassword != in.RelNewPassword {
		return nil, apperr.Validation("the two new passwords do not match")
	}
	if in.RelNewPassword == "" {
		return nil, apperr.Validation("new password is required")
	}

	hash, err := utils.HashPassword(in.RelNewPassword)
	if err != nil {
		return nil, err
	}
	u.Password = hash
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Bootstrap seeds the admin account on startup. An existing account is fine.
func (s *UserService) Bootstrap(ctx context.Context, name, password string) error {
	_, err := s.Create(ctx, UserInput{Name: name, Password: password, Role: models.RoleAdmin})
	if errors.Is(err, apperr.ErrConflict) {
		s.log.Info("admin account already exists", zap.String("name", name))
		return nil
	}
	if err != nil {
		return err
	}
	s.log.Info("admin account created", zap.String("name", name))
	return nil
}
