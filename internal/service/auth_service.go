package service

import (
	"context"
	"time"

	"github.com/nexushr/nexushr/internal/model"
	appErr "github.com/nexushr/nexushr/internal/pkg/errors"
	"github.com/nexushr/nexushr/internal/pkg/jwt"
	"github.com/nexushr/nexushr/internal/pkg/password"
)

// seedUsers is the fixed credential table. There is no registration
// surface; accounts exist only here.
func seedUsers() map[string]*model.User {
	return map[string]*model.User{
		"hr_admin": {
			Username:       "hr_admin",
			FullName:       "HR Administrator",
			Email:          "admin@nexushr.com",
			HashedPassword: "$2b$12$Kt8uge7MyunZtznfuxxcVuBAapqhfht.i9zI7NWFA75ZGK5.CPsp2",
			Role:           model.RoleAdmin,
		},
		"hr_manager": {
			Username:       "hr_manager",
			FullName:       "HR Manager",
			Email:          "manager@nexushr.com",
			HashedPassword: "$2b$12$UOgP2c1/7Mgj/qNGbr3jO.WWEM1J2vwxDazWXjjx.DdSnD9NGx7oW",
			Role:           model.RoleHRManager,
		},
		"employee": {
			Username:       "employee",
			FullName:       "John Doe",
			Email:          "employee@nexushr.com",
			HashedPassword: "$2b$12$aNQVHkg5Fx7OiGZNVjLBQell2lcjFrdHyvCZrC90MYgnK3MLDZJQS",
			Role:           model.RoleEmployee,
		},
	}
}

type AuthService struct {
	secret []byte
	ttl    time.Duration
	users  map[string]*model.User
}

func NewAuthService(secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		secret: []byte(secret),
		ttl:    ttl,
		users:  seedUsers(),
	}
}

// Login verifies credentials and issues a bearer token. Unknown user,
// wrong password and disabled account are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, username string, plain string) (string, *model.User, error) {
	_ = ctx
	user, ok := s.users[username]
	if !ok || user.Disabled {
		return "", nil, appErr.ErrUnauthorized
	}
	if err := password.Compare(user.HashedPassword, plain); err != nil {
		return "", nil, appErr.ErrUnauthorized
	}
	token, err := jwt.GenerateToken(user.Username, user.Role, s.secret, s.ttl)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) GetUser(username string) (*model.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return user, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.ttl
}
