package services

import (
	"canvas-lab/auth"
	"canvas-lab/domain"
	"canvas-lab/errors"
	"canvas-lab/repositories"
	"fmt"
	"time"
)

type IAuthService interface {
	Register(name, email, password string) (Token, error)
	Login(email, password string) (Token, domain.User, error)
}

type AuthService struct {
	userRepo      repositories.IUserRepository
	tokenDuration time.Duration
}

type Token string

func NewAuthService(userRepo repositories.IUserRepository, tokenDuration time.Duration) *AuthService {
	return &AuthService{userRepo: userRepo, tokenDuration: tokenDuration}
}

// Register validates the request, hashes the password, and persists the
// new user with a palette-assigned color and a default bio. The email
// doubles as the user ID.
func (s *AuthService) Register(name, email, password string) (Token, error) {
	valReq := auth.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}

	// Validate business rules before any expensive cryptographic work.
	if err := auth.ValidateRegister(valReq); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	count, err := s.userRepo.CountUsers()
	if err != nil {
		return "", err
	}

	user := domain.User{
		ID:    email,
		Name:  name,
		Color: domain.UserColors[count%len(domain.UserColors)],
		Bio:   fmt.Sprintf("Hi, I'm %s! Let's draw something cool.", name),
	}
	if err := s.userRepo.CreateUser(user, hashedPassword); err != nil {
		return "", err // Propagates ErrUserAlreadyExists if the email is taken
	}

	token, err := auth.GenerateToken(user.ID, user.Name, s.tokenDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}

// Login checks the credentials and issues a session token along with the
// stored user profile.
func (s *AuthService) Login(email, password string) (Token, domain.User, error) {
	stored, err := s.userRepo.GetUser(email)
	if err != nil {
		// Generic error to prevent user enumeration attacks
		return "", domain.User{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, stored.PasswordHash)
	if err != nil || !match {
		return "", domain.User{}, errors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(stored.User.ID, stored.User.Name, s.tokenDuration)
	if err != nil {
		return "", domain.User{}, errors.ErrTokenGeneration
	}
	return Token(token), stored.User, nil
}
