package service

import (
	"errors"
	"log"
	"os"
	"time"

	"turnero/internal/apperr"
	"turnero/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// UserStore is the narrow slice of the user repository the auth service needs.
type UserStore interface {
	GetByEmail(email string) (*db.User, error)
	GetByID(id int) (*db.User, error)
	CreateUser(u *db.User) error
}

type AuthService interface {
	Register(name, email, password string) error
	Login(email, password string) (token string, user *db.User, err error)
	CurrentUser(id int) (*db.User, error)
}

type authService struct {
	repo UserStore
}

func NewAuthService(repo UserStore) AuthService {
	return &authService{repo: repo}
}

func (s *authService) Register(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return apperr.New(apperr.InvalidRequest, "name, email and password are required")
	}

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		log.Printf("Error checking existing user: %v", err)
		return err
	}
	if existing != nil {
		return apperr.New(apperr.AlreadyExists, "email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &db.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         db.RoleClient,
	}
	if err := s.repo.CreateUser(user); err != nil {
		log.Printf("Error registering user: %v", err)
		return err
	}
	return nil
}

func (s *authService) Login(email, password string) (string, *db.User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		log.Printf("Error loading user for login: %v", err)
		return "", nil, err
	}
	if user == nil {
		return "", nil, apperr.New(apperr.Unauthorized, "wrong email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperr.New(apperr.Unauthorized, "wrong email or password")
	}

	token, err := signToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) CurrentUser(id int) (*db.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	return user, nil
}

func signToken(userID int, role string) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
