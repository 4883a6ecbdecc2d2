package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/markdave123-py/Appcraft/internal/apperr"
	"github.com/markdave123-py/Appcraft/internal/core"
	"github.com/markdave123-py/Appcraft/internal/models"
)

const (
	tokenTTL          = 24 * time.Hour
	minPasswordLength = 6
)

var errBadCredentials = apperr.New(http.StatusUnauthorized, "invalid_credentials", fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized))

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

type AuthResult struct {
	Token string
	User  *models.User
}

type UserService struct {
	store  core.UserStore
	secret []byte
	now    func() time.Time
}

func NewUserService(store core.UserStore, jwtSecret string) *UserService {
	return &UserService{store: store, secret: []byte(jwtSecret), now: time.Now}
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, apperr.Invalid("email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Invalid("email", "email is not valid")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperr.Invalid("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.New(http.StatusConflict, "email_taken", err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login checks credentials and records where the login came from.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, apperr.Invalid("email", "email is required")
	}
	if in.Password == "" {
		return nil, apperr.Invalid("password", "password is required")
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, errBadCredentials
	}

	at := s.now().UTC()
	info := models.LoginInfo{IP: in.IP, UserAgent: in.UserAgent, At: at}
	if err := s.store.RecordLogin(ctx, user.ID, info); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	user.LastLoginAt = &at
	user.LastLoginIP = in.IP
	user.LastUserAgent = in.UserAgent

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, apperr.New(http.StatusUnauthorized, "unknown_user", apperr.ErrUnauthorized)
	}
	return user, nil
}

// IssueToken signs an HS256 token carrying the user id.
func (s *UserService) IssueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     s.now().Unix(),
		"exp":     s.now().Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
