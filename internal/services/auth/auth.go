package auth

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	db        *sql.DB
	jwtSecret []byte
}

func NewService(db *sql.DB, jwtSecret string) *Service {
	return &Service{db: db, jwtSecret: []byte(jwtSecret)}
}

// Claims is the JWT payload carried by every authenticated request.
type Claims struct {
	UserID         string `json:"uid"`
	OrganizationID string `json:"org"`
	Role           string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate verifies email/password and returns the user.
func (s *Service) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	var hashedPassword string

	query := `
		SELECT id, organization_id, name, email, password, role, is_active, created_at, updated_at
		FROM users
		WHERE email = ? AND is_active = 1
	`

	err := s.db.QueryRow(query, email).Scan(
		&user.ID, &user.OrganizationID, &user.Name, &user.Email,
		&hashedPassword, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("account not found or disabled")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		return nil, fmt.Errorf("incorrect password")
	}

	return &user, nil
}

// IssueToken signs a 24h bearer token for the user.
func (s *Service) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Role:           user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a bearer token.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Register creates an organization plus its first super-admin user.
func (s *Service) Register(orgName, name, email, password string) (*models.User, error) {
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&count); err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	orgID := uuid.New().String()
	if _, err := s.db.Exec(
		"INSERT INTO organizations (id, name, base_currency, created_at, updated_at) VALUES (?, ?, 'NGN', ?, ?)",
		orgID, orgName, now, now,
	); err != nil {
		return nil, err
	}

	user := &models.User{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Name:           name,
		Email:          email,
		Role:           models.RoleSuperAdmin,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.db.Exec(
		"INSERT INTO users (id, organization_id, name, email, password, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)",
		user.ID, orgID, name, email, string(hashed), user.Role, now, now,
	); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser loads a user by id.
func (s *Service) GetUser(userID string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(`
		SELECT id, organization_id, name, email, role, is_active, created_at, updated_at
		FROM users WHERE id = ?
	`, userID).Scan(
		&user.ID, &user.OrganizationID, &user.Name, &user.Email,
		&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// ChangePassword verifies the old password and stores a new hash.
func (s *Service) ChangePassword(userID, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	var hashedPassword string
	if err := s.db.QueryRow("SELECT password FROM users WHERE id = ?", userID).Scan(&hashedPassword); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("user not found")
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(oldPassword)); err != nil {
		return fmt.Errorf("incorrect password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.db.Exec("UPDATE users SET password = ?, updated_at = ? WHERE id = ?",
		string(hashed), time.Now().UTC(), userID)
	return err
}
