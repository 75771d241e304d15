package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/patric-chuzhbe/studydesk/internal/db/storage"
	"github.com/patric-chuzhbe/studydesk/internal/models"
)

// Signup registers a new account. The password is stored as a bcrypt hash.
func (s *Service) Signup(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return ErrPasswordTooLong
	}
	if err != nil {
		return err
	}

	return update(ctx, s, usersDocument, []models.User{}, func(users *[]models.User) error {
		for _, u := range *users {
			if u.Username == username {
				return ErrUserExists
			}
		}
		*users = append(*users, models.User{Username: username, Password: string(hash)})
		return nil
	})
}

// Login checks the credentials. Accounts created before hashing was introduced
// keep a plaintext password, which is compared as is.
func (s *Service) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)

	users, err := storage.Load(ctx, s.db, usersDocument, []models.User{})
	if err != nil {
		return err
	}

	for _, u := range users {
		if u.Username != username {
			continue
		}
		if passwordMatches(u.Password, password) {
			return nil
		}
	}

	return ErrInvalidCredentials
}

func passwordMatches(stored, password string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}
