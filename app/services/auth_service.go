package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/app/repositories"
	"github.com/shashiranjanraj/kasir/pkg/auth"
	"github.com/shashiranjanraj/kasir/pkg/collection"
	"github.com/shashiranjanraj/kasir/pkg/event"
	"github.com/shashiranjanraj/kasir/pkg/logger"
	"github.com/shashiranjanraj/kasir/pkg/storage"
	"github.com/shashiranjanraj/kasir/pkg/validate"
)

const avatarDir = "avatars"

// Profile is the public projection of an account.
type Profile struct {
	ID           uint   `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Phone        string `json:"phone,omitempty"`
	PhotoProfile string `json:"photoProfile"`
	Role         string `json:"role"`
}

// Session is a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Profile   Profile   `json:"profile"`
}

// LoginAttempt is the payload of the login events.
type LoginAttempt struct {
	Identity  string
	AccountID uint
}

// RegisterInput creates a new account.
type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName"  validate:"max=100"`
	Email     string `json:"email"     validate:"required,email,max=255"`
	Username  string `json:"username"  validate:"required,alpha_dash,min=3,max=100"`
	Phone     string `json:"phone"     validate:"nullable,max=30,regex=^[0-9+ -]+$"`
	Password  string `json:"password"  validate:"required,min=8,max_bytes=72"`
	Role      string `json:"role"      validate:"required,in=cashier admin"`
}

// AuthService authenticates accounts and manages their profiles.
type AuthService struct {
	store  repositories.Store
	tokens *auth.Tokens
	disk   storage.Disk
	events *event.Dispatcher
}

func NewAuthService(store repositories.Store, tokens *auth.Tokens, disk storage.Disk, events *event.Dispatcher) *AuthService {
	return &AuthService{store: store, tokens: tokens, disk: disk, events: events}
}

// Authenticate checks identity (email or username) and password and issues
// a one-hour session token. Every failure is ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, identity, password string) (Session, error) {
	identity = strings.TrimSpace(identity)

	account, err := s.store.Accounts().FindByIdentity(ctx, identity)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return Session{}, fmt.Errorf("authenticate: %w", err)
		}
		auth.BurnPasswordCheck(password)
		s.events.Fire(ctx, event.LoginFailed, LoginAttempt{Identity: identity})
		return Session{}, ErrInvalidCredentials
	}

	if !auth.CheckPassword(account.Password, password) {
		s.events.Fire(ctx, event.LoginFailed, LoginAttempt{Identity: identity, AccountID: account.ID})
		return Session{}, ErrInvalidCredentials
	}

	token, expires, err := s.tokens.Issue(account.ID, account.Role)
	if err != nil {
		return Session{}, fmt.Errorf("authenticate: %w", err)
	}

	s.events.Fire(ctx, event.LoginSucceeded, LoginAttempt{Identity: identity, AccountID: account.ID})
	return Session{Token: token, ExpiresAt: expires, Profile: s.profile(account)}, nil
}

// Register creates an account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (Profile, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return Profile{}, errs
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Profile{}, fmt.Errorf("register: %w", err)
	}

	account := models.Account{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     in.Email,
		Username:  in.Username,
		Phone:     strings.TrimSpace(in.Phone),
		Password:  hash,
		Role:      in.Role,
	}
	if err := s.store.Accounts().Create(ctx, &account); err != nil {
		return Profile{}, fmt.Errorf("register: %w", err)
	}

	logger.WithCtx(ctx).Info("account registered", "account_id", account.ID, "role", account.Role)
	return s.profile(account), nil
}

// ListAccounts returns every account's public profile.
func (s *AuthService) ListAccounts(ctx context.Context) ([]Profile, error) {
	accounts, err := s.store.Accounts().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return collection.Map(accounts, s.profile), nil
}

// FindByUsername returns one public profile.
func (s *AuthService) FindByUsername(ctx context.Context, username string) (Profile, error) {
	account, err := s.store.Accounts().FindByUsername(ctx, username)
	if err != nil {
		return Profile{}, fmt.Errorf("find profile: %w", err)
	}
	return s.profile(account), nil
}

// UpdatePhoto stores upload as the account's new profile photo.
//
// The image is written to the disk first. The record update and the
// removal of the previous image then run inside one database transaction
// holding the account row lock. If anything fails the transaction rolls
// back, the new image is removed and a previous image that was already
// deleted is written back, leaving the account exactly as it was.
func (s *AuthService) UpdatePhoto(ctx context.Context, accountID uint, upload storage.Upload) (Profile, error) {
	path := storage.NewName(avatarDir, upload.Filename)
	if err := s.disk.Put(ctx, path, upload.Body, upload.ContentType); err != nil {
		return Profile{}, fmt.Errorf("update photo: %w", err)
	}

	var (
		account models.Account
		backup  []byte
		removed bool
	)
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		var err error
		account, err = tx.Accounts().Lock(ctx, accountID)
		if err != nil {
			return err
		}
		if err := tx.Accounts().UpdatePhoto(ctx, accountID, path); err != nil {
			return err
		}
		if account.Photo != "" {
			backup, err = s.disk.Get(ctx, account.Photo)
			if err != nil && !errors.Is(err, storage.ErrNotExist) {
				return fmt.Errorf("read previous photo: %w", err)
			}
			saved := err == nil
			if err := s.disk.Delete(ctx, account.Photo); err != nil {
				return fmt.Errorf("remove previous photo: %w", err)
			}
			removed = saved
		}
		return nil
	})
	if err != nil {
		s.undoPhoto(ctx, path, account.Photo, backup, removed)
		return Profile{}, fmt.Errorf("update photo: %w", err)
	}

	account.Photo = path
	return s.profile(account), nil
}

// undoPhoto removes a rejected upload and writes back the previous image
// when it had already been deleted.
func (s *AuthService) undoPhoto(ctx context.Context, path, previous string, backup []byte, removed bool) {
	ctx = context.WithoutCancel(ctx)
	log := logger.WithCtx(ctx)

	if err := s.disk.Delete(ctx, path); err != nil {
		log.Error("update photo: orphaned upload", "path", path, "error", err)
	}
	if !removed {
		return
	}
	contentType := mime.TypeByExtension(filepath.Ext(previous))
	if err := s.disk.Put(ctx, previous, bytes.NewReader(backup), contentType); err != nil {
		log.Error("update photo: previous image lost", "path", previous, "error", err)
	}
}

func (s *AuthService) profile(a models.Account) Profile {
	p := Profile{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Username:  a.Username,
		Phone:     a.Phone,
		Role:      a.Role,
	}
	if a.Photo != "" {
		p.PhotoProfile = s.disk.URL(a.Photo)
	}
	return p
}
