package identity

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/qr"
)

var (
	// ErrDuplicateUsername is returned by CreateUser when the username
	// is already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrAuthFailure covers both unknown usernames and wrong
	// passwords. Callers get the same error either way so login
	// responses never reveal whether an account exists.
	ErrAuthFailure = errors.New("invalid username or password")

	// ErrOwnerExists is returned when single-owner policy is on and a
	// second owner account is requested.
	ErrOwnerExists = errors.New("an owner account already exists")

	// ErrUserNotFound is returned by DeleteUser and ChangePassword for
	// unknown user ids.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidRole is returned by CreateUser for roles other than
	// owner and staff.
	ErrInvalidRole = errors.New("role must be owner or staff")
)

// Store is the persistence the identity service needs. Lookups return
// (nil, nil) when no user matches.
type Store interface {
	UserByUsername(username string) (*dbpkg.User, error)
	UserByID(id uint) (*dbpkg.User, error)
	CreateUser(u *dbpkg.User) error
	UpdateUserPassword(id uint, passwordHash string) error
	CountByRole(role string) (int64, error)

	// DeleteUserCascade removes the user together with all of their
	// attendance records and messages, in one transaction.
	DeleteUserCascade(id uint) error
}

// Service implements account management: creation, authentication,
// password changes and cascading deletion. Passwords are stored as
// bcrypt hashes, which salt per password.
type Service struct {
	store       Store
	singleOwner bool
}

func New(store Store, singleOwner bool) *Service {
	return &Service{store: store, singleOwner: singleOwner}
}

// CreateUser registers a new account with the given role.
func (s *Service) CreateUser(username, password, role string) (*dbpkg.User, error) {
	if role != dbpkg.RoleOwner && role != dbpkg.RoleStaff {
		return nil, ErrInvalidRole
	}

	if role == dbpkg.RoleOwner && s.singleOwner {
		count, err := s.store.CountByRole(dbpkg.RoleOwner)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrOwnerExists
		}
	}

	existing, err := s.store.UserByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &dbpkg.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// AuthenticateQR signs a user in by their attendance QR token instead
// of a password: whoever holds the card is let in as its subject.
// Malformed payloads surface as qr.ErrInvalidToken; tokens pointing at
// a deleted user get the same ErrAuthFailure as a wrong password.
func (s *Service) AuthenticateQR(rawToken string) (*dbpkg.User, error) {
	userID, err := qr.ParseToken(rawToken)
	if err != nil {
		return nil, err
	}

	user, err := s.store.UserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAuthFailure
	}
	return user, nil
}

// Authenticate checks credentials and returns the matching user.
func (s *Service) Authenticate(username, password string) (*dbpkg.User, error) {
	user, err := s.store.UserByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAuthFailure
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrAuthFailure
	}
	return user, nil
}

// ChangePassword verifies the current password before rehashing.
func (s *Service) ChangePassword(id uint, current, newPassword string) error {
	user, err := s.store.UserByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrAuthFailure
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.UpdateUserPassword(id, string(hash))
}

// DeleteUser removes the account and everything keyed to it.
func (s *Service) DeleteUser(id uint) error {
	user, err := s.store.UserByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.store.DeleteUserCascade(id)
}
