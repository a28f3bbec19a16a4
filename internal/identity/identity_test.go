package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/qr"
)

// memStore tracks users plus the per-user rows a cascade delete must
// remove.
type memStore struct {
	nextID      uint
	users       map[uint]*dbpkg.User
	attendance  map[uint]int // userID -> record count
	messages    map[uint]int // userID -> message count
	cascadedIDs []uint
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[uint]*dbpkg.User{},
		attendance: map[uint]int{},
		messages:   map[uint]int{},
	}
}

func (s *memStore) UserByUsername(username string) (*dbpkg.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memStore) UserByID(id uint) (*dbpkg.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (s *memStore) CreateUser(u *dbpkg.User) error {
	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = u
	return nil
}

func (s *memStore) UpdateUserPassword(id uint, passwordHash string) error {
	s.users[id].PasswordHash = passwordHash
	return nil
}

func (s *memStore) CountByRole(role string) (int64, error) {
	var n int64
	for _, u := range s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (s *memStore) DeleteUserCascade(id uint) error {
	delete(s.users, id)
	delete(s.attendance, id)
	delete(s.messages, id)
	s.cascadedIDs = append(s.cascadedIDs, id)
	return nil
}

func TestCreateAndAuthenticate(t *testing.T) {
	svc := New(newMemStore(), true)

	user, err := svc.CreateUser("alice", "s3cret", dbpkg.RoleStaff)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", user.PasswordHash, "password is never stored in plaintext")

	got, err := svc.Authenticate("alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestAuthenticateFailureIsUniform(t *testing.T) {
	svc := New(newMemStore(), true)
	_, err := svc.CreateUser("alice", "s3cret", dbpkg.RoleStaff)
	require.NoError(t, err)

	_, unknownErr := svc.Authenticate("nobody", "s3cret")
	_, wrongPwErr := svc.Authenticate("alice", "wrong")

	assert.ErrorIs(t, unknownErr, ErrAuthFailure)
	assert.ErrorIs(t, wrongPwErr, ErrAuthFailure)
	// Same error either way, so responses cannot reveal whether an
	// account exists.
	assert.Equal(t, unknownErr, wrongPwErr)
}

func TestDuplicateUsername(t *testing.T) {
	svc := New(newMemStore(), true)
	_, err := svc.CreateUser("alice", "pw1", dbpkg.RoleStaff)
	require.NoError(t, err)

	_, err = svc.CreateUser("alice", "pw2", dbpkg.RoleStaff)
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestSingleOwnerPolicy(t *testing.T) {
	store := newMemStore()
	svc := New(store, true)

	_, err := svc.CreateUser("boss", "pw", dbpkg.RoleOwner)
	require.NoError(t, err)

	_, err = svc.CreateUser("boss2", "pw", dbpkg.RoleOwner)
	assert.ErrorIs(t, err, ErrOwnerExists)

	// With the policy off, co-owners are allowed.
	multi := New(store, false)
	_, err = multi.CreateUser("boss2", "pw", dbpkg.RoleOwner)
	assert.NoError(t, err)
}

func TestInvalidRole(t *testing.T) {
	svc := New(newMemStore(), true)
	_, err := svc.CreateUser("alice", "pw", "superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAuthenticateQR(t *testing.T) {
	svc := New(newMemStore(), true)
	user, err := svc.CreateUser("alice", "pw", dbpkg.RoleStaff)
	require.NoError(t, err)

	got, err := svc.AuthenticateQR(qr.EncodeToken(user.ID))
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.AuthenticateQR("garbage")
	assert.ErrorIs(t, err, qr.ErrInvalidToken)

	// A token for a deleted user fails like a wrong password.
	_, err = svc.AuthenticateQR(qr.EncodeToken(99))
	assert.ErrorIs(t, err, ErrAuthFailure)
}

func TestDeleteUserCascades(t *testing.T) {
	store := newMemStore()
	svc := New(store, true)

	user, err := svc.CreateUser("alice", "pw", dbpkg.RoleStaff)
	require.NoError(t, err)
	store.attendance[user.ID] = 3
	store.messages[user.ID] = 2

	require.NoError(t, svc.DeleteUser(user.ID))
	assert.Equal(t, []uint{user.ID}, store.cascadedIDs)
	assert.NotContains(t, store.users, user.ID)
	assert.NotContains(t, store.attendance, user.ID)
	assert.NotContains(t, store.messages, user.ID)

	assert.ErrorIs(t, svc.DeleteUser(user.ID), ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	svc := New(newMemStore(), true)
	user, err := svc.CreateUser("alice", "old-pw", dbpkg.RoleStaff)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(user.ID, "wrong", "new-pw"), ErrAuthFailure)

	require.NoError(t, svc.ChangePassword(user.ID, "old-pw", "new-pw"))

	_, err = svc.Authenticate("alice", "old-pw")
	assert.ErrorIs(t, err, ErrAuthFailure)
	_, err = svc.Authenticate("alice", "new-pw")
	assert.NoError(t, err)
}
