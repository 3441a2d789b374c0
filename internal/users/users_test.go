package users_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"replayed/internal/testsupport"
	"replayed/internal/users"
)

func TestCreateUser(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	require.NoError(t, users.CreateUser(db, "owner@example.com", "secret123"))

	user, err := users.FindByEmail(db, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", user.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(user.EncryptedPassword), []byte("secret123")))

	// Creating the same email again fails.
	err = users.CreateUser(db, "owner@example.com", "other")
	assert.ErrorIs(t, err, users.ErrUserExists)
}

func TestCreateUserValidation(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	assert.Error(t, users.CreateUser(db, "", "secret123"))
	assert.Error(t, users.CreateUser(db, "owner@example.com", ""))
}

func TestChangePassword(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	require.NoError(t, users.CreateUser(db, "owner@example.com", "oldpass"))

	require.NoError(t, users.ChangePassword(db, "owner@example.com", "newpass"))

	user, err := users.FindByEmail(db, "owner@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(user.EncryptedPassword), []byte("newpass")))
}

func TestFindByID(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	created := testsupport.CreateTestUser(db, "owner@example.com", "hash")

	user, err := users.FindByID(db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, user.Email)

	_, err = users.FindByID(db, 9999)
	assert.ErrorIs(t, err, users.ErrUserNotFound)
}
