package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/padelpoint/padel-system/models"
	"github.com/padelpoint/padel-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*models.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return repositories.ErrUserEmailConflict
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	stored := *user
	f.byEmail[user.Email] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

const testSecret = "test-secret-key"

func TestAuthRegister(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Organizer@Club.Example  ",
		Password: "correct horse",
		Role:     models.RoleOrganizer,
	})
	require.NoError(t, err)
	assert.Equal(t, "organizer@club.example", user.Email)
	assert.Equal(t, models.RoleOrganizer, user.Role)
	assert.Empty(t, user.PasswordHash)
	assert.NotZero(t, user.ID)

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(user.ID), claims["user_id"])
	assert.Equal(t, "organizer", claims["role"])
}

func TestAuthRegisterDefaultsToPlayer(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testSecret, time.Hour)

	user, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "player@club.example",
		Password: "long enough",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RolePlayer, user.Role)
}

func TestAuthRegisterRejects(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testSecret, time.Hour)

	_, _, err := svc.Register(context.Background(), RegisterInput{Email: "not-an-email", Password: "long enough"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.Register(context.Background(), RegisterInput{Email: "a@b.example", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, _, err = svc.Register(context.Background(), RegisterInput{Email: "a@b.example", Password: "long enough", Role: "admin"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testSecret, time.Hour)

	_, _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.example", Password: "long enough"})
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), RegisterInput{Email: "A@B.example", Password: "long enough"})
	assert.ErrorIs(t, err, ErrUserEmailConflict)
}

func TestAuthLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	_, _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.example", Password: "long enough"})
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), LoginInput{Email: "a@b.example", Password: "long enough"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.example", user.Email)
	assert.Empty(t, user.PasswordHash)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(context.Background(), LoginInput{Email: "a@b.example", Password: "wrong password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), LoginInput{Email: "nobody@b.example", Password: "long enough"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
