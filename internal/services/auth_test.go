package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"weplan/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	byEmail   map[string]*domain.User
	nextID    int
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
		nextID:  1,
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct {
	saltErr error
}

func (f *fakePasswordHasher) GenerateSalt() (string, error) {
	if f.saltErr != nil {
		return "", f.saltErr
	}
	return "salt", nil
}

func (f *fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + salt + "-" + password, nil
}

func (f *fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+salt+"-"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID, nil
}

// fakeEmailService records sent emails instead of dispatching them.
type fakeEmailService struct {
	welcomes      []*domain.WelcomeMessageEmailData
	invitations   []*domain.WeddingInvitationEmailData
	welcomeErr    error
	invitationErr error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if f.welcomeErr != nil {
		return f.welcomeErr
	}
	f.welcomes = append(f.welcomes, data)
	return nil
}

func (f *fakeEmailService) SendWeddingInvitation(ctx context.Context, data *domain.WeddingInvitationEmailData) error {
	if f.invitationErr != nil {
		return f.invitationErr
	}
	f.invitations = append(f.invitations, data)
	return nil
}

func newAuthServiceForTest(ur *fakeUserRepo, es *fakeEmailService) domain.AuthService {
	return NewAuthService(ur, &fakePasswordHasher{}, &fakeTokenIssuer{}, time.Hour, es, discardLogger())
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ur := newFakeUserRepo()
		es := &fakeEmailService{}
		svc := newAuthServiceForTest(ur, es)
		user, err := svc.SignUp(ctx, "  Ana@Example.COM ", "supersecret", " Ana ", " Silva ")
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", user.Email)
		assert.Equal(t, "Ana", user.Name)
		assert.Equal(t, "Silva", user.LastName)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "hash-salt-supersecret", user.PasswordHash)
		require.Len(t, es.welcomes, 1)
		assert.Equal(t, "ana@example.com", es.welcomes[0].Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		ur := newFakeUserRepo()
		svc := newAuthServiceForTest(ur, &fakeEmailService{})
		_, err := svc.SignUp(ctx, "ana@example.com", "supersecret", "Ana", "Silva")
		require.NoError(t, err)
		_, err = svc.SignUp(ctx, "ana@example.com", "supersecret", "Ana", "Silva")
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := newAuthServiceForTest(newFakeUserRepo(), &fakeEmailService{})
		_, err := svc.SignUp(ctx, "nope", "supersecret", "Ana", "Silva")
		require.Error(t, err)
	})

	t.Run("short password", func(t *testing.T) {
		svc := newAuthServiceForTest(newFakeUserRepo(), &fakeEmailService{})
		_, err := svc.SignUp(ctx, "ana@example.com", "short", "Ana", "Silva")
		require.Error(t, err)
	})

	t.Run("welcome email failure is not fatal", func(t *testing.T) {
		ur := newFakeUserRepo()
		es := &fakeEmailService{welcomeErr: errors.New("ses down")}
		svc := newAuthServiceForTest(ur, es)
		user, err := svc.SignUp(ctx, "ana@example.com", "supersecret", "Ana", "Silva")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	ur := newFakeUserRepo()
	svc := newAuthServiceForTest(ur, &fakeEmailService{})
	user, err := svc.SignUp(ctx, "ana@example.com", "supersecret", "Ana", "Silva")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		token, got, err := svc.Login(ctx, "Ana@Example.com", "supersecret")
		require.NoError(t, err)
		assert.Equal(t, "token-"+user.ID, token)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ana@example.com", "wrong")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ghost@example.com", "supersecret")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestAuthService_GetByID(t *testing.T) {
	ctx := context.Background()
	ur := newFakeUserRepo()
	svc := newAuthServiceForTest(ur, &fakeEmailService{})
	user, err := svc.SignUp(ctx, "ana@example.com", "supersecret", "Ana", "Silva")
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.GetByID(ctx, "user-99")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
