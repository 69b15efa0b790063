package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deskpulse/deskpulse/internal/domain/user"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
)

// memoryUserRepository assigns incrementing IDs on Create.
type memoryUserRepository struct {
	users      map[uint]*user.User
	nextID     uint
	CreateFunc func(ctx context.Context, u *user.User) error
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: map[uint]*user.User{}, nextID: 1}
}

func (m *memoryUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, u); err != nil {
			return err
		}
	}
	if err := u.SetID(m.nextID); err != nil {
		return err
	}
	m.users[m.nextID] = u
	m.nextID++
	return nil
}

func (m *memoryUserRepository) Update(ctx context.Context, u *user.User) error {
	m.users[u.ID()] = u
	return nil
}

func (m *memoryUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	return m.users[id], nil
}

func (m *memoryUserRepository) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	var out []*user.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email().String() == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memoryUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, _ := m.GetByEmail(ctx, email)
	return u != nil, nil
}

// plainHasher prefixes the password so tests can tell hashes from plaintext.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Verify(password, hash string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type mockTokenIssuer struct {
	issued []uint
}

func (m *mockTokenIssuer) Issue(userID uint, role authorization.UserRole) (*IssuedToken, error) {
	m.issued = append(m.issued, userID)
	return &IssuedToken{
		Token:     fmt.Sprintf("token-%d", userID),
		TokenID:   "jti",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

type mockTokenRevoker struct {
	RevokeFunc func(ctx context.Context, tokenID string, expiresAt time.Time) error
	revoked    []string
}

func (m *mockTokenRevoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, tokenID, expiresAt)
	}
	m.revoked = append(m.revoked, tokenID)
	return nil
}
