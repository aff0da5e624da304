package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sweetlab/sweet_shop/internal/models"
	"github.com/sweetlab/sweet_shop/internal/transport"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Sweet{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return &GormRepo{DB: db}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	first := &models.User{Name: "John", Email: "john@example.com", PasswordHash: "hash"}
	require.NoError(t, r.CreateUser(ctx, first))

	// a second writer that slipped past the existence check
	second := &models.User{Name: "Johnny", Email: "john@example.com", PasswordHash: "hash"}
	err := r.CreateUser(ctx, second)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSweets_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)

	sweets, err := r.Sweets(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, sweets)
	assert.Len(t, sweets, 0)
}

func TestSearchSweets_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateSweet(ctx, &models.Sweet{Name: "Laddu", Category: "Traditional", Price: 5}))

	sweets, err := r.SearchSweets(ctx, transport.SweetFilter{Category: "Cakes"})
	require.NoError(t, err)
	assert.NotNil(t, sweets)
	assert.Len(t, sweets, 0)
}
