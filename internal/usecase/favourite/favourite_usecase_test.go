package favourite

import (
	"context"
	"errors"
	"testing"

	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *memory.Store
	uc    *FavouriteUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		store: store,
		uc:    NewFavouriteUseCase(store.Favourites(), store.Users(), 20),
	}
}

func (f *fixture) user(t *testing.T, name string) int {
	t.Helper()
	u := &domain.User{Username: name, Name: name, Email: name + "@example.com"}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u.ID
}

func (f *fixture) favourite(t *testing.T, from, to int) {
	t.Helper()
	_, err := f.uc.Add(context.Background(), from, to)
	require.NoError(t, err)
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	fav, err := f.uc.Add(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, alice, fav.UserID)
	assert.Equal(t, bob, fav.FavUserID)

	t.Run("duplicate edge conflicts", func(t *testing.T) {
		_, err := f.uc.Add(ctx, alice, bob)
		assert.True(t, errors.Is(err, domain.ErrFavouriteExists))
	})

	t.Run("self favourite is forbidden", func(t *testing.T) {
		_, err := f.uc.Add(ctx, alice, alice)
		assert.True(t, errors.Is(err, domain.ErrSelfFavourite))
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := f.uc.Add(ctx, alice, 9999)
		assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	f.favourite(t, alice, bob)

	require.NoError(t, f.uc.Remove(ctx, alice, bob))

	err := f.uc.Remove(ctx, alice, bob)
	assert.True(t, errors.Is(err, domain.ErrFavouriteNotFound))

	_, err = f.uc.Add(ctx, alice, bob)
	assert.NoError(t, err, "a removed edge can be added again")
}

func TestFavouritesOf(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	zed := f.user(t, "zed")
	bob := f.user(t, "Bob")
	f.favourite(t, alice, zed)
	f.favourite(t, alice, bob)

	t.Run("storage order without sort", func(t *testing.T) {
		users, err := f.uc.FavouritesOf(ctx, alice, "", "")
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, zed, users[0].ID)
		assert.Equal(t, bob, users[1].ID)
	})

	t.Run("sorted by name", func(t *testing.T) {
		users, err := f.uc.FavouritesOf(ctx, alice, "name", "asc")
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, bob, users[0].ID)
	})

	t.Run("invalid field", func(t *testing.T) {
		_, err := f.uc.FavouritesOf(ctx, alice, "email", "")
		assert.True(t, errors.Is(err, domain.ErrInvalidSortField))
	})

	t.Run("user with no favourites", func(t *testing.T) {
		users, err := f.uc.FavouritesOf(ctx, bob, "", "")
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestTopFavourited(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u := make([]int, 6)
	for i, name := range []string{"ann", "ben", "cat", "dan", "eve", "fay"} {
		u[i] = f.user(t, name)
	}
	// counts: ann 4, ben 3, cat 2, dan 1, eve 1, fay 0
	for _, from := range u[1:5] {
		f.favourite(t, from, u[0])
	}
	for _, from := range []int{u[0], u[2], u[3]} {
		f.favourite(t, from, u[1])
	}
	f.favourite(t, u[0], u[2])
	f.favourite(t, u[1], u[2])
	f.favourite(t, u[0], u[3])
	f.favourite(t, u[0], u[4])

	t.Run("top three by count", func(t *testing.T) {
		users, err := f.uc.TopFavourited(ctx, 3, "", "")
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, []int{u[0], u[1], u[2]}, ids(users))
		assert.Equal(t, []int{4, 3, 2}, []int{users[0].FavoriteCount, users[1].FavoriteCount, users[2].FavoriteCount})
	})

	t.Run("sorted before truncation", func(t *testing.T) {
		users, err := f.uc.TopFavourited(ctx, 2, "name", "desc")
		require.NoError(t, err)
		assert.Equal(t, []int{u[4], u[3]}, ids(users))
	})

	t.Run("n larger than population", func(t *testing.T) {
		users, err := f.uc.TopFavourited(ctx, 50, "", "")
		require.NoError(t, err)
		assert.Len(t, users, 5, "users without favourites are excluded")
	})

	t.Run("non-positive n", func(t *testing.T) {
		_, err := f.uc.TopFavourited(ctx, 0, "", "")
		assert.True(t, errors.Is(err, domain.ErrInvalidN))
	})

	t.Run("invalid order", func(t *testing.T) {
		_, err := f.uc.TopFavourited(ctx, 3, "name", "random")
		assert.True(t, errors.Is(err, domain.ErrInvalidSortOrder))
	})

	t.Run("most favourited uses default size", func(t *testing.T) {
		users, err := f.uc.MostFavourited(ctx, "favorite_count", "asc")
		require.NoError(t, err)
		require.Len(t, users, 5)
		assert.Equal(t, 1, users[0].FavoriteCount)
	})
}
