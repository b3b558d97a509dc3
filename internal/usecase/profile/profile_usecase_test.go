package profile

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/jamdate/jamdate-backend/internal/config"
	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/repository"
	"github.com/jamdate/jamdate-backend/internal/repository/memory"
	"github.com/jamdate/jamdate-backend/internal/usecase/photo"
	"github.com/jamdate/jamdate-backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string   { return &s }
func intPtr(i int) *int         { return &i }
func f64Ptr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool      { return &b }

type memoryPhotos struct{}

func (memoryPhotos) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	return "/uploads/" + name, nil
}

type fixture struct {
	store *memory.Store
	uc    *ProfileUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.Tick()
	uc := NewProfileUseCase(
		store.Profiles(),
		store.Users(),
		store,
		photo.NewUploader(memoryPhotos{}),
		validation.New(),
		config.ListingConfig{ProfilesDefaultLimit: 4, ProfilesMaxLimit: 50},
	)
	return &fixture{store: store, uc: uc}
}

func (f *fixture) user(t *testing.T, name string) int {
	t.Helper()
	u := &domain.User{Username: name, Name: name, Email: name + "@example.com"}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u.ID
}

func completeFields() *ProfileFields {
	return &ProfileFields{
		Description:      strPtr("Loves the beach"),
		Parish:           strPtr("Kingston"),
		Biography:        strPtr("Born and raised in Kingston"),
		Sex:              strPtr("F"),
		Race:             strPtr("Black"),
		BirthYear:        intPtr(1995),
		Height:           f64Ptr(165),
		FavCuisine:       strPtr("Jamaican"),
		FavColour:        strPtr("Green"),
		FavSchoolSubject: strPtr("History"),
		Political:        boolPtr(false),
		Religious:        boolPtr(true),
		FamilyOriented:   boolPtr(true),
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")

	t.Run("complete profile", func(t *testing.T) {
		p, err := f.uc.Create(ctx, alice, completeFields())
		require.NoError(t, err)
		assert.True(t, p.IsComplete)
		assert.Equal(t, "alice", p.Name)
		assert.Equal(t, alice, p.UserID)
	})

	t.Run("missing fields leave it incomplete", func(t *testing.T) {
		fields := completeFields()
		fields.Political = nil
		p, err := f.uc.Create(ctx, alice, fields)
		require.NoError(t, err)
		assert.False(t, p.IsComplete)
	})

	t.Run("blank strings count as missing", func(t *testing.T) {
		fields := completeFields()
		fields.Parish = strPtr("   ")
		p, err := f.uc.Create(ctx, alice, fields)
		require.NoError(t, err)
		assert.False(t, p.IsComplete)
		assert.Equal(t, "", *p.Parish)
	})

	t.Run("fourth profile is rejected", func(t *testing.T) {
		_, err := f.uc.Create(ctx, alice, completeFields())
		assert.True(t, errors.Is(err, domain.ErrProfileLimitReached))

		count, err := f.store.Profiles().CountByUserID(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, domain.MaxProfilesPerUser, count)
	})

	t.Run("shape validation", func(t *testing.T) {
		bob := f.user(t, "bob")
		fields := completeFields()
		fields.Height = f64Ptr(-3)
		fields.Sex = strPtr(strings.Repeat("x", 21))
		_, err := f.uc.Create(ctx, bob, fields)
		require.True(t, errors.Is(err, domain.ErrValidation))

		var de *domain.Error
		require.True(t, errors.As(err, &de))
		assert.Contains(t, de.Fields, "height")
		assert.Contains(t, de.Fields, "sex")
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.uc.Create(ctx, 9999, completeFields())
		assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	created, err := f.uc.Create(ctx, alice, completeFields())
	require.NoError(t, err)
	require.True(t, created.IsComplete)

	t.Run("explicit null clears and flips completeness", func(t *testing.T) {
		req := &UpdateProfileRequest{Biography: Field[string]{Set: true}}
		p, err := f.uc.Update(ctx, alice, created.ID, req)
		require.NoError(t, err)
		assert.Nil(t, p.Biography)
		assert.False(t, p.IsComplete)

		gated, err := f.store.Profiles().HasCompleteProfile(ctx, alice)
		require.NoError(t, err)
		assert.False(t, gated)
	})

	t.Run("setting the field restores completeness", func(t *testing.T) {
		req := &UpdateProfileRequest{Biography: Field[string]{Set: true, Value: strPtr("Back again")}}
		p, err := f.uc.Update(ctx, alice, created.ID, req)
		require.NoError(t, err)
		assert.True(t, p.IsComplete)
		assert.Equal(t, "Kingston", *p.Parish, "absent keys are untouched")
	})

	t.Run("not owner", func(t *testing.T) {
		_, err := f.uc.Update(ctx, bob, created.ID, &UpdateProfileRequest{})
		assert.True(t, errors.Is(err, domain.ErrNotOwner))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := f.uc.Update(ctx, alice, 9999, &UpdateProfileRequest{})
		assert.True(t, errors.Is(err, domain.ErrProfileNotFound))
	})

	t.Run("invalid value", func(t *testing.T) {
		req := &UpdateProfileRequest{BirthYear: Field[int]{Set: true, Value: intPtr(1800)}}
		_, err := f.uc.Update(ctx, alice, created.ID, req)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var ids []int
	for _, name := range []string{"a1", "a2", "a3"} {
		u := f.user(t, name)
		for i := 0; i < 2; i++ {
			p, err := f.uc.Create(ctx, u, completeFields())
			require.NoError(t, err)
			ids = append(ids, p.ID)
		}
	}

	t.Run("default limit newest first", func(t *testing.T) {
		profiles, err := f.uc.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, profiles, 4)
		assert.Equal(t, ids[5], profiles[0].ID)
		assert.Equal(t, ids[2], profiles[3].ID)
	})

	t.Run("explicit limit", func(t *testing.T) {
		profiles, err := f.uc.List(ctx, intPtr(2))
		require.NoError(t, err)
		assert.Len(t, profiles, 2)
	})

	t.Run("limit above total", func(t *testing.T) {
		profiles, err := f.uc.List(ctx, intPtr(500))
		require.NoError(t, err)
		assert.Len(t, profiles, 6)
	})

	t.Run("non-positive limit", func(t *testing.T) {
		_, err := f.uc.List(ctx, intPtr(0))
		assert.True(t, errors.Is(err, domain.ErrInvalidLimit))
	})
}

func TestUploadPhoto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	created, err := f.uc.Create(ctx, alice, completeFields())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4))))

	p, err := f.uc.UploadPhoto(ctx, alice, created.ID, "me.png", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.NotNil(t, p.Photo)
	assert.True(t, strings.HasPrefix(*p.Photo, "/uploads/"))
	assert.True(t, p.IsComplete)

	_, err = f.uc.UploadPhoto(ctx, bob, created.ID, "me.png", bytes.NewReader(buf.Bytes()))
	assert.True(t, errors.Is(err, domain.ErrNotOwner))

	_, err = f.uc.UploadPhoto(ctx, alice, created.ID, "me.txt", bytes.NewReader(buf.Bytes()))
	assert.True(t, errors.Is(err, domain.ErrInvalidPhotoType))
}

func pngPhoto(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

// lockTracking records whether the row written by Update was read with a
// lock inside the same transaction.
type lockTracking struct {
	repository.ProfileRepository
	mu       sync.Mutex
	locked   map[int]bool
	unlocked []int
}

func (r *lockTracking) GetByIDForUpdate(ctx context.Context, id int) (*domain.Profile, error) {
	r.mu.Lock()
	r.locked[id] = true
	r.mu.Unlock()
	return r.ProfileRepository.GetByIDForUpdate(ctx, id)
}

func (r *lockTracking) Update(ctx context.Context, p *domain.Profile) error {
	r.mu.Lock()
	if !r.locked[p.ID] {
		r.unlocked = append(r.unlocked, p.ID)
	}
	delete(r.locked, p.ID)
	r.mu.Unlock()
	return r.ProfileRepository.Update(ctx, p)
}

func TestWritesReadTheRowUnderLock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	created, err := f.uc.Create(ctx, alice, completeFields())
	require.NoError(t, err)

	tracking := &lockTracking{ProfileRepository: f.store.Profiles(), locked: map[int]bool{}}
	uc := NewProfileUseCase(tracking, f.store.Users(), f.store, photo.NewUploader(memoryPhotos{}), validation.New(), config.ListingConfig{})

	_, err = uc.Update(ctx, alice, created.ID, &UpdateProfileRequest{Parish: Field[string]{Set: true, Value: strPtr("Portland")}})
	require.NoError(t, err)

	_, err = uc.UploadPhoto(ctx, alice, created.ID, "me.png", bytes.NewReader(pngPhoto(t)))
	require.NoError(t, err)

	assert.Empty(t, tracking.unlocked)
}

func TestConcurrentWritesKeepEachOthersFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	created, err := f.uc.Create(ctx, alice, completeFields())
	require.NoError(t, err)

	photoData := pngPhoto(t)
	writes := []func() error{
		func() error {
			_, err := f.uc.Update(ctx, alice, created.ID, &UpdateProfileRequest{Parish: Field[string]{Set: true, Value: strPtr("Portland")}})
			return err
		},
		func() error {
			_, err := f.uc.Update(ctx, alice, created.ID, &UpdateProfileRequest{Biography: Field[string]{Set: true}})
			return err
		},
		func() error {
			_, err := f.uc.Update(ctx, alice, created.ID, &UpdateProfileRequest{FavColour: Field[string]{Set: true, Value: strPtr("Gold")}})
			return err
		},
		func() error {
			_, err := f.uc.UploadPhoto(ctx, alice, created.ID, "me.png", bytes.NewReader(photoData))
			return err
		},
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(writes))
	for _, write := range writes {
		write := write
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- write()
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	p, err := f.uc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Portland", *p.Parish)
	assert.Nil(t, p.Biography)
	assert.Equal(t, "Gold", *p.FavColour)
	assert.NotNil(t, p.Photo)
	assert.False(t, p.IsComplete)
}

func TestConcurrentCreatesRespectCap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")

	const attempts = 10
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Create(ctx, alice, completeFields())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	created, rejected := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrProfileLimitReached):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, domain.MaxProfilesPerUser, created)
	assert.Equal(t, attempts-domain.MaxProfilesPerUser, rejected)

	count, err := f.store.Profiles().CountByUserID(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxProfilesPerUser, count)
}
