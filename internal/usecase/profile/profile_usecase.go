package profile

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jamdate/jamdate-backend/internal/config"
	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/repository"
	"github.com/jamdate/jamdate-backend/internal/usecase/photo"
	"github.com/jamdate/jamdate-backend/internal/validation"
)

// ProfileFields carries the user-editable attributes of a profile. Every
// field is optional; missing ones leave the profile incomplete.
type ProfileFields struct {
	Description      *string  `json:"description" binding:"omitempty,max=500"`
	Parish           *string  `json:"parish" binding:"omitempty,max=100"`
	Biography        *string  `json:"biography" binding:"omitempty,max=5000"`
	Sex              *string  `json:"sex" binding:"omitempty,max=20"`
	Race             *string  `json:"race" binding:"omitempty,max=50"`
	BirthYear        *int     `json:"birth_year" binding:"omitempty,min=1900,max=2100"`
	Height           *float64 `json:"height" binding:"omitempty,gt=0,max=300"`
	FavCuisine       *string  `json:"fav_cuisine" binding:"omitempty,max=100"`
	FavColour        *string  `json:"fav_colour" binding:"omitempty,max=50"`
	FavSchoolSubject *string  `json:"fav_school_subject" binding:"omitempty,max=100"`
	Political        *bool    `json:"political"`
	Religious        *bool    `json:"religious"`
	FamilyOriented   *bool    `json:"family_oriented"`
}

// UpdateProfileRequest is a partial update. Absent keys are left alone and
// explicit nulls clear the attribute.
type UpdateProfileRequest struct {
	Description      Field[string]  `json:"description"`
	Parish           Field[string]  `json:"parish"`
	Biography        Field[string]  `json:"biography"`
	Sex              Field[string]  `json:"sex"`
	Race             Field[string]  `json:"race"`
	BirthYear        Field[int]     `json:"birth_year"`
	Height           Field[float64] `json:"height"`
	FavCuisine       Field[string]  `json:"fav_cuisine"`
	FavColour        Field[string]  `json:"fav_colour"`
	FavSchoolSubject Field[string]  `json:"fav_school_subject"`
	Political        Field[bool]    `json:"political"`
	Religious        Field[bool]    `json:"religious"`
	FamilyOriented   Field[bool]    `json:"family_oriented"`
}

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
	tx          repository.Transactor
	uploader    *photo.Uploader
	validate    *validator.Validate
	listing     config.ListingConfig
}

func NewProfileUseCase(
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	tx repository.Transactor,
	uploader *photo.Uploader,
	validate *validator.Validate,
	listing config.ListingConfig,
) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		tx:          tx,
		uploader:    uploader,
		validate:    validate,
		listing:     listing,
	}
}

// Create adds a profile for userID. The owner row is locked for the length
// of the transaction so concurrent creates cannot exceed the per-user cap.
func (uc *ProfileUseCase) Create(ctx context.Context, userID int, req *ProfileFields) (*domain.ProfileWithName, error) {
	if err := validation.Struct(uc.validate, req); err != nil {
		return nil, err
	}

	profile := &domain.Profile{UserID: userID}
	req.applyTo(profile)
	profile.CheckCompleteness()

	var created *domain.ProfileWithName
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.LockByID(ctx, userID); err != nil {
			return err
		}

		count, err := uc.profileRepo.CountByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to count profiles: %w", err)
		}
		if count >= domain.MaxProfilesPerUser {
			return domain.ErrProfileLimitReached
		}

		if err := uc.profileRepo.Create(ctx, profile); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}

		created, err = uc.profileRepo.GetWithName(ctx, profile.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies req to a profile owned by userID and recomputes completeness.
// The profile row stays locked from the read to the write.
func (uc *ProfileUseCase) Update(ctx context.Context, userID, profileID int, req *UpdateProfileRequest) (*domain.ProfileWithName, error) {
	var updated *domain.ProfileWithName
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		profile, err := uc.lockOwnedProfile(ctx, userID, profileID)
		if err != nil {
			return err
		}

		req.applyTo(profile)
		if err := validation.Struct(uc.validate, fieldsOf(profile)); err != nil {
			return err
		}
		profile.CheckCompleteness()

		if err := uc.profileRepo.Update(ctx, profile); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}

		updated, err = uc.profileRepo.GetWithName(ctx, profile.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *ProfileUseCase) Get(ctx context.Context, profileID int) (*domain.ProfileWithName, error) {
	return uc.profileRepo.GetWithName(ctx, profileID)
}

// List returns the newest profiles. A nil limit selects the configured
// default and limits above the configured maximum are clamped.
func (uc *ProfileUseCase) List(ctx context.Context, limit *int) ([]*domain.ProfileWithName, error) {
	n := uc.listing.ProfilesDefaultLimit
	if limit != nil {
		n = *limit
	}
	if n <= 0 {
		return nil, domain.ErrInvalidLimit
	}
	if maxLimit := uc.listing.ProfilesMaxLimit; maxLimit > 0 && n > maxLimit {
		n = maxLimit
	}
	return uc.profileRepo.ListLatest(ctx, n)
}

// UploadPhoto stores a photo and attaches it to a profile owned by userID.
// The file is stored before the transaction opens; the row is then re-read
// under lock so concurrent updates to other fields are kept.
func (uc *ProfileUseCase) UploadPhoto(ctx context.Context, userID, profileID int, filename string, r io.Reader) (*domain.ProfileWithName, error) {
	profile, err := uc.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if !profile.IsOwnedBy(userID) {
		return nil, domain.ErrNotOwner
	}

	url, err := uc.uploader.Upload(ctx, filename, r)
	if err != nil {
		return nil, err
	}

	var updated *domain.ProfileWithName
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		profile, err := uc.lockOwnedProfile(ctx, userID, profileID)
		if err != nil {
			return err
		}

		profile.Photo = &url
		profile.CheckCompleteness()
		if err := uc.profileRepo.Update(ctx, profile); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}

		updated, err = uc.profileRepo.GetWithName(ctx, profile.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// lockOwnedProfile must run inside a transaction.
func (uc *ProfileUseCase) lockOwnedProfile(ctx context.Context, userID, profileID int) (*domain.Profile, error) {
	profile, err := uc.profileRepo.GetByIDForUpdate(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if !profile.IsOwnedBy(userID) {
		return nil, domain.ErrNotOwner
	}
	return profile, nil
}

func (f *ProfileFields) applyTo(p *domain.Profile) {
	p.Description = trimmed(f.Description)
	p.Parish = trimmed(f.Parish)
	p.Biography = trimmed(f.Biography)
	p.Sex = trimmed(f.Sex)
	p.Race = trimmed(f.Race)
	p.BirthYear = f.BirthYear
	p.Height = f.Height
	p.FavCuisine = trimmed(f.FavCuisine)
	p.FavColour = trimmed(f.FavColour)
	p.FavSchoolSubject = trimmed(f.FavSchoolSubject)
	p.Political = f.Political
	p.Religious = f.Religious
	p.FamilyOriented = f.FamilyOriented
}

func (r *UpdateProfileRequest) applyTo(p *domain.Profile) {
	r.Description.apply(&p.Description)
	r.Parish.apply(&p.Parish)
	r.Biography.apply(&p.Biography)
	r.Sex.apply(&p.Sex)
	r.Race.apply(&p.Race)
	r.BirthYear.apply(&p.BirthYear)
	r.Height.apply(&p.Height)
	r.FavCuisine.apply(&p.FavCuisine)
	r.FavColour.apply(&p.FavColour)
	r.FavSchoolSubject.apply(&p.FavSchoolSubject)
	r.Political.apply(&p.Political)
	r.Religious.apply(&p.Religious)
	r.FamilyOriented.apply(&p.FamilyOriented)

	for _, s := range []**string{&p.Description, &p.Parish, &p.Biography, &p.Sex, &p.Race, &p.FavCuisine, &p.FavColour, &p.FavSchoolSubject} {
		*s = trimmed(*s)
	}
}

func fieldsOf(p *domain.Profile) *ProfileFields {
	return &ProfileFields{
		Description:      p.Description,
		Parish:           p.Parish,
		Biography:        p.Biography,
		Sex:              p.Sex,
		Race:             p.Race,
		BirthYear:        p.BirthYear,
		Height:           p.Height,
		FavCuisine:       p.FavCuisine,
		FavColour:        p.FavColour,
		FavSchoolSubject: p.FavSchoolSubject,
		Political:        p.Political,
		Religious:        p.Religious,
		FamilyOriented:   p.FamilyOriented,
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
