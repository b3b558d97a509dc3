// Package memory implements the repository interfaces over process memory.
// It backs the use case and handler tests and is not meant for production
// use: it keeps no data across restarts and has no indexes.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/repository"
)

// Store holds every table. Repositories returned by its accessors share it.
type Store struct {
	mu sync.Mutex
	// txMu is held for the length of a transaction so transactions run one
	// at a time, like writers contending for the same rows.
	txMu sync.Mutex

	users      map[int]*domain.User
	profiles   map[int]*domain.Profile
	favourites map[int]*domain.Favourite
	reports    map[int]*domain.Report
	revoked    map[string]time.Time

	nextID int
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      map[int]*domain.User{},
		profiles:   map[int]*domain.Profile{},
		favourites: map[int]*domain.Favourite{},
		reports:    map[int]*domain.Report{},
		revoked:    map[string]time.Time{},
		now:        time.Now,
	}
}

// Tick makes every subsequent write one second later than the previous one
// so created_at orderings are deterministic.
func (s *Store) Tick() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func (s *Store) id() int {
	s.nextID++
	return s.nextID
}

func (s *Store) Users() repository.UserRepository           { return &userRepository{s} }
func (s *Store) Profiles() repository.ProfileRepository     { return &profileRepository{s} }
func (s *Store) Favourites() repository.FavouriteRepository { return &favouriteRepository{s} }
func (s *Store) Reports() repository.ReportRepository       { return &reportRepository{s} }
func (s *Store) Blocklist() repository.TokenBlocklist       { return &blocklist{s} }

type txKey struct{}

// WithinTx serializes fn against other transactions and restores every
// table when fn fails. A nested call joins the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type tables struct {
	users      map[int]*domain.User
	profiles   map[int]*domain.Profile
	favourites map[int]*domain.Favourite
	reports    map[int]*domain.Report
	nextID     int
}

func (s *Store) snapshot() tables {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tables{
		users:      cloneTable(s.users),
		profiles:   cloneTable(s.profiles),
		favourites: cloneTable(s.favourites),
		reports:    cloneTable(s.reports),
		nextID:     s.nextID,
	}
}

func (s *Store) restore(t tables) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = t.users
	s.profiles = t.profiles
	s.favourites = t.favourites
	s.reports = t.reports
	s.nextID = t.nextID
}

func cloneTable[T any](m map[int]*T) map[int]*T {
	out := make(map[int]*T, len(m))
	for id, v := range m {
		cp := *v
		out[id] = &cp
	}
	return out
}

func sortedIDs[T any](m map[int]T) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

type userRepository struct{ s *Store }

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	user.ID = r.s.id()
	user.DateJoined = r.s.now()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := []*domain.User{}
	for _, id := range sortedIDs(r.s.users) {
		cp := *r.s.users[id]
		users = append(users, &cp)
	}
	return users, nil
}

func (r *userRepository) LockByID(ctx context.Context, id int) error {
	_, err := r.GetByID(ctx, id)
	return err
}

func (r *userRepository) UpdatePhoto(ctx context.Context, id int, photo string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Photo = &photo
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}

type profileRepository struct{ s *Store }

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[profile.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	profile.ID = r.s.id()
	profile.CreatedAt = r.s.now()
	profile.UpdatedAt = profile.CreatedAt
	cp := *profile
	r.s.profiles[profile.ID] = &cp
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id int) (*domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

// GetByIDForUpdate has nothing to lock beyond WithinTx serialization.
func (r *profileRepository) GetByIDForUpdate(ctx context.Context, id int) (*domain.Profile, error) {
	return r.GetByID(ctx, id)
}

func (r *profileRepository) GetWithName(ctx context.Context, id int) (*domain.ProfileWithName, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return r.withName(p), nil
}

// withName expects the store lock to be held.
func (r *profileRepository) withName(p *domain.Profile) *domain.ProfileWithName {
	out := &domain.ProfileWithName{Profile: *p}
	if u, ok := r.s.users[p.UserID]; ok {
		out.Name = u.Name
	}
	return out
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[profile.ID]; !ok {
		return domain.ErrProfileNotFound
	}
	profile.UpdatedAt = r.s.now()
	cp := *profile
	r.s.profiles[profile.ID] = &cp
	return nil
}

func (r *profileRepository) CountByUserID(ctx context.Context, userID int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, p := range r.s.profiles {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *profileRepository) HasCompleteProfile(ctx context.Context, userID int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.profiles {
		if p.UserID == userID && p.IsComplete {
			return true, nil
		}
	}
	return false, nil
}

func (r *profileRepository) ListLatest(ctx context.Context, limit int) ([]*domain.ProfileWithName, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := sortedIDs(r.s.profiles)
	profiles := []*domain.ProfileWithName{}
	for i := len(ids) - 1; i >= 0 && len(profiles) < limit; i-- {
		profiles = append(profiles, r.withName(r.s.profiles[ids[i]]))
	}
	return profiles, nil
}

func (r *profileRepository) ListByOtherUsers(ctx context.Context, userID int) ([]*domain.ProfileWithName, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	profiles := []*domain.ProfileWithName{}
	for _, id := range sortedIDs(r.s.profiles) {
		if p := r.s.profiles[id]; p.UserID != userID {
			profiles = append(profiles, r.withName(p))
		}
	}
	return profiles, nil
}

func (r *profileRepository) Search(ctx context.Context, filter repository.ProfileSearch) ([]*domain.ProfileWithName, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	profiles := []*domain.ProfileWithName{}
	for _, id := range sortedIDs(r.s.profiles) {
		p := r.withName(r.s.profiles[id])
		switch {
		case p.UserID == filter.ExcludeUserID:
		case filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)):
		case filter.BirthYear != nil && (p.BirthYear == nil || *p.BirthYear != *filter.BirthYear):
		case filter.Sex != "" && (p.Sex == nil || *p.Sex != filter.Sex):
		case filter.Race != "" && (p.Race == nil || *p.Race != filter.Race):
		default:
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

func (r *profileRepository) DeleteByUserID(ctx context.Context, userID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, p := range r.s.profiles {
		if p.UserID == userID {
			delete(r.s.profiles, id)
		}
	}
	return nil
}

type favouriteRepository struct{ s *Store }

func (r *favouriteRepository) Create(ctx context.Context, fav *domain.Favourite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if fav.UserID == fav.FavUserID {
		return domain.ErrSelfFavourite
	}
	_, okFrom := r.s.users[fav.UserID]
	_, okTo := r.s.users[fav.FavUserID]
	if !okFrom || !okTo {
		return domain.ErrUserNotFound
	}
	for _, f := range r.s.favourites {
		if f.UserID == fav.UserID && f.FavUserID == fav.FavUserID {
			return domain.ErrFavouriteExists
		}
	}
	fav.ID = r.s.id()
	fav.CreatedAt = r.s.now()
	cp := *fav
	r.s.favourites[fav.ID] = &cp
	return nil
}

func (r *favouriteRepository) Delete(ctx context.Context, userID, favUserID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, f := range r.s.favourites {
		if f.UserID == userID && f.FavUserID == favUserID {
			delete(r.s.favourites, id)
			return nil
		}
	}
	return domain.ErrFavouriteNotFound
}

// ranked expects the store lock to be held.
func (r *favouriteRepository) ranked(userID int) *domain.RankedUser {
	ru := &domain.RankedUser{User: *r.s.users[userID]}
	for _, id := range sortedIDs(r.s.profiles) {
		if p := r.s.profiles[id]; p.UserID == userID {
			ru.Parish = p.Parish
			ru.BirthYear = p.BirthYear
			break
		}
	}
	for _, f := range r.s.favourites {
		if f.FavUserID == userID {
			ru.FavoriteCount++
		}
	}
	return ru
}

func (r *favouriteRepository) ListTargets(ctx context.Context, userID int) ([]*domain.RankedUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := []*domain.RankedUser{}
	for _, id := range sortedIDs(r.s.favourites) {
		f := r.s.favourites[id]
		if f.UserID != userID {
			continue
		}
		if _, ok := r.s.users[f.FavUserID]; ok {
			users = append(users, r.ranked(f.FavUserID))
		}
	}
	return users, nil
}

func (r *favouriteRepository) CountByTarget(ctx context.Context) ([]*domain.RankedUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[int]bool{}
	users := []*domain.RankedUser{}
	for _, f := range r.s.favourites {
		if _, ok := r.s.users[f.FavUserID]; ok && !seen[f.FavUserID] {
			seen[f.FavUserID] = true
			users = append(users, r.ranked(f.FavUserID))
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].FavoriteCount != users[j].FavoriteCount {
			return users[i].FavoriteCount > users[j].FavoriteCount
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (r *favouriteRepository) DeleteByUserID(ctx context.Context, userID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, f := range r.s.favourites {
		if f.UserID == userID || f.FavUserID == userID {
			delete(r.s.favourites, id)
		}
	}
	return nil
}

type reportRepository struct{ s *Store }

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	report.ID = r.s.id()
	report.CreatedAt = r.s.now()
	cp := *report
	r.s.reports[report.ID] = &cp
	return nil
}

// resolve expects the store lock to be held.
func (r *reportRepository) resolve(rep *domain.Report) *domain.Report {
	cp := *rep
	cp.ReporterName, cp.ReportedUserName = nil, nil
	if u, ok := r.s.users[rep.ReporterID]; ok {
		name := u.Name
		cp.ReporterName = &name
	}
	if u, ok := r.s.users[rep.ReportedUserID]; ok {
		name := u.Name
		cp.ReportedUserName = &name
	}
	return &cp
}

func (r *reportRepository) GetByID(ctx context.Context, id int) (*domain.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rep, ok := r.s.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return r.resolve(rep), nil
}

func (r *reportRepository) List(ctx context.Context, sortBy repository.ReportSortField, desc bool) ([]*domain.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reports := []*domain.Report{}
	for _, id := range sortedIDs(r.s.reports) {
		reports = append(reports, r.resolve(r.s.reports[id]))
	}

	var key func(*domain.Report) string
	switch sortBy {
	case repository.ReportSortCreatedAt:
		key = func(rep *domain.Report) string { return rep.CreatedAt.UTC().Format(time.RFC3339Nano) }
	case repository.ReportSortReporterName:
		key = func(rep *domain.Report) string { return lowerOrEmpty(rep.ReporterName) }
	case repository.ReportSortReportedUserName:
		key = func(rep *domain.Report) string { return lowerOrEmpty(rep.ReportedUserName) }
	case repository.ReportSortReason:
		key = func(rep *domain.Report) string { return strings.ToLower(rep.Reason) }
	default:
		return nil, domain.ErrInvalidSortField
	}

	sort.SliceStable(reports, func(i, j int) bool {
		a, b := key(reports[i]), key(reports[j])
		if a == b {
			if desc {
				return reports[i].ID > reports[j].ID
			}
			return reports[i].ID < reports[j].ID
		}
		if desc {
			return a > b
		}
		return a < b
	})
	return reports, nil
}

func lowerOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return strings.ToLower(*s)
}

type blocklist struct{ s *Store }

func (b *blocklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	b.s.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (b *blocklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	exp, ok := b.s.revoked[tokenID]
	return ok && time.Now().Before(exp), nil
}
