package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Evgen-Mutagen/tapcash/internal/model"
)

// MemoryStore keeps users, stats and withdrawals in process memory. It
// satisfies UserRepository, StatsRepository and WithdrawalRepository and is
// used when no database is configured.
type MemoryStore struct {
	mu          sync.Mutex
	users       map[int64]*model.User
	logins      map[string]int64
	stats       map[int64]*model.UserStats
	withdrawals map[int64][]*model.Withdrawal
	nextUserID  int64
	nextStatsID int64
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[int64]*model.User),
		logins:      make(map[string]int64),
		stats:       make(map[int64]*model.UserStats),
		withdrawals: make(map[int64][]*model.Withdrawal),
		now:         time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.logins[user.Login]; ok {
		return ErrDuplicateLogin
	}
	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = s.now()

	stored := *user
	s.users[user.ID] = &stored
	s.logins[user.Login] = user.ID
	return nil
}

func (s *MemoryStore) GetByLogin(_ context.Context, login string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.logins[login]
	if !ok {
		return nil, nil
	}
	u := *s.users[id]
	return &u, nil
}

func (s *MemoryStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) GetOrCreate(_ context.Context, userID int64) (*model.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.statsLocked(userID)
	cp := *st
	return &cp, nil
}

func (s *MemoryStore) AddCoins(_ context.Context, userID int64, delta int64) (*model.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.statsLocked(userID)
	st.Coins += delta
	st.UpdatedAt = s.now()
	cp := *st
	return &cp, nil
}

func (s *MemoryStore) Apply(_ context.Context, w *model.Withdrawal) (*model.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stats[w.UserID]
	if !ok || st.Coins < w.CoinsSpent {
		return nil, ErrInsufficientCoins
	}
	st.Coins -= w.CoinsSpent
	st.TotalWithdrawn = st.TotalWithdrawn.Add(w.Amount)
	st.UpdatedAt = s.now()

	stored := *w
	s.withdrawals[w.UserID] = append(s.withdrawals[w.UserID], &stored)

	cp := *st
	return &cp, nil
}

func (s *MemoryStore) GetByUserID(_ context.Context, userID int64, limit int) ([]*model.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.withdrawals[userID]
	out := make([]*model.Withdrawal, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		cp := *src[i]
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) statsLocked(userID int64) *model.UserStats {
	st, ok := s.stats[userID]
	if !ok {
		s.nextStatsID++
		now := s.now()
		st = &model.UserStats{
			ID:        s.nextStatsID,
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.stats[userID] = st
	}
	return st
}
