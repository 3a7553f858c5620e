package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"readmore/referral/internal/model"
)

// In-memory repository fakes. They return the same gorm sentinel errors the
// Postgres implementations surface and keep the compare-and-swap semantics
// the services depend on.

type fakeCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[uuid.UUID]*model.Campaign
	// setRankErrs holds one injected error per upcoming SetRank call.
	setRankErrs []error
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: make(map[uuid.UUID]*model.Campaign)}
}

func (r *fakeCampaignRepo) Create(_ context.Context, campaign *model.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.campaigns {
		if c.BookID == campaign.BookID {
			return gorm.ErrDuplicatedKey
		}
	}
	campaign.ID = uuid.New()
	campaign.Rank = len(r.campaigns) + 1
	campaign.CreatedAt = time.Now()
	cp := *campaign
	r.campaigns[campaign.ID] = &cp
	return nil
}

func (r *fakeCampaignRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCampaignRepo) GetByBookID(_ context.Context, bookID uuid.UUID) (*model.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.campaigns {
		if c.BookID == bookID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCampaignRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.campaigns)), nil
}

func (r *fakeCampaignRepo) sortedLocked() []model.Campaign {
	out := make([]model.Campaign, 0, len(r.campaigns))
	for _, c := range r.campaigns {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *fakeCampaignRepo) List(_ context.Context, offset, limit int) ([]model.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sortedLocked()
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeCampaignRepo) ListRankGreater(_ context.Context, rank int) ([]model.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Campaign
	for _, c := range r.campaigns {
		if c.Rank > rank {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCampaignRepo) ListRankLess(_ context.Context, rank int) ([]model.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Campaign
	for _, c := range r.campaigns {
		if c.Rank < rank {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCampaignRepo) ListAllOrdered(_ context.Context) ([]model.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedLocked(), nil
}

func (r *fakeCampaignRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["need_num"]; ok {
		n := v.(int)
		c.NeedNum = &n
	}
	if v, ok := fields["limit_days"]; ok {
		n := v.(int)
		c.LimitDays = &n
	}
	return nil
}

func (r *fakeCampaignRepo) SetRank(_ context.Context, id uuid.UUID, rank int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.setRankErrs) > 0 {
		err := r.setRankErrs[0]
		r.setRankErrs = r.setRankErrs[1:]
		if err != nil {
			return err
		}
	}
	c, ok := r.campaigns[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Rank = rank
	return nil
}

func (r *fakeCampaignRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.campaigns, id)
	return nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]*model.Ticket
	// getErr, when set, fails reads; used to exercise the listing overlay's
	// partial-failure policy.
	getErr error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[uuid.UUID]*model.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *model.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.OwnerID == ticket.OwnerID && t.CampaignID == ticket.CampaignID {
			return gorm.ErrDuplicatedKey
		}
		if t.ShareCode == ticket.ShareCode {
			return gorm.ErrDuplicatedKey
		}
	}
	ticket.ID = uuid.New()
	ticket.CreatedAt = time.Now()
	cp := *ticket
	cp.Records = append(model.AcceptRecords{}, ticket.Records...)
	r.tickets[ticket.ID] = &cp
	return nil
}

func (r *fakeTicketRepo) GetByShareCode(_ context.Context, shareCode string) (*model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, t := range r.tickets {
		if t.ShareCode == shareCode {
			return copyTicket(t), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTicketRepo) GetByOwnerAndCampaign(_ context.Context, ownerID, campaignID uuid.UUID) (*model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, t := range r.tickets {
		if t.OwnerID == ownerID && t.CampaignID == campaignID {
			return copyTicket(t), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTicketRepo) AppendRecord(_ context.Context, shareCode string, expectedLen int, rec model.AcceptRecord, completed bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.ShareCode != shareCode {
			continue
		}
		if t.Completed || len(t.Records) != expectedLen || t.Records.Contains(rec.UID) {
			return false, nil
		}
		t.Records = append(t.Records, rec)
		t.Completed = completed
		return true, nil
	}
	return false, nil
}

func copyTicket(t *model.Ticket) *model.Ticket {
	cp := *t
	cp.Records = append(model.AcceptRecords{}, t.Records...)
	return &cp
}

type fakeUnlockRepo struct {
	mu      sync.Mutex
	unlocks []*model.Unlock
}

func newFakeUnlockRepo() *fakeUnlockRepo {
	return &fakeUnlockRepo{}
}

func (r *fakeUnlockRepo) Create(_ context.Context, unlock *model.Unlock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.unlocks {
		if u.UserID == unlock.UserID && u.BookID == unlock.BookID {
			return gorm.ErrDuplicatedKey
		}
	}
	unlock.ID = uuid.New()
	cp := *unlock
	r.unlocks = append(r.unlocks, &cp)
	return nil
}

func (r *fakeUnlockRepo) GetByUserAndBook(_ context.Context, userID, bookID uuid.UUID) (*model.Unlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.unlocks {
		if u.UserID == userID && u.BookID == bookID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUnlockRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.unlocks)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) add(name string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.users[id] = &model.User{ID: id, Username: name, Status: model.UserStatusActive}
	return id
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeBookRepo struct {
	mu     sync.Mutex
	books  map[uuid.UUID]*model.Book
	getErr error
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[uuid.UUID]*model.Book)}
}

func (r *fakeBookRepo) add(name string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.books[id] = &model.Book{ID: id, Name: name}
	return id
}

func (r *fakeBookRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	b, ok := r.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}
