// internal/repository/memory_store.go
package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Aaisha011/E-Auction/internal/apperrors"
	"github.com/Aaisha011/E-Auction/internal/models"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs the service and
// handler tests so the auction core can be exercised without a database.
// Transactions serialize on a single lock; rollback is not simulated.
type MemoryStore struct {
	mu   *sync.Mutex
	data *memoryData
	inTx bool
}

type memoryData struct {
	auctions map[uint]*models.Auction
	products map[uint]*models.Product
	bids     map[uint]*models.Bid
	users    map[uint]*models.User

	nextAuctionID uint
	nextProductID uint
	nextBidID     uint
	nextUserID    uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu: &sync.Mutex{},
		data: &memoryData{
			auctions: make(map[uint]*models.Auction),
			products: make(map[uint]*models.Product),
			bids:     make(map[uint]*models.Bid),
			users:    make(map[uint]*models.User),
		},
	}
}

func (s *MemoryStore) lock() {
	if !s.inTx {
		s.mu.Lock()
	}
}

func (s *MemoryStore) unlock() {
	if !s.inTx {
		s.mu.Unlock()
	}
}

func (s *MemoryStore) Auctions() AuctionRepository { return &memAuctionRepo{s} }
func (s *MemoryStore) Products() ProductRepository { return &memProductRepo{s} }
func (s *MemoryStore) Bids() BidRepository         { return &memBidRepo{s} }
func (s *MemoryStore) Users() UserRepository       { return &memUserRepo{s} }

func (s *MemoryStore) Transaction(fn func(Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&MemoryStore{mu: s.mu, data: s.data, inTx: true})
}

// Seed helpers for tests.

func (s *MemoryStore) PutUser(u *models.User) *models.User {
	s.lock()
	defer s.unlock()
	if u.ID == 0 {
		s.data.nextUserID++
		u.ID = s.data.nextUserID
	}
	s.data.users[u.ID] = u
	return u
}

func (s *MemoryStore) PutProduct(p *models.Product) *models.Product {
	s.lock()
	defer s.unlock()
	if p.ID == 0 {
		s.data.nextProductID++
		p.ID = s.data.nextProductID
	}
	if p.Status == "" {
		p.Status = models.ProductStatusPending
	}
	s.data.products[p.ID] = p
	return p
}

// Auctions

type memAuctionRepo struct {
	s *MemoryStore
}

func (r *memAuctionRepo) Create(a *models.Auction) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.data.nextAuctionID++
	a.ID = r.s.data.nextAuctionID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	cp := *a
	r.s.data.auctions[a.ID] = &cp
	return nil
}

func (r *memAuctionRepo) GetByID(id uint) (*models.Auction, error) {
	r.s.lock()
	defer r.s.unlock()
	a, ok := r.s.data.auctions[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *a
	if p, ok := r.s.data.products[a.ProductID]; ok {
		cp.Product = *p
	}
	return &cp, nil
}

func (r *memAuctionRepo) GetByIDForUpdate(id uint) (*models.Auction, error) {
	return r.GetByID(id)
}

func (r *memAuctionRepo) List(status *models.AuctionStatus) ([]models.Auction, error) {
	r.s.lock()
	defer r.s.unlock()
	var out []models.Auction
	for _, a := range r.s.data.auctions {
		if status != nil && a.Status != *status {
			continue
		}
		cp := *a
		if p, ok := r.s.data.products[a.ProductID]; ok {
			cp.Product = *p
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AuctionStart.Before(out[j].AuctionStart)
	})
	return out, nil
}

func (r *memAuctionRepo) ListUnfinished() ([]models.Auction, error) {
	r.s.lock()
	defer r.s.unlock()
	var out []models.Auction
	for _, a := range r.s.data.auctions {
		if a.Status != models.AuctionStatusCompleted {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memAuctionRepo) FindActiveByProduct(productID uint) (*models.Auction, error) {
	r.s.lock()
	defer r.s.unlock()
	for _, a := range r.s.data.auctions {
		if a.ProductID == productID && a.Status != models.AuctionStatusCompleted {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memAuctionRepo) UpdateStatus(id uint, from, to models.AuctionStatus) (bool, error) {
	r.s.lock()
	defer r.s.unlock()
	a, ok := r.s.data.auctions[id]
	if !ok || a.Status != from {
		return false, nil
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	return true, nil
}

func (r *memAuctionRepo) MarkSettled(id uint, at time.Time) error {
	r.s.lock()
	defer r.s.unlock()
	a, ok := r.s.data.auctions[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	a.SettledAt = &at
	return nil
}

func (r *memAuctionRepo) Delete(id uint) error {
	r.s.lock()
	defer r.s.unlock()
	if _, ok := r.s.data.auctions[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.data.auctions, id)
	return nil
}

// Products

type memProductRepo struct {
	s *MemoryStore
}

func (r *memProductRepo) GetByID(id uint) (*models.Product, error) {
	r.s.lock()
	defer r.s.unlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetByIDForUpdate(id uint) (*models.Product, error) {
	return r.GetByID(id)
}

func (r *memProductRepo) SetStatus(id uint, status models.ProductStatus) error {
	r.s.lock()
	defer r.s.unlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.Status = status
	return nil
}

func (r *memProductRepo) MarkSold(id uint, soldTo uint, price decimal.Decimal) error {
	r.s.lock()
	defer r.s.unlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.Status = models.ProductStatusSold
	p.SoldTo = &soldTo
	p.SoldPrice = &price
	return nil
}

func (r *memProductRepo) MarkUnsold(id uint) error {
	r.s.lock()
	defer r.s.unlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.Status = models.ProductStatusUnsold
	return nil
}

// Bids

type memBidRepo struct {
	s *MemoryStore
}

func (r *memBidRepo) Create(b *models.Bid) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.data.nextBidID++
	b.ID = r.s.data.nextBidID
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	cp := *b
	r.s.data.bids[b.ID] = &cp
	return nil
}

func (r *memBidRepo) ListByAuction(auctionID uint) ([]models.Bid, error) {
	r.s.lock()
	defer r.s.unlock()
	return r.listLocked(auctionID), nil
}

func (r *memBidRepo) listLocked(auctionID uint) []models.Bid {
	var out []models.Bid
	for _, b := range r.s.data.bids {
		if b.AuctionID != auctionID {
			continue
		}
		cp := *b
		if u, ok := r.s.data.users[b.UserID]; ok {
			cp.User = *u
		}
		out = append(out, cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *memBidRepo) HighestByAuction(auctionID uint) (*models.Bid, error) {
	r.s.lock()
	defer r.s.unlock()
	bids := r.listLocked(auctionID)
	if len(bids) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &bids[0], nil
}

func (r *memBidRepo) DeleteLosing(auctionID, winningBidID uint) error {
	r.s.lock()
	defer r.s.unlock()
	for id, b := range r.s.data.bids {
		if b.AuctionID == auctionID && id != winningBidID {
			delete(r.s.data.bids, id)
		}
	}
	return nil
}

// Users

type memUserRepo struct {
	s *MemoryStore
}

func (r *memUserRepo) GetByID(id uint) (*models.User, error) {
	r.s.lock()
	defer r.s.unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
