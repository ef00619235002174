// Package repotest provides an in-memory implementation of every repository
// interface for service and handler tests.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"agrofund/internal/domain"
	"agrofund/internal/repository"
)

// Memory keeps records in maps. Reads return copies so callers cannot mutate
// stored state without going through an update method.
type Memory struct {
	mu          sync.Mutex
	seq         int
	profiles    map[string]*domain.Profile
	farmers     map[string]*domain.Farmer
	farms       map[string]*domain.Farm
	media       map[string]*domain.Media
	packages    map[string]*domain.Package
	assets      map[string]*domain.Asset
	investments map[string]*domain.Investment
	payments    map[string]*domain.Payment
	withdrawals map[string]*domain.WithdrawalRequest
	visits      map[string]*domain.FarmVisit

	// FailAllocate makes VerifyAndAllocate fail without writing anything.
	FailAllocate error
	// AdminStatsResult, when set, is returned by AdminStats.
	AdminStatsResult *domain.AdminStats
	// StatsCalls counts AdminStats invocations.
	StatsCalls int
}

var (
	_ repository.ProfilesRepository    = (*Memory)(nil)
	_ repository.FarmersRepository     = (*Memory)(nil)
	_ repository.FarmsRepository       = (*Memory)(nil)
	_ repository.MediaRepository       = (*Memory)(nil)
	_ repository.PackagesRepository    = (*Memory)(nil)
	_ repository.AssetsRepository      = (*Memory)(nil)
	_ repository.InvestmentsRepository = (*Memory)(nil)
	_ repository.PaymentsRepository    = (*Memory)(nil)
	_ repository.WithdrawalsRepository = (*Memory)(nil)
	_ repository.VisitsRepository      = (*Memory)(nil)
	_ repository.DashboardRepository   = (*Memory)(nil)
)

func New() *Memory {
	return &Memory{
		profiles:    map[string]*domain.Profile{},
		farmers:     map[string]*domain.Farmer{},
		farms:       map[string]*domain.Farm{},
		media:       map[string]*domain.Media{},
		packages:    map[string]*domain.Package{},
		assets:      map[string]*domain.Asset{},
		investments: map[string]*domain.Investment{},
		payments:    map[string]*domain.Payment{},
		withdrawals: map[string]*domain.WithdrawalRequest{},
		visits:      map[string]*domain.FarmVisit{},
	}
}

// PutAsset stores an asset as is. Assets are otherwise only created by
// VerifyAndAllocate.
func (m *Memory) PutAsset(a *domain.Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.assets[a.ID] = &cp
}

func (m *Memory) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func missing(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, domain.ErrNotFound)
}

func paged[T any](items []T, page, size int) ([]T, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	total := len(items)
	start := (page - 1) * size
	if start >= total {
		return []T{}, total
	}
	end := start + size
	if end > total {
		end = total
	}
	return items[start:end], total
}

// profiles

func (m *Memory) CreateProfile(_ context.Context, p *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.ID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *p
	m.profiles[p.ID] = &cp
	return nil
}

func (m *Memory) GetProfile(_ context.Context, id string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, missing("profile", id)
	}
	cp := *p
	return &cp, nil
}

func (m *Memory) UpdateProfile(_ context.Context, p *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.ID]; !ok {
		return missing("profile", p.ID)
	}
	cp := *p
	m.profiles[p.ID] = &cp
	return nil
}

func (m *Memory) ListProfiles(_ context.Context, f repository.ProfilesFilter, page, size int) ([]*domain.Profile, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Profile
	for _, p := range m.profiles {
		if (f.Role == "" || p.Role == f.Role) && (f.KYCStatus == "" || p.KYCStatus == f.KYCStatus) {
			out = append(out, p)
		}
	}
	items, total := paged(out, page, size)
	return items, total, nil
}

// farmers

func (m *Memory) CreateFarmer(_ context.Context, f *domain.Farmer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.farmers {
		if existing.UserID == f.UserID {
			return domain.ErrAlreadyExists
		}
	}
	f.ID = m.nextID("farmer")
	cp := *f
	m.farmers[f.ID] = &cp
	return nil
}

func (m *Memory) GetFarmer(_ context.Context, id string) (*domain.Farmer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.farmers[id]
	if !ok {
		return nil, missing("farmer", id)
	}
	cp := *f
	return &cp, nil
}

func (m *Memory) GetFarmerByUser(_ context.Context, userID string) (*domain.Farmer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.farmers {
		if f.UserID == userID {
			cp := *f
			return &cp, nil
		}
	}
	return nil, missing("farmer for user", userID)
}

func (m *Memory) UpdateVerification(_ context.Context, f *domain.Farmer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.farmers[f.ID]; !ok {
		return missing("farmer", f.ID)
	}
	cp := *f
	m.farmers[f.ID] = &cp
	return nil
}

func (m *Memory) ListFarmers(_ context.Context, filter repository.FarmersFilter, page, size int) ([]*domain.Farmer, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Farmer
	for _, f := range m.farmers {
		if filter.Status != "" && f.VerificationStatus != filter.Status {
			continue
		}
		if filter.Certified != nil && f.IsCertified != *filter.Certified {
			continue
		}
		out = append(out, f)
	}
	items, total := paged(out, page, size)
	return items, total, nil
}

func (m *Memory) ListExpiringCertifications(_ context.Context, now, before time.Time) ([]*domain.Farmer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Farmer
	for _, f := range m.farmers {
		if expiringBetween(f, now, before) {
			out = append(out, f)
		}
	}
	return out, nil
}

func expiringBetween(f *domain.Farmer, now, before time.Time) bool {
	if !f.IsCertified || f.CertificationExpiresAt == nil {
		return false
	}
	exp := *f.CertificationExpiresAt
	return exp.After(now) && !exp.After(before)
}

// farms and media

func (m *Memory) CreateFarm(_ context.Context, f *domain.Farm) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.ID = m.nextID("farm")
	cp := *f
	m.farms[f.ID] = &cp
	return nil
}

func (m *Memory) GetFarm(_ context.Context, id string) (*domain.Farm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.farms[id]
	if !ok {
		return nil, missing("farm", id)
	}
	cp := *f
	return &cp, nil
}

func (m *Memory) UpdateFarm(_ context.Context, f *domain.Farm) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.farms[f.ID]; !ok {
		return missing("farm", f.ID)
	}
	cp := *f
	m.farms[f.ID] = &cp
	return nil
}

func (m *Memory) SetFarmVerification(_ context.Context, id string, verified, certified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.farms[id]
	if !ok {
		return missing("farm", id)
	}
	f.IsVerified = verified
	f.IsCertified = certified
	return nil
}

func (m *Memory) ListFarms(_ context.Context, filter repository.FarmsFilter, page, size int) ([]*domain.Farm, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Farm
	for _, f := range m.farms {
		if filter.FarmerID != "" && f.FarmerID != filter.FarmerID {
			continue
		}
		if filter.Verified != nil && f.IsVerified != *filter.Verified {
			continue
		}
		out = append(out, f)
	}
	items, total := paged(out, page, size)
	return items, total, nil
}

func (m *Memory) CreateMedia(_ context.Context, md *domain.Media) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	md.ID = m.nextID("media")
	cp := *md
	m.media[md.ID] = &cp
	return nil
}

func (m *Memory) GetMedia(_ context.Context, id string) (*domain.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	md, ok := m.media[id]
	if !ok {
		return nil, missing("media", id)
	}
	cp := *md
	return &cp, nil
}

func (m *Memory) ListMedia(_ context.Context, farmID, assetID string) ([]*domain.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if farmID == "" && assetID == "" {
		return nil, errors.New("farm id or asset id is required")
	}
	var out []*domain.Media
	for _, md := range m.media {
		if farmID != "" && (md.FarmID == nil || *md.FarmID != farmID) {
			continue
		}
		if assetID != "" && (md.AssetID == nil || *md.AssetID != assetID) {
			continue
		}
		out = append(out, md)
	}
	return out, nil
}

func (m *Memory) DeleteMedia(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.media[id]; !ok {
		return missing("media", id)
	}
	delete(m.media, id)
	return nil
}

// packages and assets

func (m *Memory) CreatePackage(_ context.Context, p *domain.Package) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = m.nextID("pkg")
	}
	cp := *p
	m.packages[p.ID] = &cp
	return nil
}

func (m *Memory) GetPackage(_ context.Context, id string) (*domain.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.packages[id]
	if !ok {
		return nil, missing("package", id)
	}
	cp := *p
	return &cp, nil
}

func (m *Memory) UpdatePackage(_ context.Context, p *domain.Package) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.packages[p.ID]; !ok {
		return missing("package", p.ID)
	}
	cp := *p
	m.packages[p.ID] = &cp
	return nil
}

func (m *Memory) ListPackages(_ context.Context, activeOnly bool) ([]*domain.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Package
	for _, p := range m.packages {
		if !activeOnly || p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) GetAsset(_ context.Context, id string) (*domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[id]
	if !ok {
		return nil, missing("asset", id)
	}
	cp := *a
	return &cp, nil
}

func (m *Memory) ListAssets(_ context.Context, filter repository.AssetsFilter) ([]*domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Asset{}
	for _, a := range m.assets {
		if filter.InvestorID != "" && a.InvestorID != filter.InvestorID {
			continue
		}
		if len(filter.FarmIDs) > 0 {
			hit := false
			for _, id := range filter.FarmIDs {
				if a.FarmID != nil && *a.FarmID == id {
					hit = true
				}
			}
			if !hit {
				continue
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *Memory) UpdateAssetPhase(_ context.Context, a *domain.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[a.ID]; !ok {
		return missing("asset", a.ID)
	}
	cp := *a
	m.assets[a.ID] = &cp
	return nil
}

// investments and payments

func (m *Memory) CreateInvestment(_ context.Context, inv *domain.Investment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv.ID = m.nextID("inv")
	cp := *inv
	m.investments[inv.ID] = &cp
	return nil
}

func (m *Memory) GetInvestment(_ context.Context, id string) (*domain.Investment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.investments[id]
	if !ok {
		return nil, missing("investment", id)
	}
	cp := *inv
	return &cp, nil
}

func (m *Memory) ListInvestments(_ context.Context, filter repository.InvestmentsFilter, page, size int) ([]*domain.Investment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Investment
	for _, inv := range m.investments {
		if (filter.InvestorID == "" || inv.InvestorID == filter.InvestorID) && (filter.Status == "" || inv.Status == filter.Status) {
			out = append(out, inv)
		}
	}
	items, total := paged(out, page, size)
	return items, total, nil
}

func (m *Memory) UpdateInvestmentStatus(_ context.Context, inv *domain.Investment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.investments[inv.ID]; !ok {
		return missing("investment", inv.ID)
	}
	cp := *inv
	m.investments[inv.ID] = &cp
	return nil
}

func (m *Memory) CreatePayment(_ context.Context, p *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID("pay")
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *Memory) GetPayment(_ context.Context, id string) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, missing("payment", id)
	}
	cp := *p
	return &cp, nil
}

func (m *Memory) ListPayments(_ context.Context, filter repository.PaymentsFilter, page, size int) ([]*domain.Payment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Payment
	for _, p := range m.payments {
		if (filter.InvestorID == "" || p.InvestorID == filter.InvestorID) && (filter.Status == "" || p.Status == filter.Status) {
			out = append(out, p)
		}
	}
	items, total := paged(out, page, size)
	return items, total, nil
}

func (m *Memory) UpdatePaymentReview(_ context.Context, p *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[p.ID]; !ok {
		return missing("payment", p.ID)
	}
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *Memory) VerifyAndAllocate(_ context.Context, p *domain.Payment, inv *domain.Investment, a *domain.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAllocate != nil {
		return m.FailAllocate
	}
	pc, ic := *p, *inv
	m.payments[p.ID] = &pc
	m.investments[inv.ID] = &ic
	a.ID = m.nextID("asset")
	ac := *a
	m.assets[a.ID] = &ac
	return nil
}

// withdrawals and visits

func (m *Memory) CreateWithdrawal(_ context.Context, w *domain.WithdrawalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w.ID = m.nextID("wd")
	cp := *w
	m.withdrawals[w.ID] = &cp
	return nil
}

func (m *Memory) GetWithdrawal(_ context.Context, id string) (*domain.WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.withdrawals[id]
	if !ok {
		return nil, missing("withdrawal request", id)
	}
	cp := *w
	return &cp, nil
}

func (m *Memory) ListWithdrawals(_ context.Context, filter repository.WithdrawalsFilter, page, size int) ([]*domain.WithdrawalRequest, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.WithdrawalRequest
	for _, w := range m.withdrawals {
		if (filter.InvestorID == "" || w.InvestorID == filter.InvestorID) && (filter.Status == "" || w.Status == filter.Status) {
			out = append(out, w)
		}
	}
	items, total := paged(out, page, size)
	return items, total, nil
}

func (m *Memory) UpdateWithdrawalStatus(_ context.Context, w *domain.WithdrawalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.withdrawals[w.ID]; !ok {
		return missing("withdrawal request", w.ID)
	}
	cp := *w
	m.withdrawals[w.ID] = &cp
	return nil
}

func (m *Memory) CreateVisit(_ context.Context, v *domain.FarmVisit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.ID = m.nextID("visit")
	cp := *v
	m.visits[v.ID] = &cp
	return nil
}

func (m *Memory) GetVisit(_ context.Context, id string) (*domain.FarmVisit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.visits[id]
	if !ok {
		return nil, missing("farm visit", id)
	}
	cp := *v
	return &cp, nil
}

func (m *Memory) ListVisits(_ context.Context, filter repository.VisitsFilter, page, size int) ([]*domain.FarmVisit, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.FarmVisit
	for _, v := range m.visits {
		if (filter.InvestorID == "" || v.InvestorID == filter.InvestorID) && (filter.Status == "" || v.Status == filter.Status) && (filter.FarmID == "" || v.FarmID == filter.FarmID) {
			out = append(out, v)
		}
	}
	items, total := paged(out, page, size)
	return items, total, nil
}

func (m *Memory) UpdateVisitStatus(_ context.Context, v *domain.FarmVisit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.visits[v.ID]; !ok {
		return missing("farm visit", v.ID)
	}
	cp := *v
	m.visits[v.ID] = &cp
	return nil
}

// dashboards

func (m *Memory) InvestorStats(_ context.Context, investorID string) (*domain.InvestorStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &domain.InvestorStats{}
	for _, inv := range m.investments {
		if inv.InvestorID != investorID {
			continue
		}
		if inv.Status == domain.InvestmentActive {
			s.ActiveInvestments++
			s.TotalInvested = s.TotalInvested.Add(inv.Amount)
			s.ExpectedReturns = s.ExpectedReturns.Add(inv.ExpectedReturn)
		}
	}
	for _, a := range m.assets {
		if a.InvestorID == investorID {
			s.AssetCount++
		}
	}
	return s, nil
}

func (m *Memory) AdminStats(_ context.Context, now, expiringBefore time.Time) (*domain.AdminStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatsCalls++
	if m.AdminStatsResult != nil {
		cp := *m.AdminStatsResult
		return &cp, nil
	}
	s := &domain.AdminStats{}
	for _, p := range m.payments {
		if p.Status == domain.PaymentPending {
			s.PendingPayments++
		}
	}
	for _, f := range m.farmers {
		if expiringBetween(f, now, expiringBefore) {
			s.ExpiringCertifications++
		}
	}
	return s, nil
}

