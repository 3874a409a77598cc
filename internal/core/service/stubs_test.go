package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/socialpulse/analytics-api/internal/core/domain"
)

var errStoreDown = errors.New("store down")

// --- principal / company stubs ---

type stubPrincipalRepo struct {
	mu         sync.Mutex
	principals map[string]*domain.Principal
	down       bool
}

func newStubPrincipalRepo() *stubPrincipalRepo {
	return &stubPrincipalRepo{principals: make(map[string]*domain.Principal)}
}

func clonePrincipal(p *domain.Principal) *domain.Principal {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubPrincipalRepo) FindByUsername(_ context.Context, username string) (*domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return nil, errStoreDown
	}
	p, ok := r.principals[username]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	return clonePrincipal(p), nil
}

func (r *stubPrincipalRepo) Create(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return nil, errStoreDown
	}
	if _, exists := r.principals[p.Username]; exists {
		return nil, domain.ErrDuplicateUsername
	}
	copy := clonePrincipal(p)
	if copy.ID == "" {
		copy.ID = p.Username
	}
	r.principals[copy.Username] = clonePrincipal(copy)
	return copy, nil
}

func (r *stubPrincipalRepo) SetActive(_ context.Context, username string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return errStoreDown
	}
	p, ok := r.principals[username]
	if !ok {
		return domain.ErrPrincipalNotFound
	}
	p.Active = active
	return nil
}

type stubCompanyRepo struct {
	companies map[int64]*domain.Company
}

func newStubCompanyRepo(ids ...int64) *stubCompanyRepo {
	r := &stubCompanyRepo{companies: make(map[int64]*domain.Company)}
	for _, id := range ids {
		r.companies[id] = &domain.Company{ID: id, Name: "company", RegisteredAt: time.Now()}
	}
	return r
}

func (r *stubCompanyRepo) FindByID(_ context.Context, id int64) (*domain.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, domain.ErrCompanyNotFound
	}
	return c, nil
}

// --- account stub ---

type stubAccountRepo struct {
	accounts map[string]*domain.SocialAccount
	lookups  int
	down     bool
}

func newStubAccountRepo(accounts ...*domain.SocialAccount) *stubAccountRepo {
	r := &stubAccountRepo{accounts: make(map[string]*domain.SocialAccount)}
	for _, a := range accounts {
		r.accounts[a.Handle] = a
	}
	return r
}

func (r *stubAccountRepo) FindByHandle(_ context.Context, handle string) (*domain.SocialAccount, error) {
	if r.down {
		return nil, errStoreDown
	}
	r.lookups++
	a, ok := r.accounts[handle]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return a, nil
}

func (r *stubAccountRepo) ListByCompany(_ context.Context, companyID int64) ([]*domain.SocialAccount, error) {
	if r.down {
		return nil, errStoreDown
	}
	var out []*domain.SocialAccount
	for _, a := range r.accounts {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	return out, nil
}

// --- metric / post stubs ---

type stubMetricRepo struct {
	points []*domain.MetricPoint
	down   bool
}

func (r *stubMetricRepo) Insert(_ context.Context, p *domain.MetricPoint) error {
	if r.down {
		return errStoreDown
	}
	r.points = append(r.points, p)
	return nil
}

func (r *stubMetricRepo) ListByHandle(_ context.Context, handle string, limit int64) ([]*domain.MetricPoint, error) {
	if r.down {
		return nil, errStoreDown
	}
	var out []*domain.MetricPoint
	for _, p := range r.points {
		if p.Handle == handle {
			out = append(out, p)
		}
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubPostRepo struct {
	posts []*domain.Post
}

func (r *stubPostRepo) Insert(_ context.Context, p *domain.Post) error {
	r.posts = append(r.posts, p)
	return nil
}

func (r *stubPostRepo) ListByHandle(_ context.Context, handle string) ([]*domain.Post, error) {
	var out []*domain.Post
	for _, p := range r.posts {
		if p.Handle == handle {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- model artifact stub ---

type stubModelRepo struct {
	artifacts []*domain.ModelArtifact
}

func (r *stubModelRepo) Save(_ context.Context, a *domain.ModelArtifact) error {
	r.artifacts = append(r.artifacts, a)
	return nil
}

func (r *stubModelRepo) FindLatest(_ context.Context, handle string, kind domain.ModelKind) (*domain.ModelArtifact, error) {
	for i := len(r.artifacts) - 1; i >= 0; i-- {
		a := r.artifacts[i]
		if a.Handle == handle && a.Kind == kind {
			return a, nil
		}
	}
	return nil, domain.ErrModelNotFound
}

func (r *stubModelRepo) ListByHandle(_ context.Context, handle string, kind domain.ModelKind) ([]*domain.ModelArtifact, error) {
	var out []*domain.ModelArtifact
	for i := len(r.artifacts) - 1; i >= 0; i-- {
		a := r.artifacts[i]
		if a.Handle == handle && a.Kind == kind {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubModelRepo) DeleteByHandle(_ context.Context, handle string, kind domain.ModelKind) (int64, error) {
	var kept []*domain.ModelArtifact
	var deleted int64
	for _, a := range r.artifacts {
		if a.Handle == handle && a.Kind == kind {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	r.artifacts = kept
	return deleted, nil
}

// --- dedup / cache stubs ---

type stubDedup struct {
	seen  map[string]bool
	marks int
	fail  bool
}

func newStubDedup() *stubDedup {
	return &stubDedup{seen: make(map[string]bool)}
}

func (d *stubDedup) key(handle string, ts time.Time) string {
	return handle + "|" + ts.UTC().Format(time.RFC3339)
}

func (d *stubDedup) IsDuplicate(_ context.Context, handle string, ts time.Time) (bool, error) {
	if d.fail {
		return false, errStoreDown
	}
	return d.seen[d.key(handle, ts)], nil
}

func (d *stubDedup) Mark(_ context.Context, handle string, ts time.Time) error {
	if d.fail {
		return errStoreDown
	}
	d.seen[d.key(handle, ts)] = true
	d.marks++
	return nil
}

type stubCache struct {
	entries map[string]int64
	gets    int
	fail    bool
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]int64)}
}

func (c *stubCache) Get(_ context.Context, handle string) (int64, bool, error) {
	if c.fail {
		return 0, false, errStoreDown
	}
	c.gets++
	id, ok := c.entries[handle]
	return id, ok, nil
}

func (c *stubCache) Set(_ context.Context, handle string, companyID int64) error {
	if c.fail {
		return errStoreDown
	}
	c.entries[handle] = companyID
	return nil
}
