package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/repository"
)

// memData is the full contents of the fake database
type memData struct {
	apps    map[uint]*models.LoanApplication
	deleted map[uint]bool
	factors map[uint][]models.RiskFactor
	audit   []models.AuditEntry
	docs    map[uint]*models.LoanDocument
	nextID  uint
}

func newMemData() *memData {
	return &memData{
		apps:    map[uint]*models.LoanApplication{},
		deleted: map[uint]bool{},
		factors: map[uint][]models.RiskFactor{},
		docs:    map[uint]*models.LoanDocument{},
	}
}

func (d *memData) clone() *memData {
	c := newMemData()
	for id, app := range d.apps {
		c.apps[id] = app.Clone()
	}
	for id, v := range d.deleted {
		c.deleted[id] = v
	}
	for id, fs := range d.factors {
		c.factors[id] = append([]models.RiskFactor(nil), fs...)
	}
	c.audit = append([]models.AuditEntry(nil), d.audit...)
	for id, doc := range d.docs {
		cp := *doc
		c.docs[id] = &cp
	}
	c.nextID = d.nextID
	return c
}

func (d *memData) id() uint {
	d.nextID++
	return d.nextID
}

// memStore is an in-memory repository.LoanStore. Transactions run one at a
// time against a staged copy that replaces the live data only when the
// callback succeeds.
type memStore struct {
	txMu *sync.Mutex
	root *memStore
	data *memData

	// fail injects an error into the named method
	fail map[string]error
}

func newMemStore() *memStore {
	s := &memStore{txMu: &sync.Mutex{}, data: newMemData(), fail: map[string]error{}}
	s.root = s
	return s
}

func (s *memStore) injected(method string) error {
	return s.root.fail[method]
}

func (s *memStore) Transaction(ctx context.Context, fn func(tx repository.LoanStore) error) error {
	if s.root != s {
		return fn(s)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &memStore{root: s, data: s.data.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

func (s *memStore) LoadApplication(ctx context.Context, id uint) (*models.LoanApplication, error) {
	if err := s.injected("LoadApplication"); err != nil {
		return nil, err
	}
	app, ok := s.data.apps[id]
	if !ok || s.data.deleted[id] {
		return nil, repository.ErrNotFound
	}
	return app.Clone(), nil
}

func (s *memStore) FindByApplicationID(ctx context.Context, applicationID string) (*models.LoanApplication, error) {
	for id, app := range s.data.apps {
		if app.ApplicationID == applicationID && !s.data.deleted[id] {
			return app.Clone(), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) ListApplications(ctx context.Context, query *repository.ApplicationQuery) ([]models.LoanApplication, int64, error) {
	var out []models.LoanApplication
	for id, app := range s.data.apps {
		if s.data.deleted[id] {
			continue
		}
		if query != nil && query.Status != "" && app.Status != query.Status {
			continue
		}
		if query != nil && query.LoanType != "" && app.LoanType != query.LoanType {
			continue
		}
		if query != nil && query.Email != "" && app.Email != query.Email {
			continue
		}
		out = append(out, *app.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (s *memStore) CreateApplication(ctx context.Context, app *models.LoanApplication) error {
	if err := s.injected("CreateApplication"); err != nil {
		return err
	}
	app.ID = s.data.id()
	if app.Version == 0 {
		app.Version = 1
	}
	s.data.apps[app.ID] = app.Clone()
	return nil
}

func (s *memStore) SaveApplication(ctx context.Context, app *models.LoanApplication) error {
	if err := s.injected("SaveApplication"); err != nil {
		return err
	}
	stored, ok := s.data.apps[app.ID]
	if !ok || s.data.deleted[app.ID] {
		return repository.ErrNotFound
	}
	if stored.Version != app.Version {
		return fmt.Errorf("%w: application %d at version %d", repository.ErrConflict, app.ID, app.Version)
	}
	app.Version++
	s.data.apps[app.ID] = app.Clone()
	return nil
}

func (s *memStore) SoftDeleteApplication(ctx context.Context, id uint) error {
	if _, ok := s.data.apps[id]; !ok || s.data.deleted[id] {
		return repository.ErrNotFound
	}
	s.data.deleted[id] = true
	return nil
}

func (s *memStore) DeleteAggregate(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(tx repository.LoanStore) error {
		d := tx.(*memStore).data
		if _, ok := d.apps[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.apps, id)
		delete(d.deleted, id)
		delete(d.factors, id)
		kept := d.audit[:0]
		for _, e := range d.audit {
			if e.LoanApplicationID != id {
				kept = append(kept, e)
			}
		}
		d.audit = kept
		for docID, doc := range d.docs {
			if doc.LoanApplicationID == id {
				delete(d.docs, docID)
			}
		}
		return nil
	})
}

func (s *memStore) ReplaceRiskFactors(ctx context.Context, applicationID uint, factors []models.RiskFactor) error {
	if err := s.injected("ReplaceRiskFactors"); err != nil {
		return err
	}
	stored := make([]models.RiskFactor, len(factors))
	for i, f := range factors {
		f.ID = s.data.id()
		f.LoanApplicationID = applicationID
		stored[i] = f
	}
	s.data.factors[applicationID] = stored
	return nil
}

func (s *memStore) ListRiskFactors(ctx context.Context, applicationID uint) ([]models.RiskFactor, error) {
	return append([]models.RiskFactor(nil), s.data.factors[applicationID]...), nil
}

func (s *memStore) AppendAudit(ctx context.Context, entry *models.AuditEntry) error {
	if err := s.injected("AppendAudit"); err != nil {
		return err
	}
	entry.ID = s.data.id()
	s.data.audit = append(s.data.audit, *entry)
	return nil
}

func (s *memStore) ListAudit(ctx context.Context, applicationID uint) ([]models.AuditEntry, error) {
	var out []models.AuditEntry
	for _, e := range s.data.audit {
		if e.LoanApplicationID == applicationID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memStore) CreateDocument(ctx context.Context, doc *models.LoanDocument) error {
	doc.ID = s.data.id()
	cp := *doc
	s.data.docs[doc.ID] = &cp
	return nil
}

func (s *memStore) FindDocument(ctx context.Context, id uint) (*models.LoanDocument, error) {
	doc, ok := s.data.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (s *memStore) SaveDocument(ctx context.Context, doc *models.LoanDocument) error {
	cp := *doc
	s.data.docs[doc.ID] = &cp
	return nil
}

func (s *memStore) ListDocuments(ctx context.Context, applicationID uint) ([]models.LoanDocument, error) {
	var out []models.LoanDocument
	for _, doc := range s.data.docs {
		if doc.LoanApplicationID == applicationID {
			out = append(out, *doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) CountVerifiedDocuments(ctx context.Context, applicationID uint) (int64, error) {
	var n int64
	for _, doc := range s.data.docs {
		if doc.LoanApplicationID == applicationID && doc.Verified {
			n++
		}
	}
	return n, nil
}

func (s *memStore) CountTotalDocuments(ctx context.Context, applicationID uint) (int64, error) {
	var n int64
	for _, doc := range s.data.docs {
		if doc.LoanApplicationID == applicationID {
			n++
		}
	}
	return n, nil
}

// auditActions returns the action codes of one application in trail order
func (s *memStore) auditActions(t testing.TB, applicationID uint) []string {
	t.Helper()
	entries, _ := s.ListAudit(context.Background(), applicationID)
	actions := make([]string, len(entries))
	for i, e := range entries {
		actions[i] = e.Action
	}
	return actions
}
