package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoanStore is the persistence boundary of the loan application aggregate:
// the application row plus its risk factors, audit entries and documents,
// all keyed by the application ID.
type LoanStore interface {
	LoadApplication(ctx context.Context, id uint) (*models.LoanApplication, error)
	FindByApplicationID(ctx context.Context, applicationID string) (*models.LoanApplication, error)
	ListApplications(ctx context.Context, query *ApplicationQuery) ([]models.LoanApplication, int64, error)
	CreateApplication(ctx context.Context, app *models.LoanApplication) error
	SaveApplication(ctx context.Context, app *models.LoanApplication) error
	SoftDeleteApplication(ctx context.Context, id uint) error
	DeleteAggregate(ctx context.Context, id uint) error

	ReplaceRiskFactors(ctx context.Context, applicationID uint, factors []models.RiskFactor) error
	ListRiskFactors(ctx context.Context, applicationID uint) ([]models.RiskFactor, error)

	AppendAudit(ctx context.Context, entry *models.AuditEntry) error
	ListAudit(ctx context.Context, applicationID uint) ([]models.AuditEntry, error)

	CreateDocument(ctx context.Context, doc *models.LoanDocument) error
	FindDocument(ctx context.Context, id uint) (*models.LoanDocument, error)
	SaveDocument(ctx context.Context, doc *models.LoanDocument) error
	ListDocuments(ctx context.Context, applicationID uint) ([]models.LoanDocument, error)
	CountVerifiedDocuments(ctx context.Context, applicationID uint) (int64, error)
	CountTotalDocuments(ctx context.Context, applicationID uint) (int64, error)

	// Transaction runs fn against a store bound to one database transaction.
	// Every write made through tx commits together or not at all, and
	// LoadApplication takes a row lock for the rest of the transaction.
	Transaction(ctx context.Context, fn func(tx LoanStore) error) error
}

// ApplicationQuery extends ListQuery with application-specific filters
type ApplicationQuery struct {
	*ListQuery
	Status   string
	LoanType string
	Email    string
}

type loanStore struct {
	db   *gorm.DB
	inTx bool
}

// NewLoanStore creates a new gorm backed loan store
func NewLoanStore(db *gorm.DB) LoanStore {
	return &loanStore{db: db}
}

func (r *loanStore) Transaction(ctx context.Context, fn func(tx LoanStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&loanStore{db: tx, inTx: true})
	})
}

func (r *loanStore) LoadApplication(ctx context.Context, id uint) (*models.LoanApplication, error) {
	var app models.LoanApplication
	db := r.db.WithContext(ctx)
	if r.inTx {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := db.First(&app, id).Error; err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

func (r *loanStore) FindByApplicationID(ctx context.Context, applicationID string) (*models.LoanApplication, error) {
	var app models.LoanApplication
	err := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&app).Error
	if err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

func (r *loanStore) ListApplications(ctx context.Context, query *ApplicationQuery) ([]models.LoanApplication, int64, error) {
	var apps []models.LoanApplication
	var total int64

	if query == nil {
		query = &ApplicationQuery{}
	}
	if query.ListQuery == nil {
		query.ListQuery = NewListQuery()
	}
	if query.Page < 1 {
		query.Page = 1
	}

	db := r.db.WithContext(ctx).Model(&models.LoanApplication{})

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.LoanType != "" {
		db = db.Where("loan_type = ?", query.LoanType)
	}
	if query.Email != "" {
		db = db.Where("email = ?", query.Email)
	}
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("applicant_name ILIKE ? OR email ILIKE ? OR application_id ILIKE ?", search, search, search)
	}

	// Count on its own session so Count() does not alter the main query
	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order(query.Order("submitted_at DESC", applicationSortColumns))
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	if err := db.Find(&apps).Error; err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

var applicationSortColumns = map[string]bool{
	"submitted_at": true,
	"loan_amount":  true,
	"risk_score":   true,
	"status":       true,
	"credit_score": true,
}

func (r *loanStore) CreateApplication(ctx context.Context, app *models.LoanApplication) error {
	if app.Version == 0 {
		app.Version = 1
	}
	return r.db.WithContext(ctx).Create(app).Error
}

// SaveApplication writes every column of app guarded by its version. A
// mismatch means another writer committed first and yields ErrConflict.
func (r *loanStore) SaveApplication(ctx context.Context, app *models.LoanApplication) error {
	current := app.Version
	app.Version = current + 1

	res := r.db.WithContext(ctx).
		Model(app).
		Where("version = ?", current).
		Select("*").
		Omit("ID", "CreatedAt", "DeletedAt").
		Updates(app)
	if res.Error != nil {
		app.Version = current
		return res.Error
	}
	if res.RowsAffected == 0 {
		app.Version = current
		return fmt.Errorf("%w: application %d at version %d", ErrConflict, app.ID, current)
	}
	return nil
}

func (r *loanStore) SoftDeleteApplication(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.LoanApplication{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAggregate physically removes the application together with every
// row it owns. It is the only path that deletes audit entries.
func (r *loanStore) DeleteAggregate(ctx context.Context, id uint) error {
	purge := func(tx *gorm.DB) error {
		owned := []interface{}{&models.RiskFactor{}, &models.AuditEntry{}, &models.LoanDocument{}}
		for _, model := range owned {
			if err := tx.Where("loan_application_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		res := tx.Unscoped().Delete(&models.LoanApplication{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}

	if r.inTx {
		return purge(r.db.WithContext(ctx))
	}
	return r.db.WithContext(ctx).Transaction(purge)
}

func (r *loanStore) ReplaceRiskFactors(ctx context.Context, applicationID uint, factors []models.RiskFactor) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("loan_application_id = ?", applicationID).Delete(&models.RiskFactor{}).Error; err != nil {
		return err
	}
	if len(factors) == 0 {
		return nil
	}

	for i := range factors {
		factors[i].ID = 0
		factors[i].LoanApplicationID = applicationID
	}
	return db.Create(&factors).Error
}

func (r *loanStore) ListRiskFactors(ctx context.Context, applicationID uint) ([]models.RiskFactor, error) {
	var factors []models.RiskFactor
	err := r.db.WithContext(ctx).
		Where("loan_application_id = ?", applicationID).
		Order("id ASC").
		Find(&factors).Error
	return factors, err
}

func (r *loanStore) AppendAudit(ctx context.Context, entry *models.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *loanStore) ListAudit(ctx context.Context, applicationID uint) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := r.db.WithContext(ctx).
		Where("loan_application_id = ?", applicationID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *loanStore) CreateDocument(ctx context.Context, doc *models.LoanDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *loanStore) FindDocument(ctx context.Context, id uint) (*models.LoanDocument, error) {
	var doc models.LoanDocument
	if err := r.db.WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (r *loanStore) SaveDocument(ctx context.Context, doc *models.LoanDocument) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

func (r *loanStore) ListDocuments(ctx context.Context, applicationID uint) ([]models.LoanDocument, error) {
	var docs []models.LoanDocument
	err := r.db.WithContext(ctx).
		Where("loan_application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&docs).Error
	return docs, err
}

func (r *loanStore) CountVerifiedDocuments(ctx context.Context, applicationID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LoanDocument{}).
		Where("loan_application_id = ? AND verified = ?", applicationID, true).
		Count(&count).Error
	return count, err
}

func (r *loanStore) CountTotalDocuments(ctx context.Context, applicationID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LoanDocument{}).
		Where("loan_application_id = ?", applicationID).
		Count(&count).Error
	return count, err
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
