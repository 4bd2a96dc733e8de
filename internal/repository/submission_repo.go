package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"trueflow/internal/domain"
)

var ErrSubmissionNotFound = errors.New("submission not found")

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

type submissionModel struct {
	ID int64 `gorm:"column:id;primaryKey"`

	FormType     string `gorm:"column:form_type;index"`
	FirstName    string `gorm:"column:first_name"`
	LastName     string `gorm:"column:last_name"`
	Email        string `gorm:"column:email;index"`
	Phone        string `gorm:"column:phone"`
	BusinessName string `gorm:"column:business_name"`

	Payload string `gorm:"column:payload"`

	Score         int    `gorm:"column:score"`
	Qualification string `gorm:"column:qualification;index"`

	CRMContactID string `gorm:"column:crm_contact_id"`
	CRMStatus    string `gorm:"column:crm_status"`
	CRMError     string `gorm:"column:crm_error"`

	EmailStatus string `gorm:"column:email_status"`
	EmailError  string `gorm:"column:email_error"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (submissionModel) TableName() string { return "submissions" }

// Migrate creates the submissions table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&submissionModel{})
}

func toDomainSubmission(m submissionModel) *domain.Submission {
	return &domain.Submission{
		ID:            m.ID,
		FormType:      domain.FormType(m.FormType),
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		Email:         m.Email,
		Phone:         m.Phone,
		BusinessName:  m.BusinessName,
		Payload:       m.Payload,
		Score:         m.Score,
		Qualification: domain.Qualification(m.Qualification),
		CRMContactID:  m.CRMContactID,
		CRMStatus:     domain.DeliveryStatus(m.CRMStatus),
		CRMError:      m.CRMError,
		EmailStatus:   domain.DeliveryStatus(m.EmailStatus),
		EmailError:    m.EmailError,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func fromDomainSubmission(s *domain.Submission) submissionModel {
	return submissionModel{
		ID:            s.ID,
		FormType:      string(s.FormType),
		FirstName:     s.FirstName,
		LastName:      s.LastName,
		Email:         s.Email,
		Phone:         s.Phone,
		BusinessName:  s.BusinessName,
		Payload:       s.Payload,
		Score:         s.Score,
		Qualification: string(s.Qualification),
		CRMContactID:  s.CRMContactID,
		CRMStatus:     string(s.CRMStatus),
		CRMError:      s.CRMError,
		EmailStatus:   string(s.EmailStatus),
		EmailError:    s.EmailError,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// Create journals an accepted submission and backfills the assigned ID.
func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	m := fromDomainSubmission(s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	s.ID = m.ID
	s.CreatedAt = m.CreatedAt
	s.UpdatedAt = m.UpdatedAt
	return nil
}

// UpdateDelivery records the downstream outcomes for a journaled submission.
func (r *SubmissionRepository) UpdateDelivery(ctx context.Context, id int64, s *domain.Submission) error {
	updates := map[string]any{
		"crm_contact_id": s.CRMContactID,
		"crm_status":     string(s.CRMStatus),
		"crm_error":      s.CRMError,
		"email_status":   string(s.EmailStatus),
		"email_error":    s.EmailError,
		"updated_at":     time.Now(),
	}
	return r.db.WithContext(ctx).
		Model(&submissionModel{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// GetByID returns one journaled submission.
func (r *SubmissionRepository) GetByID(ctx context.Context, id int64) (*domain.Submission, error) {
	var m submissionModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainSubmission(m), nil
}

// ListFilter narrows List results.
type ListFilter struct {
	Qualification string
	FormType      string
	Limit         int
	Offset        int
}

// List returns journaled submissions, newest first, with the total count
// for the same filter.
func (r *SubmissionRepository) List(ctx context.Context, filter ListFilter) ([]*domain.Submission, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&submissionModel{})
	if filter.Qualification != "" {
		q = q.Where("qualification = ?", filter.Qualification)
	}
	if filter.FormType != "" {
		q = q.Where("form_type = ?", filter.FormType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []submissionModel
	err := q.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]*domain.Submission, len(models))
	for i, m := range models {
		out[i] = toDomainSubmission(m)
	}
	return out, int(total), nil
}

// Stats summarizes the journal for the admin dashboard.
type Stats struct {
	Total           int            `json:"total"`
	ByQualification map[string]int `json:"by_qualification"`
	CRMByStatus     map[string]int `json:"crm_by_status"`
	EmailByStatus   map[string]int `json:"email_by_status"`
}

// GetStats counts submissions by qualification and delivery outcome.
func (r *SubmissionRepository) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		ByQualification: make(map[string]int),
		CRMByStatus:     make(map[string]int),
		EmailByStatus:   make(map[string]int),
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&submissionModel{}).Count(&total).Error; err != nil {
		return nil, err
	}
	stats.Total = int(total)

	type bucketCount struct {
		Bucket string
		Count  int
	}

	groups := []struct {
		column string
		dest   map[string]int
	}{
		{"qualification", stats.ByQualification},
		{"crm_status", stats.CRMByStatus},
		{"email_status", stats.EmailByStatus},
	}

	for _, g := range groups {
		var rows []bucketCount
		err := r.db.WithContext(ctx).
			Model(&submissionModel{}).
			Select(g.column + " AS bucket, COUNT(*) AS count").
			Group(g.column).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			g.dest[row.Bucket] = row.Count
		}
	}

	return stats, nil
}
