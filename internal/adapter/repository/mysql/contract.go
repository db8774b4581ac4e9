package mysql

import (
	"context"

	contractDomain "credconecta-backend/internal/domain/contract"

	"gorm.io/gorm"
)

type ContractRepository struct{ db *gorm.DB }

func NewContractRepository(db *gorm.DB) *ContractRepository { return &ContractRepository{db: db} }

func (r *ContractRepository) Create(ctx context.Context, c *contractDomain.Contract) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ContractRepository) Save(ctx context.Context, c *contractDomain.Contract) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ContractRepository) GetByID(ctx context.Context, id string) (*contractDomain.Contract, error) {
	var out contractDomain.Contract
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ContractRepository) GetByLoanID(ctx context.Context, loanID string) (*contractDomain.Contract, error) {
	var out contractDomain.Contract
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

// List returns contracts created by ownerID, or all contracts when ownerID is empty.
func (r *ContractRepository) List(ctx context.Context, ownerID string) ([]contractDomain.Contract, error) {
	var out []contractDomain.Contract
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if ownerID != "" {
		q = q.Where("created_by = ?", ownerID)
	}
	res := q.Find(&out)
	return out, res.Error
}

func (r *ContractRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&contractDomain.Contract{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ContractRepository) DeleteByLoanID(ctx context.Context, loanID string) error {
	return r.db.WithContext(ctx).Where("loan_id = ?", loanID).Delete(&contractDomain.Contract{}).Error
}

type TemplateRepository struct{ db *gorm.DB }

func NewTemplateRepository(db *gorm.DB) *TemplateRepository { return &TemplateRepository{db: db} }

func (r *TemplateRepository) Create(ctx context.Context, t *contractDomain.Template) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TemplateRepository) Save(ctx context.Context, t *contractDomain.Template) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*contractDomain.Template, error) {
	var out contractDomain.Template
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *TemplateRepository) List(ctx context.Context) ([]contractDomain.Template, error) {
	var out []contractDomain.Template
	res := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&out)
	return out, res.Error
}

func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&contractDomain.Template{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
