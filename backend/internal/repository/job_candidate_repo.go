package repository

import (
	"context"

	"gorm.io/gorm"

	"peopledesk/backend/internal/model"
)

// JobCandidateRepository 候选人数据访问接口
type JobCandidateRepository interface {
	Create(ctx context.Context, c *model.JobCandidate) error
	GetByID(ctx context.Context, id int32) (*model.JobCandidate, error)
	ListPaged(ctx context.Context, offset, limit int) ([]model.JobCandidate, int64, error)
	Update(ctx context.Context, c *model.JobCandidate) error
	Delete(ctx context.Context, id int32) error
}

type jobCandidateRepo struct {
	db *gorm.DB
}

// NewJobCandidateRepo 创建 JobCandidateRepository 实例
func NewJobCandidateRepo(db *gorm.DB) JobCandidateRepository {
	return &jobCandidateRepo{db: db}
}

func (r *jobCandidateRepo) Create(ctx context.Context, c *model.JobCandidate) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *jobCandidateRepo) GetByID(ctx context.Context, id int32) (*model.JobCandidate, error) {
	var c model.JobCandidate
	err := r.db.WithContext(ctx).
		Where("job_candidate_id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *jobCandidateRepo) ListPaged(ctx context.Context, offset, limit int) ([]model.JobCandidate, int64, error) {
	var total int64
	db := r.db.WithContext(ctx).Model(&model.JobCandidate{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]model.JobCandidate, 0, limit)
	if total == 0 {
		return rows, 0, nil
	}

	err := db.Order("job_candidate_id ASC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

// Update 整行覆盖；行不存在时返回 gorm.ErrRecordNotFound
func (r *jobCandidateRepo) Update(ctx context.Context, c *model.JobCandidate) error {
	result := r.db.WithContext(ctx).
		Model(&model.JobCandidate{}).
		Where("job_candidate_id = ?", c.JobCandidateID).
		Updates(map[string]interface{}{
			"employee_id":   c.EmployeeID,
			"name":          c.Name,
			"email":         c.Email,
			"resume":        c.Resume,
			"last_modified": c.LastModified,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *jobCandidateRepo) Delete(ctx context.Context, id int32) error {
	result := r.db.WithContext(ctx).
		Where("job_candidate_id = ?", id).
		Delete(&model.JobCandidate{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
