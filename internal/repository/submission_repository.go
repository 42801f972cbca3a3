package repository

import (
	"context"
	"errors"
	"strings"

	"apply4me/internal/domain/submission"
	apperrors "apply4me/pkg/errors"

	"gorm.io/gorm"
)

// summaryColumns is every Submission column except the blob. Listing and
// detail queries must never pull resume bytes off the wire.
var summaryColumns = []string{
	"id", "name", "email", "mobile", "message",
	"resume_content_type", "resume_original_name", "resume_size", "created_at",
}

type GormSubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

func (r *GormSubmissionRepository) Create(ctx context.Context, s *submission.Submission) error {
	if s.Name == "" || s.Email == "" {
		return apperrors.Invalid("name and email are required")
	}
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return err
	}
	return nil
}

func (r *GormSubmissionRepository) List(ctx context.Context, p ListParams) ([]submission.Submission, int64, error) {
	var items []submission.Submission
	var total int64

	q := r.db.WithContext(ctx).Model(&submission.Submission{})
	if search := strings.TrimSpace(p.Search); search != "" {
		// LOWER(...) LIKE keeps the match case-insensitive on both the
		// sqlite and postgres dialects.
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(mobile) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (p.Page - 1) * p.PageSize
	err := q.Select(summaryColumns).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(p.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormSubmissionRepository) GetByID(ctx context.Context, id int64) (submission.Submission, error) {
	var s submission.Submission
	err := r.db.WithContext(ctx).
		Select(summaryColumns).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return submission.Submission{}, apperrors.ErrNotFound
		}
		return submission.Submission{}, err
	}
	return s, nil
}

func (r *GormSubmissionRepository) GetResume(ctx context.Context, id int64) (submission.Resume, error) {
	var s submission.Submission
	err := r.db.WithContext(ctx).
		Select("resume_data", "resume_content_type", "resume_original_name", "resume_size").
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return submission.Resume{}, apperrors.ErrNotFound
		}
		return submission.Resume{}, err
	}

	// A row without an attachment is indistinguishable from a missing row
	// at the API contract level.
	if len(s.ResumeData) == 0 {
		return submission.Resume{}, apperrors.ErrNotFound
	}

	res := submission.Resume{
		Data: s.ResumeData,
		Size: int64(len(s.ResumeData)),
	}
	if s.ResumeContentType != nil && *s.ResumeContentType != "" {
		res.ContentType = *s.ResumeContentType
	}
	if s.ResumeOriginalName != nil && *s.ResumeOriginalName != "" {
		res.OriginalName = *s.ResumeOriginalName
	}
	if s.ResumeSize != nil && *s.ResumeSize > 0 {
		res.Size = *s.ResumeSize
	}
	return res, nil
}

func (r *GormSubmissionRepository) Ping(ctx context.Context) error {
	var one int
	return r.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error
}
