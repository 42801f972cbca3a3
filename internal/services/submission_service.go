package services

import (
	"context"
	"regexp"
	"strings"

	"apply4me/internal/config"
	"apply4me/internal/domain/submission"
	"apply4me/internal/metrics"
	"apply4me/internal/repository"
	apperrors "apply4me/pkg/errors"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const defaultResumeName = "resume.bin"

// ResumeUpload carries a buffered attachment from the ingestion endpoint.
type ResumeUpload struct {
	Data         []byte
	ContentType  string
	OriginalName string
}

// SubmitInput is the validated-to-be shape of a public form submission.
type SubmitInput struct {
	Name    string
	Email   string
	Mobile  string
	Message string
	Resume  *ResumeUpload
}

type SubmissionService struct {
	repo   repository.SubmissionRepository
	upload config.UploadConfig
	paging config.PagingConfig
}

func NewSubmissionService(repo repository.SubmissionRepository, upload config.UploadConfig, paging config.PagingConfig) *SubmissionService {
	return &SubmissionService{repo: repo, upload: upload, paging: paging}
}

// Create validates and persists a submission. Validation order: required
// fields first, then email shape. Mobile and message are accepted as-is.
func (s *SubmissionService) Create(ctx context.Context, in SubmitInput) (submission.Submission, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	if name == "" || email == "" {
		return submission.Submission{}, apperrors.Invalid("name and email are required")
	}
	if !emailPattern.MatchString(email) {
		return submission.Submission{}, apperrors.Invalid("invalid email")
	}

	sub := submission.Submission{
		Name:  name,
		Email: email,
	}
	if m := strings.TrimSpace(in.Mobile); m != "" {
		sub.Mobile = &m
	}
	if m := strings.TrimSpace(in.Message); m != "" {
		sub.Message = &m
	}

	if in.Resume != nil {
		size := int64(len(in.Resume.Data))
		if size > s.upload.MaxResumeBytes {
			return submission.Submission{}, apperrors.ErrTooLarge
		}
		contentType := in.Resume.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		origName := in.Resume.OriginalName
		if origName == "" {
			origName = defaultResumeName
		}
		sub.ResumeData = in.Resume.Data
		sub.ResumeContentType = &contentType
		sub.ResumeOriginalName = &origName
		sub.ResumeSize = &size
	}

	if err := s.repo.Create(ctx, &sub); err != nil {
		return submission.Submission{}, err
	}
	metrics.RecordSubmission(in.Resume != nil)
	return sub, nil
}

// List clamps paging inputs to the configured bounds and returns one page
// plus the total count of rows matching the search filter.
func (s *SubmissionService) List(ctx context.Context, page, pageSize int, search string) ([]submission.Submission, int64, int, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.paging.DefaultPageSize
	}
	if pageSize > s.paging.MaxPageSize {
		pageSize = s.paging.MaxPageSize
	}

	items, total, err := s.repo.List(ctx, repository.ListParams{
		Page:     page,
		PageSize: pageSize,
		Search:   search,
	})
	if err != nil {
		return nil, 0, 0, 0, err
	}
	return items, total, page, pageSize, nil
}

func (s *SubmissionService) GetByID(ctx context.Context, id int64) (submission.Submission, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SubmissionService) GetResume(ctx context.Context, id int64) (submission.Resume, error) {
	return s.repo.GetResume(ctx, id)
}

// Ping exposes store liveness for the health endpoint.
func (s *SubmissionService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
