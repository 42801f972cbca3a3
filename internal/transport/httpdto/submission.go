package httpdto

import (
	"time"

	"apply4me/internal/domain/submission"
)

// SubmitResponse is returned by the public ingestion endpoint. It never
// carries the uploaded bytes back.
type SubmitResponse struct {
	OK        bool      `json:"ok"`
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmissionSummary is the listing projection: no blob, no content type,
// just enough for the admin table plus the derived resumePresent flag.
type SubmissionSummary struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Mobile             *string   `json:"mobile"`
	Message            *string   `json:"message"`
	ResumeSize         *int64    `json:"resumeSize"`
	ResumeOriginalName *string   `json:"resumeOriginalName"`
	ResumePresent      bool      `json:"resumePresent"`
	CreatedAt          time.Time `json:"createdAt"`
}

// SubmissionDetail adds the stored content type on top of the summary.
type SubmissionDetail struct {
	SubmissionSummary
	ResumeContentType *string `json:"resumeContentType"`
}

// ListResponse is the offset-mode page envelope. Total counts every row
// matching the search filter, independent of the page window.
type ListResponse struct {
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`
	Total    int64               `json:"total"`
	Items    []SubmissionSummary `json:"items"`
}

func NewSubmissionSummary(s submission.Submission) SubmissionSummary {
	return SubmissionSummary{
		ID:                 s.ID,
		Name:               s.Name,
		Email:              s.Email,
		Mobile:             s.Mobile,
		Message:            s.Message,
		ResumeSize:         s.ResumeSize,
		ResumeOriginalName: s.ResumeOriginalName,
		ResumePresent:      s.HasResume(),
		CreatedAt:          s.CreatedAt,
	}
}

func NewSubmissionDetail(s submission.Submission) SubmissionDetail {
	return SubmissionDetail{
		SubmissionSummary: NewSubmissionSummary(s),
		ResumeContentType: s.ResumeContentType,
	}
}
