package submission

import "time"

// Submission is one applicant contact attempt. Rows are immutable after
// creation: the core API only ever inserts and reads.
type Submission struct {
	ID      int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string  `gorm:"not null" json:"name"`
	Email   string  `gorm:"not null;index" json:"email"`
	Mobile  *string `json:"mobile,omitempty"`
	Message *string `json:"message,omitempty"`

	// Resume attachment. Either all four fields are populated or none are;
	// there is no partial attachment state.
	ResumeData         []byte  `json:"-"`
	ResumeContentType  *string `json:"resumeContentType,omitempty"`
	ResumeOriginalName *string `json:"resumeOriginalName,omitempty"`
	ResumeSize         *int64  `json:"resumeSize,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

// HasResume reports whether an attachment is stored. ResumeSize presence is
// the signal exposed to views that never see the raw bytes.
func (s *Submission) HasResume() bool {
	return s.ResumeSize != nil && *s.ResumeSize > 0
}

// Resume is the binary attachment with its companion metadata, fetched only
// by the download endpoint.
type Resume struct {
	Data         []byte
	ContentType  string
	OriginalName string
	Size         int64
}
