package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"apply4me/internal/services"
	"apply4me/internal/transport/httpdto"
	apperrors "apply4me/pkg/errors"
	"apply4me/pkg/logger"

	"github.com/gin-gonic/gin"
)

// formOverhead is slack on top of the resume cap for the non-file fields and
// multipart framing when capping the request body.
const formOverhead = 1 << 20

type SubmissionHandler struct {
	service        *services.SubmissionService
	log            *logger.Logger
	maxResumeBytes int64
	detailed       bool
}

func NewSubmissionHandler(service *services.SubmissionService, log *logger.Logger, maxResumeBytes int64, detailed bool) *SubmissionHandler {
	return &SubmissionHandler{
		service:        service,
		log:            log,
		maxResumeBytes: maxResumeBytes,
		detailed:       detailed,
	}
}

// Submit handles the public application form: multipart fields name, email,
// mobile, message and an optional single file in "resume". The body is
// capped before any form parsing so oversize uploads fail fast instead of
// being buffered and then rejected.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxResumeBytes+formOverhead)

	if err := c.Request.ParseMultipartForm(h.maxResumeBytes + formOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondError(c, apperrors.ErrTooLarge)
			return
		}
		h.respondError(c, apperrors.Invalid("invalid form data"))
		return
	}

	in := services.SubmitInput{
		Name:    c.PostForm("name"),
		Email:   c.PostForm("email"),
		Mobile:  c.PostForm("mobile"),
		Message: c.PostForm("message"),
	}

	fileHeader, err := c.FormFile("resume")
	switch {
	case err == nil:
		if fileHeader.Size > h.maxResumeBytes {
			h.respondError(c, apperrors.ErrTooLarge)
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			h.respondError(c, err)
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			h.respondError(c, err)
			return
		}
		in.Resume = &services.ResumeUpload{
			Data:         data,
			ContentType:  fileHeader.Header.Get("Content-Type"),
			OriginalName: fileHeader.Filename,
		}
	case errors.Is(err, http.ErrMissingFile):
		// no attachment
	default:
		h.respondError(c, apperrors.Invalid("invalid resume upload"))
		return
	}

	created, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.SubmitResponse{
		OK:        true,
		ID:        created.ID,
		CreatedAt: created.CreatedAt,
	})
}

// List returns one offset-mode page of submission summaries.
func (h *SubmissionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "0"))
	search := c.Query("search")

	items, total, page, pageSize, err := h.service.List(c.Request.Context(), page, pageSize, search)
	if err != nil {
		h.respondError(c, err)
		return
	}

	summaries := make([]httpdto.SubmissionSummary, 0, len(items))
	for _, s := range items {
		summaries = append(summaries, httpdto.NewSubmissionSummary(s))
	}

	c.JSON(http.StatusOK, httpdto.ListResponse{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Items:    summaries,
	})
}

// Detail returns a single submission without the stored bytes.
func (h *SubmissionHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("Invalid id"))
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSubmissionDetail(s))
}

// Resume streams the stored attachment. Unknown id and attachment-less row
// are the same 404 at this contract level.
func (h *SubmissionHandler) Resume(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("Invalid id"))
		return
	}

	res, err := h.service.GetResume(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	contentType := res.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	filename := res.OriginalName
	if filename == "" {
		filename = fmt.Sprintf("resume-%d.bin", id)
	}
	// Strip embedded quotes so the filename cannot break out of the header.
	filename = strings.ReplaceAll(filename, `"`, "")

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Length", strconv.FormatInt(int64(len(res.Data)), 10))
	c.Data(http.StatusOK, contentType, res.Data)
}

func (h *SubmissionHandler) respondError(c *gin.Context, err error) {
	status, body := httpdto.ErrorStatus(err, h.detailed)
	if status == http.StatusInternalServerError {
		h.log.WithContext(c.Request.Context()).Sugar().Errorf("request failed: %v", err)
	}
	c.JSON(status, body)
}
