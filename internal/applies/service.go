package applies

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"resume-tailor/internal/history"
	"resume-tailor/internal/mailer"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/shared/util"
)

const (
	DefaultSubject             = "Job Application"
	DefaultBody                = "Please find attached my resume."
	DefaultFilename            = "Resume.pdf"
	DefaultCoverLetterFilename = "CoverLetter.pdf"

	pdfContentType = "application/pdf"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrMisconfigured = errors.New("mail transport not configured")
)

// Sender delivers a composed message.
type Sender interface {
	Send(ctx context.Context, msg mailer.Message) (mailer.Receipt, error)
}

// StatusUpdater records the delivery outcome on a history entry.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id string, status history.Status) (history.Entry, error)
}

// Renderer turns plain text into PDF bytes.
type Renderer interface {
	Resume(text string) ([]byte, error)
	CoverLetter(text string) ([]byte, error)
}

// Request is an application email. A resume attachment comes from PDFBase64,
// or from ResumeText rendered on the server.
type Request struct {
	TargetEmail          string `validate:"required,email"`
	Subject              string
	EmailBody            string
	PDFBase64            string
	Filename             string
	CoverLetterPDFBase64 string
	CoverLetterFilename  string
	EntryID              string
	ResumeText           string
	CoverLetterText      string
}

type Result struct {
	MessageID string
	Fallback  bool
}

// Service coordinates the send pipeline.
type Service struct {
	Mailer   Sender
	History  StatusUpdater
	Renderer Renderer

	validate *validator.Validate
}

func NewService(m Sender, h StatusUpdater, r Renderer) *Service {
	return &Service{Mailer: m, History: h, Renderer: r, validate: validator.New()}
}

// Send emails the resume (and optional cover letter) to the target address and
// records the outcome on the history entry when one is given. A failed history
// update never changes the delivery result.
func (s *Service) Send(ctx context.Context, req Request) (Result, error) {
	if err := s.validator().Struct(req); err != nil {
		return Result{}, fmt.Errorf("%w: targetEmail must be a valid email address", ErrInvalidInput)
	}
	if s.Mailer == nil {
		return Result{}, ErrMisconfigured
	}

	attachments, err := s.attachments(req)
	if err != nil {
		return Result{}, err
	}

	msg := mailer.Message{
		To:          strings.TrimSpace(req.TargetEmail),
		Subject:     orDefault(req.Subject, DefaultSubject),
		Body:        orDefault(req.EmailBody, DefaultBody),
		Attachments: attachments,
	}

	receipt, err := s.Mailer.Send(ctx, msg)
	if err != nil {
		metrics.IncSendFailed()
		telemetry.Error("send.failed", map[string]any{
			"entry_id": req.EntryID,
			"error":    err,
		})
		s.record(ctx, req.EntryID, history.StatusFailure)
		return Result{}, err
	}

	metrics.IncSendSucceeded()
	telemetry.Info("send.complete", map[string]any{
		"entry_id":   req.EntryID,
		"message_id": receipt.MessageID,
		"endpoint":   receipt.Endpoint.String(),
		"fallback":   receipt.Fallback,
	})
	s.record(ctx, req.EntryID, history.StatusSuccess)
	return Result{MessageID: receipt.MessageID, Fallback: receipt.Fallback}, nil
}

func (s *Service) attachments(req Request) ([]mailer.Attachment, error) {
	resume, err := s.document(req.PDFBase64, req.ResumeText, "pdfBase64", s.renderResume)
	if err != nil {
		return nil, err
	}
	if resume == nil {
		return nil, fmt.Errorf("%w: pdfBase64 or resumeText is required", ErrInvalidInput)
	}
	out := []mailer.Attachment{{
		Filename:    attachmentName(req.Filename, DefaultFilename),
		ContentType: pdfContentType,
		Data:        resume,
	}}

	letter, err := s.document(req.CoverLetterPDFBase64, req.CoverLetterText, "coverLetterPdfBase64", s.renderCoverLetter)
	if err != nil {
		return nil, err
	}
	if letter != nil {
		out = append(out, mailer.Attachment{
			Filename:    attachmentName(req.CoverLetterFilename, DefaultCoverLetterFilename),
			ContentType: pdfContentType,
			Data:        letter,
		})
	}
	return out, nil
}

// document prefers supplied base64 PDF bytes over text to render. It returns
// nil when neither is present.
func (s *Service) document(b64, text, field string, render func(string) ([]byte, error)) ([]byte, error) {
	if strings.TrimSpace(b64) != "" {
		data, err := decodeBase64(b64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not valid base64", ErrInvalidInput, field)
		}
		return data, nil
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	data, err := render(text)
	if err != nil {
		return nil, fmt.Errorf("render attachment: %w", err)
	}
	return data, nil
}

func (s *Service) renderResume(text string) ([]byte, error) {
	if s.Renderer == nil {
		return nil, errors.New("no renderer configured")
	}
	return s.Renderer.Resume(text)
}

func (s *Service) renderCoverLetter(text string) ([]byte, error) {
	if s.Renderer == nil {
		return nil, errors.New("no renderer configured")
	}
	return s.Renderer.CoverLetter(text)
}

func (s *Service) record(ctx context.Context, entryID string, status history.Status) {
	if entryID == "" || s.History == nil {
		return
	}
	if _, err := s.History.UpdateStatus(ctx, entryID, status); err != nil {
		telemetry.Warn("history.update_failed", map[string]any{
			"entry_id": entryID,
			"status":   string(status),
			"error":    err,
		})
	}
}

func (s *Service) validator() *validator.Validate {
	if s.validate == nil {
		s.validate = validator.New()
	}
	return s.validate
}

// decodeBase64 accepts standard base64 and tolerates a data URL prefix.
func decodeBase64(v string) ([]byte, error) {
	v = strings.TrimSpace(v)
	if i := strings.Index(v, ";base64,"); i >= 0 && strings.HasPrefix(v, "data:") {
		v = v[i+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(v)
}

// attachmentName sanitizes a client-supplied file name, falling back to def.
func attachmentName(name, def string) string {
	clean, err := util.SanitizeFileName(name)
	if err != nil {
		return def
	}
	return clean
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
