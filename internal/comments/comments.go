package comments

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/garage-vn/storefront/internal/api"
	"github.com/garage-vn/storefront/internal/session"
	pkgerrors "github.com/garage-vn/storefront/pkg/errors"
	"github.com/garage-vn/storefront/pkg/logger"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Form is a comment being submitted on a spare part's page. Unlike the cart
// quantity, comment content is validated client-side: an empty comment never
// reaches the server.
type Form struct {
	SparePartID string `json:"sparepart_id" validate:"required"`
	Content     string `json:"content" validate:"required,max=2000"`
}

// API is the slice of the storefront client the service needs.
type API interface {
	AddComment(ctx context.Context, req api.AddCommentRequest) (api.CommentResult, error)
}

// Service submits comments for authenticated visitors.
type Service struct {
	client API
	gate   *session.Gate
	logg   *logger.Logger
}

func NewService(client API, gate *session.Gate, logg *logger.Logger) *Service {
	return &Service{client: client, gate: gate, logg: logg}
}

// Submit validates and posts one comment.
func (s *Service) Submit(ctx context.Context, form Form) error {
	if s.gate != nil && !s.gate.Guard(ctx, session.DivertToLogin) {
		return pkgerrors.New(pkgerrors.CodeUnauthenticated, "comment blocked")
	}

	form.Content = strings.TrimSpace(form.Content)
	if err := validate.Struct(form); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid comment")
	}

	result, err := s.client.AddComment(ctx, api.AddCommentRequest{
		SparePartID: form.SparePartID,
		Content:     form.Content,
	})
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "comment submission failed", err)
		}
		return err
	}

	if result.Status >= 400 {
		msg := strings.TrimSpace(result.ErrMsg)
		if msg == "" {
			msg = "comment rejected"
		}
		return pkgerrors.New(pkgerrors.CodeBusiness, msg)
	}
	return nil
}
