// Package approval implements the onboarding workflow: token issuance,
// admin notification and the one-shot approval transition.
package approval

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"assettrack/internal/mailer"
	"assettrack/internal/models"
	"assettrack/internal/repo"
)

// ErrNotify marks a failure to deliver the approval email. The token
// is already persisted when this is returned; callers decide whether
// the overall operation still counts as a success.
var ErrNotify = errors.New("approval notification failed")

// ProfileStore is the slice of the profile store this service needs.
type ProfileStore interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
	UpsertPending(ctx context.Context, id, email, token string) error
	ApproveByToken(ctx context.Context, token string) (*models.Profile, error)
	ApproveByID(ctx context.Context, id string) (*models.Profile, error)
}

type Service struct {
	profiles   ProfileStore
	mail       mailer.Mailer
	siteURL    string
	adminEmail string
	lg         *zap.SugaredLogger
}

func NewService(profiles ProfileStore, mail mailer.Mailer, siteURL, adminEmail string, lg *zap.SugaredLogger) *Service {
	return &Service{profiles: profiles, mail: mail, siteURL: siteURL, adminEmail: adminEmail, lg: lg}
}

// RequestResult reports what RequestApproval did.
type RequestResult struct {
	EmailSent       bool
	AlreadyApproved bool
}

// RequestApproval puts the profile into the pending state with a fresh
// single-use token and emails the admin an approval link. The token is
// durably written before any mail goes out; a mail failure leaves the
// token in place and is returned to the caller. Profiles that are
// already approved are left alone and no mail is sent.
func (s *Service) RequestApproval(ctx context.Context, userID, email string) (RequestResult, error) {
	existing, err := s.profiles.Get(ctx, userID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return RequestResult{}, err
	}
	if existing != nil && existing.Approved {
		return RequestResult{AlreadyApproved: true}, nil
	}

	token := uuid.NewString()
	if err := s.profiles.UpsertPending(ctx, userID, email, token); err != nil {
		return RequestResult{}, err
	}

	approveURL := fmt.Sprintf("%s/api/approve-user?token=%s", s.siteURL, url.QueryEscape(token))
	body := fmt.Sprintf(`<p>A new user signed up and requires approval:</p>
<ul>
  <li><b>Email:</b> %s</li>
  <li><b>User ID:</b> %s</li>
</ul>
<p>Approve this account:</p>
<p><a href="%s">%s</a></p>
<p>If this link has already been used, a new token will be generated on the next signup attempt.</p>`,
		email, userID, approveURL, approveURL)

	if err := s.mail.Send(ctx, s.adminEmail, "New user signup awaiting approval", body); err != nil {
		s.lg.Errorw("approval notification failed", "user_id", userID, "error", err)
		return RequestResult{}, fmt.Errorf("%w: %v", ErrNotify, err)
	}
	s.lg.Infow("approval requested", "user_id", userID, "email", email)
	return RequestResult{EmailSent: true}, nil
}

// ApproveToken consumes a token and returns the approved profile.
// repo.ErrInvalidToken means an unknown or already used token; any
// other error is a store failure the caller may retry.
func (s *Service) ApproveToken(ctx context.Context, token string) (*models.Profile, error) {
	p, err := s.profiles.ApproveByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	s.lg.Infow("profile approved", "email", p.Email, "role", p.Role)
	return p, nil
}

// ApproveUser is the administrative override keyed by profile id.
func (s *Service) ApproveUser(ctx context.Context, userID string) (*models.Profile, error) {
	p, err := s.profiles.ApproveByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.lg.Infow("profile approved by id", "email", p.Email, "role", p.Role)
	return p, nil
}
