package user

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rampagehq/userapi/pipeline"
	"github.com/rampagehq/userapi/pkg/validator"
)

const verificationCodeTTL = 15 * time.Minute

// Service holds the account business logic invoked by terminal handlers.
type Service struct {
	storage  Storage
	activity ActivityReader
	mailer   Mailer
	exporter Exporter
	log      *slog.Logger
}

// NewService wires the account handlers to their collaborators.
func NewService(storage Storage, activity ActivityReader, mailer Mailer, exporter Exporter, log *slog.Logger) *Service {
	if storage == nil {
		panic("user: storage is required")
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		storage:  storage,
		activity: activity,
		mailer:   mailer,
		exporter: exporter,
		log:      log,
	}
}

func (s *Service) getProfile(ctx context.Context, rc *pipeline.RequestContext) (pipeline.HandlerResult, error) {
	acct, err := s.storage.Account(ctx, rc.Subject.ID)
	if err != nil {
		return pipeline.HandlerResult{}, err
	}
	return pipeline.HandlerResult{
		Message: "Profile retrieved successfully",
		Data:    acct.profile(),
	}, nil
}

func (s *Service) updateProfile(ctx context.Context, rc *pipeline.RequestContext) (pipeline.HandlerResult, error) {
	if len(rc.Fields) == 0 {
		return pipeline.HandlerResult{}, validator.ValidationErrors{
			{Field: "payload", Message: "no updatable fields provided"},
		}
	}

	acct, err := s.storage.UpdateProfile(ctx, rc.Subject.ID, rc.Fields)
	if err != nil {
		return pipeline.HandlerResult{}, err
	}
	return pipeline.HandlerResult{
		Message: "Profile updated successfully",
		Data:    acct.profile(),
	}, nil
}

func (s *Service) changePassword(ctx context.Context, rc *pipeline.RequestContext) (pipeline.HandlerResult, error) {
	acct, err := s.storage.Account(ctx, rc.Subject.ID)
	if err != nil {
		return pipeline.HandlerResult{}, err
	}

	if err := s.checkPassword(acct, rc.Field("currentPassword"), "currentPassword"); err != nil {
		return pipeline.HandlerResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rc.Field("newPassword")), bcrypt.DefaultCost)
	if err != nil {
		return pipeline.HandlerResult{}, fmt.Errorf("hash new password: %w", err)
	}

	if err := s.storage.UpdatePassword(ctx, rc.Subject.ID, string(hash)); err != nil {
		return pipeline.HandlerResult{}, err
	}
	return pipeline.HandlerResult{Message: "Password changed successfully"}, nil
}

func (s *Service) dashboard(ctx context.Context, rc *pipeline.RequestContext) (pipeline.HandlerResult, error) {
	timeframe := rc.Field("timeframe")
	if timeframe == "" {
		timeframe = "month"
	}

	acct, err := s.storage.Account(ctx, rc.Subject.ID)
	if err != nil {
		return pipeline.HandlerResult{}, err
	}

	since := timeframeCutoff(timeframe, time.Now())
	total, byAction, err := s.activitySince(ctx, rc.Subject.ID, since)
	if err != nil {
		return pipeline.HandlerResult{}, err
	}

	return pipeline.HandlerResult{
		Message: "Dashboard retrieved successfully",
		Data: map[string]any{
			"profile":   acct.profile(),
			"timeframe": timeframe,
			"activity": map[string]any{
				"total":    total,
				"byAction": byAction,
			},
		},
	}, nil
}

func (s *Service) updatePreferences(ctx context.Context, rc *pipeline.RequestContext) (pipeline.HandlerResult, error) {
	if len(rc.Fields) == 0 {
		return pipeline.HandlerResult{}, validator.ValidationErrors{
			{Field: "payload", Message: "no updatable fields provided"},
		}
	}

	acct, err := s.storage.UpdatePreferences(ctx, rc.Subject.ID, rc.Fields)
	if err != nil {
		return pipeline.HandlerResult{}, err
	}
	return pipeline.HandlerResult{
		Message: "Preferences updated successfully",
		Data:    acct.Preferences,
	}, nil
}

func (s *Service) deleteAccount(ctx context.Context, rc *pipeline.RequestContext) (pipeline.HandlerResult, error) {
	acct, err := s.storage.Account(ctx, rc.Subject.ID)
	if err != nil {
		return pipeline.HandlerResult{}, err
	}

	if err := s.checkPassword(acct, rc.Field("password"), "password"); err != nil {
		return pipeline.HandlerResult{}, err
	}

	if err := s.storage.SetStatus(ctx, rc.Subject.ID, pipeline.StatusPendingDeletion, rc.Field("reason")); err != nil {
		return pipeline.HandlerResult{}, err
	}
	return pipeline.HandlerResult{Message: "Account scheduled for deletion"}, nil
}

func (s *Service) stats(ctx context.Context, rc *pipeline.RequestContext) (pipeline.HandlerResult, error) {
	period := rc.Field("period")
	if period == "" {
		period = "30d"
	}

	since := periodCutoff(period, time.Now())
	total, byAction, err := s.activitySince(ctx, rc.Subject.ID, since)
	if err != nil {
		return pipeline.HandlerResult{}, err
	}

	return pipeline.HandlerResult{
		Message: "Stats retrieved successfully",
		Data: map[string]any{
			"period":       period,
			"since":        since,
			"totalActions": total,
			"byAction":     byAction,
		},
	}, nil
}

func (s *Service) activitySummary(ctx context.Context, rc *pipeline.RequestContext) (pipeline.HandlerResult, error) {
	// No validation stage on this route; unknown values fall back to the
	// default timeframe.
	timeframe := rc.Query("timeframe", "month")
	switch timeframe {
	case "week", "month", "year":
	default:
		timeframe = "month"
	}

	since := timeframeCutoff(timeframe, time.Now())
	total, byAction, err := s.activitySince(ctx, rc.Subject.ID, since)
	if err != nil {
		return pipeline.HandlerResult{}, err
	}

	return pipeline.HandlerResult{
		Message: "Activity summary retrieved successfully",
		Data: map[string]any{
			"timeframe": timeframe,
			"since":     since,
			"total":     total,
			"byAction":  byAction,
		},
	}, nil
}

func (s *Service) exportData(ctx context.Context, rc *pipeline.RequestContext) (pipeline.HandlerResult, error) {
	if s.exporter == nil {
		return pipeline.HandlerResult{}, errors.New("data export is not configured")
	}

	requestID, err := s.exporter.Enqueue(ctx, rc.Subject.ID)
	if err != nil {
		return pipeline.HandlerResult{}, fmt.Errorf("enqueue export: %w", err)
	}

	return pipeline.HandlerResult{
		Message: "Data export requested",
		Data: map[string]string{
			"requestId": requestID,
			"status":    "pending",
		},
	}, nil
}

func (s *Service) verifyEmail(ctx context.Context, rc *pipeline.RequestContext) (pipeline.HandlerResult, error) {
	acct, err := s.storage.Account(ctx, rc.Subject.ID)
	if err != nil {
		return pipeline.HandlerResult{}, err
	}

	if acct.Status != pipeline.StatusUnverified {
		return pipeline.HandlerResult{Message: "Email is already verified"}, nil
	}

	code := rc.Field("code")
	if acct.VerificationCode == "" || acct.VerificationCode != code {
		return pipeline.HandlerResult{}, validator.ValidationErrors{
			{Field: "code", Message: "verification code is invalid"},
		}
	}
	if time.Now().After(acct.VerificationCodeExpiresAt) {
		return pipeline.HandlerResult{}, validator.ValidationErrors{
			{Field: "code", Message: "verification code has expired"},
		}
	}

	if err := s.storage.ClearVerificationCode(ctx, rc.Subject.ID); err != nil {
		return pipeline.HandlerResult{}, err
	}
	if err := s.storage.SetStatus(ctx, rc.Subject.ID, pipeline.StatusActive, ""); err != nil {
		return pipeline.HandlerResult{}, err
	}
	return pipeline.HandlerResult{Message: "Email verified successfully"}, nil
}

func (s *Service) resendVerification(ctx context.Context, rc *pipeline.RequestContext) (pipeline.HandlerResult, error) {
	acct, err := s.storage.Account(ctx, rc.Subject.ID)
	if err != nil {
		return pipeline.HandlerResult{}, err
	}

	if acct.Status != pipeline.StatusUnverified {
		return pipeline.HandlerResult{Message: "Email is already verified"}, nil
	}
	if s.mailer == nil {
		return pipeline.HandlerResult{}, errors.New("verification mail is not configured")
	}

	code, err := newVerificationCode()
	if err != nil {
		return pipeline.HandlerResult{}, err
	}
	if err := s.storage.SetVerificationCode(ctx, rc.Subject.ID, code, time.Now().Add(verificationCodeTTL)); err != nil {
		return pipeline.HandlerResult{}, err
	}
	if err := s.mailer.SendVerificationCode(ctx, acct.Email, code); err != nil {
		return pipeline.HandlerResult{}, fmt.Errorf("send verification code: %w", err)
	}

	return pipeline.HandlerResult{Message: "Verification code sent"}, nil
}

func (s *Service) deactivate(ctx context.Context, rc *pipeline.RequestContext) (pipeline.HandlerResult, error) {
	acct, err := s.storage.Account(ctx, rc.Subject.ID)
	if err != nil {
		return pipeline.HandlerResult{}, err
	}

	if err := s.checkPassword(acct, rc.Field("password"), "password"); err != nil {
		return pipeline.HandlerResult{}, err
	}

	if err := s.storage.SetStatus(ctx, rc.Subject.ID, pipeline.StatusDeactivated, rc.Field("reason")); err != nil {
		return pipeline.HandlerResult{}, err
	}
	return pipeline.HandlerResult{Message: "Account deactivated"}, nil
}

// checkPassword compares the presented password against the account's hash.
// A mismatch is a field error on the presenting field, not an auth failure:
// the subject is already authenticated, the payload is wrong.
func (s *Service) checkPassword(acct *Account, presented, field string) error {
	err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(presented))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return validator.ValidationErrors{
			{Field: field, Message: "password is incorrect"},
		}
	}
	return fmt.Errorf("compare password: %w", err)
}

func (s *Service) activitySince(ctx context.Context, subjectID string, since time.Time) (int64, map[string]int64, error) {
	if s.activity == nil {
		return 0, map[string]int64{}, nil
	}

	total, err := s.activity.Total(ctx, subjectID, since)
	if err != nil {
		return 0, nil, fmt.Errorf("activity total: %w", err)
	}
	byAction, err := s.activity.CountByAction(ctx, subjectID, since)
	if err != nil {
		return 0, nil, fmt.Errorf("activity by action: %w", err)
	}
	return total, byAction, nil
}

func timeframeCutoff(timeframe string, now time.Time) time.Time {
	switch timeframe {
	case "week":
		return now.AddDate(0, 0, -7)
	case "year":
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

func periodCutoff(period string, now time.Time) time.Time {
	switch period {
	case "7d":
		return now.AddDate(0, 0, -7)
	case "90d":
		return now.AddDate(0, 0, -90)
	case "1y":
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, 0, -30)
	}
}

func newVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
