package user

import (
	"context"
	"net/http"

	"github.com/rampagehq/userapi/pipeline"
	"github.com/rampagehq/userapi/pkg/token"
)

// Activity action tags, one per route.
const (
	ActionGetProfile         = "GET_PROFILE"
	ActionUpdateProfile      = "UPDATE_PROFILE"
	ActionChangePassword     = "CHANGE_PASSWORD"
	ActionGetDashboard       = "GET_DASHBOARD"
	ActionUpdatePreferences  = "UPDATE_PREFERENCES"
	ActionDeleteAccount      = "DELETE_ACCOUNT"
	ActionGetStats           = "GET_STATS"
	ActionExportData         = "EXPORT_DATA"
	ActionVerifyEmail        = "VERIFY_EMAIL"
	ActionResendVerification = "RESEND_VERIFICATION"
	ActionDeactivateAccount  = "DEACTIVATE_ACCOUNT"
)

// Rate limit categories for sensitive operations. Each category's window is
// tracked independently per subject.
const (
	CategoryProfileUpdate      = "profile_update"
	CategoryPasswordChange     = "password_change"
	CategoryAccountDeletion    = "account_deletion"
	CategoryDataExport         = "data_export"
	CategoryVerificationResend = "verification_resend"
	CategoryDeactivation       = "deactivation"
)

// Categories lists every rate-limit category the module registers, for
// per-category limiter configuration.
func Categories() []string {
	return []string{
		CategoryProfileUpdate,
		CategoryPasswordChange,
		CategoryAccountDeletion,
		CategoryDataExport,
		CategoryVerificationResend,
		CategoryDeactivation,
	}
}

// Register declares the module's route table. Auth, account-status gating
// and metadata injection are implicit on every route.
func Register(reg *pipeline.Registry, svc *Service) error {
	base := []pipeline.StageDescriptor{
		pipeline.Auth(),
		pipeline.AccountStatus(),
		pipeline.Metadata(),
	}

	route := func(method, path string, terminal pipeline.Handler, stages ...pipeline.StageDescriptor) error {
		return reg.Register(pipeline.RouteSpec{
			Method:   method,
			Path:     path,
			Access:   pipeline.AccessUser,
			Stages:   append(append([]pipeline.StageDescriptor{}, base...), stages...),
			Terminal: terminal,
		})
	}

	specs := []func() error{
		func() error {
			return route(http.MethodGet, "/profile", svc.getProfile,
				pipeline.Log(ActionGetProfile))
		},
		func() error {
			return route(http.MethodPut, "/profile", svc.updateProfile,
				pipeline.RateLimit(CategoryProfileUpdate),
				pipeline.Validate(profileUpdateRules()),
				pipeline.Sanitize(),
				pipeline.Log(ActionUpdateProfile))
		},
		func() error {
			return route(http.MethodPut, "/change-password", svc.changePassword,
				pipeline.RateLimit(CategoryPasswordChange),
				pipeline.Validate(passwordChangeRules()),
				pipeline.Log(ActionChangePassword))
		},
		func() error {
			return route(http.MethodGet, "/dashboard", svc.dashboard,
				pipeline.Validate(timeframeRules()),
				pipeline.Log(ActionGetDashboard))
		},
		func() error {
			return route(http.MethodPut, "/preferences", svc.updatePreferences,
				pipeline.Validate(preferencesRules()),
				pipeline.Log(ActionUpdatePreferences))
		},
		func() error {
			return route(http.MethodDelete, "/account", svc.deleteAccount,
				pipeline.RateLimit(CategoryAccountDeletion),
				pipeline.Validate(accountDeletionRules()),
				pipeline.Log(ActionDeleteAccount))
		},
		func() error {
			return route(http.MethodGet, "/stats", svc.stats,
				pipeline.Validate(statsPeriodRules()),
				pipeline.Log(ActionGetStats))
		},
		func() error {
			return route(http.MethodGet, "/activity-summary", svc.activitySummary)
		},
		func() error {
			return route(http.MethodPost, "/export-data", svc.exportData,
				pipeline.RateLimit(CategoryDataExport),
				pipeline.Log(ActionExportData))
		},
		func() error {
			return route(http.MethodPut, "/verify-email", svc.verifyEmail,
				pipeline.Validate(verifyEmailRules()),
				pipeline.Log(ActionVerifyEmail))
		},
		func() error {
			return route(http.MethodPost, "/resend-verification", svc.resendVerification,
				pipeline.RateLimit(CategoryVerificationResend),
				pipeline.Log(ActionResendVerification))
		},
		func() error {
			return route(http.MethodPut, "/deactivate", svc.deactivate,
				pipeline.RateLimit(CategoryDeactivation),
				pipeline.Validate(deactivateRules()),
				pipeline.Log(ActionDeactivateAccount))
		},
	}

	for _, register := range specs {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

// TokenVerifier adapts the token service to the pipeline's auth stage.
type TokenVerifier struct {
	tokens *token.Service
}

func NewTokenVerifier(tokens *token.Service) *TokenVerifier {
	return &TokenVerifier{tokens: tokens}
}

func (v *TokenVerifier) Verify(ctx context.Context, r *http.Request) (pipeline.Subject, error) {
	raw, err := token.FromRequest(r)
	if err != nil {
		return pipeline.Subject{}, &pipeline.AuthError{Reason: err.Error()}
	}

	claims, err := v.tokens.Verify(raw)
	if err != nil {
		return pipeline.Subject{}, &pipeline.AuthError{Reason: err.Error()}
	}

	return pipeline.Subject{ID: claims.Subject, Email: claims.Email}, nil
}
