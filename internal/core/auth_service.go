package core

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Carlvinchi/recipiverse/internal/db"
	"github.com/Carlvinchi/recipiverse/internal/identity"
	"github.com/Carlvinchi/recipiverse/internal/models"
	"github.com/Carlvinchi/recipiverse/internal/state"
	"github.com/Carlvinchi/recipiverse/pkg/mailer"
)

// authService implements AuthService over the identity provider and the
// document store.
type authService struct {
	provider identity.Provider
	store    db.DocumentStore
	mail     *mailer.Mailer // optional; nil disables welcome mail
	logger   *zap.Logger
	timeout  time.Duration

	authState *state.Holder[models.AuthState]
	profile   *state.Holder[*models.UserProfile]
}

// NewAuthService builds the auth controller. The initial state is derived
// from the provider's current session: Authenticated when one exists,
// Unauthenticated otherwise.
func NewAuthService(provider identity.Provider, store db.DocumentStore, mail *mailer.Mailer, logger *zap.Logger, timeout time.Duration) AuthService {
	initial := models.Unauthenticated()
	if provider.CurrentSessionID() != "" {
		initial = models.Authenticated()
	}
	return &authService{
		provider:  provider,
		store:     store,
		mail:      mail,
		logger:    logger,
		timeout:   timeout,
		authState: state.NewHolder(initial),
		profile:   state.NewHolder[*models.UserProfile](nil),
	}
}

func (s *authService) AuthState() *state.Holder[models.AuthState] { return s.authState }

func (s *authService) Profile() *state.Holder[*models.UserProfile] { return s.profile }

func (s *authService) CurrentUserID() string { return s.provider.CurrentSessionID() }

// callCtx bounds one remote call; the source trusted the vendor SDK to
// always call back, this does not.
func (s *authService) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *authService) fail(message string) models.AuthState {
	st := models.AuthFailure(message)
	s.authState.Set(st)
	return st
}

// failureMessage normalizes provider failures and unexpected errors into
// one UI message.
func failureMessage(err error) string {
	if err == nil || err.Error() == "" {
		return MsgSomethingWentWrong
	}
	return err.Error()
}

func (s *authService) Login(ctx context.Context, email, password string) models.AuthState {
	if email == "" || password == "" {
		return s.fail(MsgEmptyCredentials)
	}

	s.authState.Set(models.Authenticating())

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	uid, err := s.provider.SignInWithPassword(cctx, email, password)
	if err != nil {
		return s.fail(failureMessage(err))
	}

	st := models.Authenticated()
	s.authState.Set(st)
	// Profile data arrives through its own observable after the auth
	// transition; a fetch failure degrades to the sentinel profile and
	// never blocks login.
	s.FetchProfile(ctx, uid)
	return st
}

func (s *authService) Signup(ctx context.Context, name, email, password string) models.AuthState {
	if email == "" || password == "" || name == "" {
		return s.fail(MsgEmptyCredentials)
	}

	s.authState.Set(models.Authenticating())

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	uid, err := s.provider.CreateAccount(cctx, email, password)
	if err != nil {
		return s.fail(failureMessage(err))
	}

	s.createProfile(ctx, uid, name, email)
	s.FetchProfile(ctx, uid)

	st := models.Authenticated()
	s.authState.Set(st)

	s.sendWelcomeMail(name, email)
	return st
}

func (s *authService) SignInWithGoogle(ctx context.Context, idToken string) models.AuthState {
	s.authState.Set(models.Authenticating())

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	ident, err := s.provider.SignInWithToken(cctx, idToken)
	if err != nil {
		return s.fail(failureMessage(err))
	}

	// Create the profile document only when this identity has none yet,
	// so repeated federated sign-ins stay idempotent.
	gctx, gcancel := s.callCtx(ctx)
	defer gcancel()
	if _, err := s.store.Get(gctx, usersCollection, ident.UID); errors.Is(err, db.ErrNotFound) {
		name := ident.DisplayName
		if name == "" {
			name = "no name"
		}
		email := ident.Email
		if email == "" {
			email = "no email"
		}
		s.createProfile(ctx, ident.UID, name, email)
	}
	s.FetchProfile(ctx, ident.UID)

	st := models.Authenticated()
	s.authState.Set(st)
	return st
}

func (s *authService) SignOut(ctx context.Context) models.AuthState {
	s.authState.Set(models.Authenticating())

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	_ = s.provider.SignOut(cctx) // local clearing is the authoritative effect

	s.profile.Set(nil)
	st := models.Unauthenticated()
	s.authState.Set(st)
	return st
}

// createProfile writes the profile document and publishes the result.
// A write failure publishes the sentinel profile instead of an error.
func (s *authService) createProfile(ctx context.Context, uid, name, email string) {
	profile := &models.UserProfile{ID: uid, Name: name, Email: email}

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	if err := s.store.Set(cctx, usersCollection, uid, profile.Fields()); err != nil {
		s.logger.Warn("failed to create user profile", zap.String("uid", uid), zap.Error(err))
		s.profile.Set(models.SentinelProfile())
		return
	}
	s.profile.Set(profile)
}

// FetchProfile reads uid's profile document. uid is the caller's
// verified identity; the provider session is never consulted here, so
// concurrent requests for different users cannot bleed into each other.
func (s *authService) FetchProfile(ctx context.Context, uid string) *models.UserProfile {
	if uid == "" {
		p := models.SentinelProfile()
		s.profile.Set(p)
		return p
	}

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	record, err := s.store.Get(cctx, usersCollection, uid)
	if err != nil {
		s.logger.Warn("failed to fetch user profile", zap.String("uid", uid), zap.Error(err))
		p := models.SentinelProfile()
		s.profile.Set(p)
		return p
	}

	p := models.ProfileFromFields(record.ID, record.Fields)
	s.profile.Set(p)
	return p
}

func (s *authService) UpdateProfile(ctx context.Context, uid, name, email string) error {
	if name == "" || email == "" {
		s.fail(MsgEmptyProfileFields)
		return ErrValidation
	}

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	if err := s.store.Update(cctx, usersCollection, uid, map[string]any{
		"name":  name,
		"email": email,
	}); err != nil {
		s.logger.Warn("failed to update user profile", zap.String("uid", uid), zap.Error(err))
		s.profile.Set(models.SentinelProfile())
		return err
	}

	s.FetchProfile(ctx, uid)
	return nil
}

func (s *authService) DeleteAccount(ctx context.Context, uid string) error {
	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	if err := s.store.Delete(cctx, usersCollection, uid); err != nil {
		s.fail(MsgCouldNotDeleteUser)
		return err
	}
	return nil
}

// sendWelcomeMail is best effort: signup never fails because mail did.
func (s *authService) sendWelcomeMail(name, email string) {
	if s.mail == nil {
		return
	}
	go func() {
		body := "<html><p>Hi " + name + ", welcome to Recipiverse! Share your first recipe today.</p></html>"
		if err := s.mail.Send(email, "Welcome to Recipiverse", body); err != nil {
			s.logger.Warn("failed to send welcome mail", zap.String("email", email), zap.Error(err))
		}
	}()
}
