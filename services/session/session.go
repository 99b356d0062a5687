package session

import (
	"context"
	"errors"
	"log/slog"
	"salamyar/lib/platforms/authapi"
	"salamyar/lib/telemetry"
	"sync"
)

var tracer = telemetry.Tracer("salamyar/services/session")

const (
	MessageLoginFailed      = "خطا در ورود به سیستم"
	MessageRegisterFailed   = "خطا در ثبت نام"
	MessagePasswordMismatch = "رمزهای عبور مطابقت ندارند"
)

type Client interface {
	Login(ctx context.Context, req authapi.LoginRequest) (authapi.AuthResponse, error)
	Register(ctx context.Context, req authapi.RegisterRequest) (authapi.AuthResponse, error)
	Logout(ctx context.Context, token string) (authapi.MessageResponse, error)
	CurrentUser(ctx context.Context, token string) (authapi.User, error)
}

type State struct {
	// nil when anonymous
	User    *authapi.User
	Loading bool
	Error   string
}

type Options struct {
	// called with the new token whenever it changes, "" on logout
	OnToken func(token string)
}

// Session holds who is signed in. The zero state is "loading" until Init
// has run, so callers do not briefly show the signed-out view.
type Session struct {
	client  Client
	store   TokenStore
	onToken func(string)

	mutex   sync.Mutex
	user    *authapi.User
	token   string
	loading bool
	err     string
}

func New(client Client, store TokenStore, opts Options) *Session {
	onToken := opts.OnToken
	if onToken == nil {
		onToken = func(string) {}
	}
	return &Session{
		client:  client,
		store:   store,
		onToken: onToken,
		loading: true,
	}
}

// Init restores the session from the stored token. A token the server
// rejects is deleted and the session stays anonymous.
func (s *Session) Init(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "Session:Init")
	defer span.End()

	defer func() {
		s.mutex.Lock()
		s.loading = false
		s.mutex.Unlock()
	}()

	token, err := s.store.Get(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to read stored token", "err", err)
		return
	}
	if token == "" {
		return
	}

	user, err := s.client.CurrentUser(ctx, token)
	if err != nil {
		slog.DebugContext(ctx, "stored token rejected", "err", err)
		err = s.store.Delete(ctx)
		if err != nil {
			slog.WarnContext(ctx, "failed to delete stored token", "err", err)
		}
		return
	}

	s.mutex.Lock()
	s.user = &user
	s.token = token
	s.mutex.Unlock()
	s.onToken(token)
}

func (s *Session) begin() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.loading = true
	s.err = ""
}

func (s *Session) finish(ctx context.Context, res authapi.AuthResponse, err error, fallback string) bool {
	if err == nil {
		// the server already signed the user in, a token that cannot be
		// saved only costs the next start-up its session
		putErr := s.store.Put(ctx, res.Token)
		if putErr != nil {
			slog.ErrorContext(ctx, "failed to persist token", "err", putErr)
		}
	}

	s.mutex.Lock()
	s.loading = false
	if err != nil {
		var authErr *authapi.AuthError
		if errors.As(err, &authErr) {
			s.err = authErr.Message
		} else {
			s.err = fallback
		}
		s.mutex.Unlock()
		return false
	}
	user := res.User
	s.user = &user
	s.token = res.Token
	s.mutex.Unlock()

	s.onToken(res.Token)
	return true
}

func (s *Session) Login(ctx context.Context, req authapi.LoginRequest) bool {
	ctx, span := tracer.Start(ctx, "Session:Login")
	defer span.End()

	s.begin()
	res, err := s.client.Login(ctx, req)
	return s.finish(ctx, res, err, MessageLoginFailed)
}

func (s *Session) Register(ctx context.Context, req authapi.RegisterRequest) bool {
	ctx, span := tracer.Start(ctx, "Session:Register")
	defer span.End()

	s.begin()
	res, err := s.client.Register(ctx, req)
	return s.finish(ctx, res, err, MessageRegisterFailed)
}

// Logout tells the server on a best-effort basis, the local session is
// always cleared.
func (s *Session) Logout(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "Session:Logout")
	defer span.End()

	s.begin()
	s.mutex.Lock()
	token := s.token
	s.mutex.Unlock()
	if token == "" {
		token, _ = s.store.Get(ctx)
	}

	if token != "" {
		_, err := s.client.Logout(ctx, token)
		if err != nil {
			slog.ErrorContext(ctx, "logout error", "err", err)
		}
	}
	err := s.store.Delete(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to delete stored token", "err", err)
	}

	s.mutex.Lock()
	s.user = nil
	s.token = ""
	s.loading = false
	s.mutex.Unlock()
	s.onToken("")
}

// CheckPasswords is the confirmation check of the registration form.
func CheckPasswords(password, confirm string) error {
	if password != confirm {
		return &authapi.AuthError{Message: MessagePasswordMismatch, Field: "confirmPassword"}
	}
	return nil
}

func (s *Session) ClearError() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.err = ""
}

func (s *Session) IsAuthenticated() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.user != nil
}

func (s *Session) Token() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.token
}

func (s *Session) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var user *authapi.User
	if s.user != nil {
		u := *s.user
		user = &u
	}
	return State{
		User:    user,
		Loading: s.loading,
		Error:   s.err,
	}
}
