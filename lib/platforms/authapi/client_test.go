package authapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeAuthServer struct {
	calls     int
	lastAuth  string
	lastBody  map[string]string
	status    int
	responses map[string]string
}

func (f *fakeAuthServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls++
	f.lastAuth = r.Header.Get("Authorization")
	f.lastBody = nil
	_ = json.NewDecoder(r.Body).Decode(&f.lastBody)

	w.Header().Set("Content-Type", "application/json")
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	w.Write([]byte(f.responses[r.Method+" "+r.URL.Path]))
}

func setup(t testing.TB, fake *fakeAuthServer) *Client {
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return NewClient(ClientOptions{BaseUrl: server.URL})
}

const authResponse = `{"user": {"id": "u1", "username": "sara", "phone": "09120000000", "createdAt": "2024-01-01"}, "token": "tok", "message": "ok"}`

func TestLogin(t *testing.T) {
	fake := &fakeAuthServer{responses: map[string]string{"POST /auth/login": authResponse}}
	client := setup(t, fake)

	res, err := client.Login(context.Background(), LoginRequest{Username: "sara", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, "tok", res.Token)
	require.Equal(t, "sara", res.User.Username)
	require.Equal(t, map[string]string{"username": "sara", "password": "secret"}, fake.lastBody)
}

func TestRegister(t *testing.T) {
	fake := &fakeAuthServer{responses: map[string]string{"POST /auth/register": authResponse}}
	client := setup(t, fake)

	res, err := client.Register(context.Background(), RegisterRequest{Username: "sara", Phone: "0912", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, "u1", res.User.ID)
	require.Equal(t, "0912", fake.lastBody["phone"])
}

func TestValidationHappensBeforeRequest(t *testing.T) {
	fake := &fakeAuthServer{}
	client := setup(t, fake)
	ctx := context.Background()

	testCases := []struct {
		call    func() error
		field   string
		message string
	}{
		{
			call: func() error {
				_, err := client.Login(ctx, LoginRequest{Password: "secret"})
				return err
			},
			field:   "username",
			message: MessageFieldRequired,
		},
		{
			call: func() error {
				_, err := client.Register(ctx, RegisterRequest{Username: "sara", Password: "secret"})
				return err
			},
			field:   "phone",
			message: MessageFieldRequired,
		},
		{
			call: func() error {
				_, err := client.Register(ctx, RegisterRequest{Username: "sara", Phone: "0912", Password: "123"})
				return err
			},
			field:   "password",
			message: MessagePasswordTooShort,
		},
	}

	for _, test := range testCases {
		err := test.call()
		var authErr *AuthError
		require.True(t, errors.As(err, &authErr))
		require.Equal(t, test.field, authErr.Field)
		require.Equal(t, test.message, authErr.Message)
	}
	require.Zero(t, fake.calls)
}

func TestAuthError(t *testing.T) {
	fake := &fakeAuthServer{
		status: http.StatusUnauthorized,
		responses: map[string]string{
			"POST /auth/login": `{"message": "نام کاربری یا رمز عبور اشتباه است", "field": "password"}`,
		},
	}
	client := setup(t, fake)

	_, err := client.Login(context.Background(), LoginRequest{Username: "sara", Password: "wrong"})
	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	require.Equal(t, http.StatusUnauthorized, authErr.Status)
	require.Equal(t, "نام کاربری یا رمز عبور اشتباه است", authErr.Message)
	require.Equal(t, "password", authErr.Field)

	_, err = client.CurrentUser(context.Background(), "tok")
	require.True(t, errors.As(err, &authErr))
	require.Equal(t, MessageAuthFailed, authErr.Message)
}

func TestBearerCalls(t *testing.T) {
	fake := &fakeAuthServer{responses: map[string]string{
		"GET /auth/me":      `{"user": {"id": "u1", "username": "sara"}}`,
		"POST /auth/logout": `{"message": "bye"}`,
	}}
	client := setup(t, fake)

	user, err := client.CurrentUser(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, "sara", user.Username)
	require.Equal(t, "Bearer tok", fake.lastAuth)

	msg, err := client.Logout(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, "bye", msg.Message)
	require.Equal(t, "Bearer tok", fake.lastAuth)
}

func TestDefaultBaseUrl(t *testing.T) {
	client := NewClient(ClientOptions{})
	require.Equal(t, DefaultBaseUrl, client.http.BaseURL)
}
