package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"identity-service/internal/apperror"
	"identity-service/internal/model"
	"identity-service/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type errBinder struct{}

func (errBinder) Bind(i any, c echo.Context) error { return errors.New("bind") }

type errValidator struct{}

func (errValidator) Validate(i any) error { return errors.New("v") }

type okValidator struct{}

func (okValidator) Validate(i any) error { return nil }

type fakeAuth struct {
	RegisterFn     func(context.Context, service.RegisterInput) (*model.PublicUser, error)
	AuthenticateFn func(context.Context, string, string) (*model.PublicUser, error)
	LoginFn        func(model.PublicUser) (*service.LoginResult, error)
}

func (f *fakeAuth) Register(ctx context.Context, in service.RegisterInput) (*model.PublicUser, error) {
	return f.RegisterFn(ctx, in)
}

func (f *fakeAuth) Authenticate(ctx context.Context, email, pw string) (*model.PublicUser, error) {
	return f.AuthenticateFn(ctx, email, pw)
}

func (f *fakeAuth) Login(u model.PublicUser) (*service.LoginResult, error) {
	return f.LoginFn(u)
}

func newJSONCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegisterHandler(t *testing.T) {
	t.Run("bind error", func(t *testing.T) {
		e := echo.New()
		e.Binder = errBinder{}
		ctx, rec := newJSONCtx(e, "")
		require.NoError(t, RegisterHandler(&fakeAuth{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validate error", func(t *testing.T) {
		e := echo.New()
		e.Validator = errValidator{}
		ctx, rec := newJSONCtx(e, `{"email":"a@x.com"}`)
		require.NoError(t, RegisterHandler(&fakeAuth{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("conflict", func(t *testing.T) {
		e := echo.New()
		e.Validator = okValidator{}
		a := &fakeAuth{RegisterFn: func(context.Context, service.RegisterInput) (*model.PublicUser, error) {
			return nil, apperror.Conflict("email already registered", nil)
		}}
		ctx, rec := newJSONCtx(e, `{"name":"A","email":"a@x.com","password":"123456"}`)
		require.NoError(t, RegisterHandler(a)(ctx))
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Contains(t, rec.Body.String(), "email already registered")
	})

	t.Run("success", func(t *testing.T) {
		e := echo.New()
		e.Validator = okValidator{}
		var got service.RegisterInput
		a := &fakeAuth{RegisterFn: func(_ context.Context, in service.RegisterInput) (*model.PublicUser, error) {
			got = in
			return &model.PublicUser{ID: 1, Name: in.Name, Email: in.Email, Role: model.RoleUser, Status: true}, nil
		}}
		ctx, rec := newJSONCtx(e, `{"name":"A","email":"A@X.com","password":"123456","role":"admin"}`)
		require.NoError(t, RegisterHandler(a)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "a@x.com", got.Email)
		require.Equal(t, "123456", got.Password)
		require.Contains(t, rec.Body.String(), `"role":"user"`)
		require.NotContains(t, rec.Body.String(), "123456")
	})
}

func TestLoginHandler(t *testing.T) {
	user := &model.PublicUser{ID: 1, Name: "A", Email: "a@x.com", Role: model.RoleUser, Status: true}

	t.Run("bind error", func(t *testing.T) {
		e := echo.New()
		e.Binder = errBinder{}
		ctx, rec := newJSONCtx(e, "")
		require.NoError(t, LoginHandler(&fakeAuth{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validate error", func(t *testing.T) {
		e := echo.New()
		e.Validator = errValidator{}
		ctx, rec := newJSONCtx(e, `{"email":"a@x.com","password":"b"}`)
		require.NoError(t, LoginHandler(&fakeAuth{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		e := echo.New()
		e.Validator = okValidator{}
		a := &fakeAuth{AuthenticateFn: func(context.Context, string, string) (*model.PublicUser, error) {
			return nil, service.ErrInvalidCredentials
		}}
		ctx, rec := newJSONCtx(e, `{"email":"a@x.com","password":"b"}`)
		require.NoError(t, LoginHandler(a)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid credentials")
	})

	t.Run("store failure", func(t *testing.T) {
		e := echo.New()
		e.Validator = okValidator{}
		a := &fakeAuth{AuthenticateFn: func(context.Context, string, string) (*model.PublicUser, error) {
			return nil, errors.New("db down")
		}}
		ctx, rec := newJSONCtx(e, `{"email":"a@x.com","password":"b"}`)
		require.NoError(t, LoginHandler(a)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.NotContains(t, rec.Body.String(), "db down")
	})

	t.Run("issue token error", func(t *testing.T) {
		e := echo.New()
		e.Validator = okValidator{}
		a := &fakeAuth{
			AuthenticateFn: func(context.Context, string, string) (*model.PublicUser, error) { return user, nil },
			LoginFn:        func(model.PublicUser) (*service.LoginResult, error) { return nil, errors.New("sign") },
		}
		ctx, rec := newJSONCtx(e, `{"email":"a@x.com","password":"b"}`)
		require.NoError(t, LoginHandler(a)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		e := echo.New()
		e.Validator = okValidator{}
		var gotEmail string
		a := &fakeAuth{
			AuthenticateFn: func(_ context.Context, email, _ string) (*model.PublicUser, error) {
				gotEmail = email
				return user, nil
			},
			LoginFn: func(u model.PublicUser) (*service.LoginResult, error) {
				return &service.LoginResult{AccessToken: "tok", Name: u.Name, Role: u.Role, Status: u.Status, Email: u.Email, UserID: u.ID}, nil
			},
		}
		ctx, rec := newJSONCtx(e, `{"email":"A@x.com","password":"b"}`)
		require.NoError(t, LoginHandler(a)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "a@x.com", gotEmail)
		body := rec.Body.String()
		require.Contains(t, body, `"access_token":"tok"`)
		require.Contains(t, body, `"userId":1`)
		require.Contains(t, body, `"status":true`)
	})
}
