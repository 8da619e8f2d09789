// File: internal/middleware/auth_test.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/shared"
)

type fakeVerifier struct {
	token *firebaseauth.Token
	err   error
}

func (f *fakeVerifier) VerifyIDToken(_ context.Context, _ string) (*firebaseauth.Token, error) {
	return f.token, f.err
}

type fakeProfiles struct {
	profile *shared.Profile
	err     error
}

func (f *fakeProfiles) Resolve(_ context.Context, _ shared.IdentityClaims) (*shared.Profile, bool, error) {
	return f.profile, false, f.err
}

func (f *fakeProfiles) GetProfileByID(_ context.Context, _ uuid.UUID) (*shared.Profile, error) {
	return f.profile, nil
}

func (f *fakeProfiles) DebitCredit(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeProfiles) AddCredits(_ context.Context, _ uuid.UUID, _ int) error { return nil }

func runAuth(t *testing.T, verifier TokenVerifier, profiles shared.Service, setup func(*http.Request)) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var captured *shared.Session
	router := gin.New()
	router.GET("/probe", Auth(verifier, profiles, zap.NewNop()), func(c *gin.Context) {
		captured = GetSessionFromContext(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, captured
}

func TestAuthRequiresBearerHeader(t *testing.T) {
	w, session := runAuth(t, &fakeVerifier{}, &fakeProfiles{}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, session)
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	w, _ := runAuth(t, &fakeVerifier{}, &fakeProfiles{}, func(r *http.Request) {
		r.Header.Set(common.AuthorizationHeader, "Token abc")
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	w, _ := runAuth(t, &fakeVerifier{err: errors.New("token expired")}, &fakeProfiles{}, func(r *http.Request) {
		r.Header.Set(common.AuthorizationHeader, "Bearer bad-token")
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthUnresolvableProfileIsUnauthenticated(t *testing.T) {
	verifier := &fakeVerifier{token: &firebaseauth.Token{UID: "uid-123"}}
	profiles := &fakeProfiles{err: errors.New("insert failed")}

	w, _ := runAuth(t, verifier, profiles, func(r *http.Request) {
		r.Header.Set(common.AuthorizationHeader, "Bearer good-token")
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthStoresSessionWithProviderToken(t *testing.T) {
	profile := &shared.Profile{ID: uuid.New(), GoogleID: "uid-123", Credits: 5}
	verifier := &fakeVerifier{token: &firebaseauth.Token{UID: "uid-123"}}

	w, session := runAuth(t, verifier, &fakeProfiles{profile: profile}, func(r *http.Request) {
		r.Header.Set(common.AuthorizationHeader, "Bearer good-token")
		r.Header.Set(common.ProviderTokenHeader, "ya29.drive-token")
	})

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, session)
	assert.Equal(t, profile.ID, session.Profile.ID)
	assert.Equal(t, "uid-123", session.FirebaseUID)
	assert.Equal(t, "ya29.drive-token", session.ProviderToken)
}

func TestAuthSessionOmitsProviderTokenWhenAbsent(t *testing.T) {
	profile := &shared.Profile{ID: uuid.New(), GoogleID: "uid-123"}
	verifier := &fakeVerifier{token: &firebaseauth.Token{UID: "uid-123"}}

	w, session := runAuth(t, verifier, &fakeProfiles{profile: profile}, func(r *http.Request) {
		r.Header.Set(common.AuthorizationHeader, "Bearer good-token")
	})

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, session)
	assert.Empty(t, session.ProviderToken)
}
