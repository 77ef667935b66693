package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"weplan/internal/delivery/http/helpers"
	"weplan/internal/delivery/http/middleware"
	"weplan/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdmissionService implements domain.AdmissionService for handler tests.
type fakeAdmissionService struct {
	admitErr     error
	collaborator *domain.Collaborator
	created      bool

	lastToken  string
	lastCode   string
	lastUserID string
}

func (f *fakeAdmissionService) Admit(ctx context.Context, invitationToken, eventCode, userID string) (*domain.Collaborator, bool, error) {
	f.lastToken = invitationToken
	f.lastCode = eventCode
	f.lastUserID = userID
	if f.admitErr != nil {
		return nil, false, f.admitErr
	}
	return f.collaborator, f.created, nil
}

func (f *fakeAdmissionService) JoinByCode(ctx context.Context, eventCode, userID string) (*domain.Collaborator, bool, error) {
	return f.Admit(ctx, "", eventCode, userID)
}

func (f *fakeAdmissionService) AcceptInvitation(ctx context.Context, token, userID string) (*domain.Collaborator, bool, error) {
	return f.Admit(ctx, token, "", userID)
}

func newAdmitRequest(body string, withUser bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/admissions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if withUser {
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
	}
	return req
}

func TestAdmissionController_Admit(t *testing.T) {
	collaborator := &domain.Collaborator{WeddingID: "w-1", UserID: "user-1", Role: domain.RoleColaborador}

	t.Run("new admission returns 201", func(t *testing.T) {
		fake := &fakeAdmissionService{collaborator: collaborator, created: true}
		ctrl := NewAdmissionController(testLogger, fake)
		rr := httptest.NewRecorder()

		ctrl.Admit(rr, newAdmitRequest(`{"event_code":"WEPLAN-ABC123"}`, true))

		require.Equal(t, http.StatusCreated, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.Nil(t, envelope.Error)
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		var resp AdmitResponse
		require.NoError(t, json.Unmarshal(dataBytes, &resp))
		assert.True(t, resp.Created)
		require.NotNil(t, resp.Collaborator)
		assert.Equal(t, "w-1", resp.Collaborator.WeddingID)
		assert.Equal(t, "WEPLAN-ABC123", fake.lastCode)
		assert.Equal(t, "user-1", fake.lastUserID)
	})

	t.Run("repeat admission returns 200 with created false", func(t *testing.T) {
		fake := &fakeAdmissionService{collaborator: collaborator, created: false}
		ctrl := NewAdmissionController(testLogger, fake)
		rr := httptest.NewRecorder()

		ctrl.Admit(rr, newAdmitRequest(`{"event_code":"WEPLAN-ABC123"}`, true))

		require.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr)
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		var resp AdmitResponse
		require.NoError(t, json.Unmarshal(dataBytes, &resp))
		assert.False(t, resp.Created)
	})

	t.Run("token is forwarded trimmed", func(t *testing.T) {
		fake := &fakeAdmissionService{collaborator: collaborator, created: true}
		ctrl := NewAdmissionController(testLogger, fake)
		rr := httptest.NewRecorder()

		ctrl.Admit(rr, newAdmitRequest(`{"invitation_token":" tok-1 "}`, true))

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "tok-1", fake.lastToken)
	})

	t.Run("no credentials", func(t *testing.T) {
		ctrl := NewAdmissionController(testLogger, &fakeAdmissionService{})
		rr := httptest.NewRecorder()

		ctrl.Admit(rr, newAdmitRequest(`{}`, true))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Contains(t, envelope.Error.Message, "invitation_token or event_code is required")
	})

	t.Run("malformed event code", func(t *testing.T) {
		ctrl := NewAdmissionController(testLogger, &fakeAdmissionService{})
		rr := httptest.NewRecorder()

		ctrl.Admit(rr, newAdmitRequest(`{"event_code":"WPLAN-ABC123"}`, true))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Contains(t, envelope.Error.Message, "WEPLAN-")
	})

	t.Run("code format is not checked when a token is present", func(t *testing.T) {
		fake := &fakeAdmissionService{collaborator: collaborator, created: true}
		ctrl := NewAdmissionController(testLogger, fake)
		rr := httptest.NewRecorder()

		ctrl.Admit(rr, newAdmitRequest(`{"invitation_token":"tok-1","event_code":"garbage"}`, true))

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "tok-1", fake.lastToken)
	})

	t.Run("no user in context", func(t *testing.T) {
		ctrl := NewAdmissionController(testLogger, &fakeAdmissionService{})
		rr := httptest.NewRecorder()

		ctrl.Admit(rr, newAdmitRequest(`{"event_code":"WEPLAN-ABC123"}`, false))

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	errTests := []struct {
		name       string
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{"unknown code or token", domain.ErrNotFound, http.StatusNotFound, helpers.ErrCodeNotFound},
		{"invitation used", domain.ErrInvitationUsed, http.StatusConflict, helpers.ErrCodeConflict},
		{"invitation expired", domain.ErrInvitationExpired, http.StatusConflict, helpers.ErrCodeConflict},
		{"wedding inactive", domain.ErrWeddingInactive, http.StatusConflict, helpers.ErrCodeConflict},
		{"invalid admission", domain.ErrInvalidInput, http.StatusBadRequest, helpers.ErrCodeBadRequest},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAdmissionService{admitErr: tt.fakeErr}
			ctrl := NewAdmissionController(testLogger, fake)
			rr := httptest.NewRecorder()

			ctrl.Admit(rr, newAdmitRequest(`{"event_code":"WEPLAN-ABC123"}`, true))

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}
