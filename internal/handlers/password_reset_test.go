package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/recipebook-app/recipebook/internal/services"
)

func TestPasswordResetRequestHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockResetRequester)
		expectedCode int
	}{
		{
			name: "reset email sent",
			body: `{"email":"alice@example.com"}`,
			mockSetup: func(m *MockResetRequester) {
				m.EXPECT().Request(gomock.Any(), "alice@example.com").Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "unknown or inactive account",
			body: `{"email":"ghost@example.com"}`,
			mockSetup: func(m *MockResetRequester) {
				m.EXPECT().Request(gomock.Any(), "ghost@example.com").Return(services.ErrResetUnavailable)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "invalid email rejected before the service",
			body:         `{"email":"nope"}`,
			mockSetup:    func(m *MockResetRequester) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockResetRequester(ctrl)
			tt.mockSetup(mockSvc)

			req := httptest.NewRequest(http.MethodPost, "/password-reset", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			NewPasswordResetRequestHandler(mockSvc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}

func TestPasswordResetConfirmHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockResetConfirmer)
		expectedCode int
	}{
		{
			name: "password reset",
			body: `{"new_password":"new-secret-1"}`,
			mockSetup: func(m *MockResetConfirmer) {
				m.EXPECT().
					Confirm(gomock.Any(), "dWlk", "tok", "new-secret-1").
					Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "invalid link",
			body: `{"new_password":"new-secret-1"}`,
			mockSetup: func(m *MockResetConfirmer) {
				m.EXPECT().
					Confirm(gomock.Any(), "dWlk", "tok", "new-secret-1").
					Return(services.ErrInvalidLink)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "short password rejected before the service",
			body:         `{"new_password":"short"}`,
			mockSetup:    func(m *MockResetConfirmer) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockResetConfirmer(ctrl)
			tt.mockSetup(mockSvc)

			r := chi.NewRouter()
			r.Post("/reset/{uidb64}/{token}", NewPasswordResetConfirmHandler(mockSvc))

			req := httptest.NewRequest(http.MethodPost, "/reset/dWlk/tok", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}

func TestPasswordResetAckHandlers(t *testing.T) {
	t.Run("request stage acknowledgement", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/password-reset/done", nil)
		rec := httptest.NewRecorder()
		NewPasswordResetDoneHandler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("final stage acknowledgement", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/reset/done", nil)
		rec := httptest.NewRecorder()
		NewPasswordResetCompleteHandler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
