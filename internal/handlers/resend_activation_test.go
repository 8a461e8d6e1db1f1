package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/recipebook-app/recipebook/internal/services"
)

func TestResendActivationHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name           string
		mockSetup      func(m *MockActivationResender)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "success",
			mockSetup: func(m *MockActivationResender) {
				m.EXPECT().ResendActivation(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "Activation email sent again.",
		},
		{
			name: "already active account is a soft no-op",
			mockSetup: func(m *MockActivationResender) {
				m.EXPECT().ResendActivation(gomock.Any(), gomock.Any()).Return(services.ErrAlreadyActivated)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "Your account is already active.",
		},
		{
			name: "unknown caller",
			mockSetup: func(m *MockActivationResender) {
				m.EXPECT().ResendActivation(gomock.Any(), gomock.Any()).Return(services.ErrUserDoesNotExist)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockActivationResender(ctrl)
			tt.mockSetup(mockSvc)

			req := httptest.NewRequest(http.MethodPost, "/resend-activation", nil)
			rec := httptest.NewRecorder()
			NewResendActivationHandler(mockSvc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedMsg != "" {
				var resp MessageResponse
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, tt.expectedMsg, resp.Message)
			}
		})
	}
}
