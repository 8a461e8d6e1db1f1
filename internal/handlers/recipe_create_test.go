package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/recipebook-app/recipebook/internal/models"
	"github.com/recipebook-app/recipebook/internal/services"
)

func TestRecipeCreateHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	validBody := `{
		"title": "Borscht",
		"description": "Beet soup",
		"ingredients": "beets, cabbage",
		"steps": [
			{"instruction": "Chop beets"},
			{"instruction": "Simmer"}
		]
	}`

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockRecipeCreator)
		expectedCode int
	}{
		{
			name: "success",
			body: validBody,
			mockSetup: func(m *MockRecipeCreator) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ uuid.UUID, input services.RecipeInput, entries []models.StepEntry) (*models.RecipeDB, error) {
						assert.Equal(t, "Borscht", input.Title)
						assert.Len(t, entries, 2)
						return &models.RecipeDB{RecipeID: uuid.New(), Title: input.Title}, nil
					})
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "missing title rejected before the service",
			body:         `{"description": "x", "ingredients": "y"}`,
			mockSetup:    func(m *MockRecipeCreator) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "step validation failure from the service",
			body: validBody,
			mockSetup: func(m *MockRecipeCreator) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, &services.ValidationError{Fields: map[string]string{"steps[1].instruction": "instruction is required"}})
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "inactive account",
			body: validBody,
			mockSetup: func(m *MockRecipeCreator) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, services.ErrNotActivated)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "invalid json",
			body:         `{invalid`,
			mockSetup:    func(m *MockRecipeCreator) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockRecipeCreator(ctrl)
			tt.mockSetup(mockSvc)

			handler := NewRecipeCreateHandler(mockSvc)

			req := httptest.NewRequest(http.MethodPost, "/recipes", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)

			if tt.expectedCode == http.StatusCreated {
				var resp RecipeResponse
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "Borscht", resp.Recipe.Title)
			}
		})
	}
}
