package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/ecom-backend/user-service/internal/middlewares"
	"github.com/ecom-backend/user-service/internal/models"
	"github.com/ecom-backend/user-service/internal/uploads"
)

func newPictureRequest(t *testing.T, filename string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	assert.NoError(t, err)
	_, err = fw.Write([]byte("fake image bytes"))
	assert.NoError(t, err)
	assert.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/change-profile-picture", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestChangePictureHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{ID: 42, Email: "john@example.com"}

	tests := []struct {
		name         string
		withUser     bool
		mockSetup    func(svc *MockPictureUpdater, up *MockUploader)
		expectedCode int
		expectedBody map[string]any
	}{
		{
			name:     "success",
			withUser: true,
			mockSetup: func(svc *MockPictureUpdater, up *MockUploader) {
				up.EXPECT().
					SaveFromRequest(gomock.Any(), "image").
					Return("1700000000-42_avatar.png", nil)
				up.EXPECT().
					URL("1700000000-42_avatar.png").
					Return("/public/files/1700000000-42_avatar.png")
				svc.EXPECT().
					UpdatePicture(gomock.Any(), int64(42), "/public/files/1700000000-42_avatar.png").
					Return(nil)
			},
			expectedCode: 200,
			expectedBody: map[string]any{
				"success": true,
				"message": "Profile picture updated successfully",
				"url":     "/public/files/1700000000-42_avatar.png",
			},
		},
		{
			name:         "not logged in",
			withUser:     false,
			expectedCode: 401,
			expectedBody: map[string]any{
				"success": false,
				"message": "You are not logged in",
			},
		},
		{
			name:     "missing file",
			withUser: true,
			mockSetup: func(svc *MockPictureUpdater, up *MockUploader) {
				up.EXPECT().
					SaveFromRequest(gomock.Any(), "image").
					Return("", uploads.ErrMissingFile)
			},
			expectedCode: 400,
			expectedBody: map[string]any{
				"success": false,
				"message": "Error in uploading file",
				"error":   uploads.ErrMissingFile.Error(),
			},
		},
		{
			name:     "unsupported type",
			withUser: true,
			mockSetup: func(svc *MockPictureUpdater, up *MockUploader) {
				up.EXPECT().
					SaveFromRequest(gomock.Any(), "image").
					Return("", uploads.ErrUnsupportedType)
			},
			expectedCode: 400,
			expectedBody: map[string]any{
				"success": false,
				"message": "Error in uploading file",
				"error":   uploads.ErrUnsupportedType.Error(),
			},
		},
		{
			name:     "file too large",
			withUser: true,
			mockSetup: func(svc *MockPictureUpdater, up *MockUploader) {
				up.EXPECT().
					SaveFromRequest(gomock.Any(), "image").
					Return("", uploads.ErrFileTooLarge)
			},
			expectedCode: 400,
			expectedBody: map[string]any{
				"success": false,
				"message": "Error in uploading file",
				"error":   uploads.ErrFileTooLarge.Error(),
			},
		},
		{
			name:     "storage failure",
			withUser: true,
			mockSetup: func(svc *MockPictureUpdater, up *MockUploader) {
				up.EXPECT().
					SaveFromRequest(gomock.Any(), "image").
					Return("", errors.New("disk full"))
			},
			expectedCode: 500,
			expectedBody: map[string]any{
				"success": false,
				"message": "Error in updating profile picture",
				"error":   "disk full",
			},
		},
		{
			name:     "update failure",
			withUser: true,
			mockSetup: func(svc *MockPictureUpdater, up *MockUploader) {
				up.EXPECT().
					SaveFromRequest(gomock.Any(), "image").
					Return("stored.png", nil)
				up.EXPECT().
					URL("stored.png").
					Return("/public/files/stored.png")
				svc.EXPECT().
					UpdatePicture(gomock.Any(), int64(42), "/public/files/stored.png").
					Return(errors.New("database failure"))
			},
			expectedCode: 500,
			expectedBody: map[string]any{
				"success": false,
				"message": "Error in updating profile picture",
				"error":   "database failure",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockPictureUpdater(ctrl)
			mockUploader := NewMockUploader(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc, mockUploader)
			}

			handler := NewChangePictureHandler(mockSvc, mockUploader)

			req := newPictureRequest(t, "avatar.png")
			if tt.withUser {
				req = req.WithContext(middlewares.SetUserToContext(req.Context(), user))
			}

			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			var resp map[string]any
			err := json.Unmarshal(rr.Body.Bytes(), &resp)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, resp)
		})
	}
}
