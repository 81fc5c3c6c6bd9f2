package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/personregistry/backend/internal/auth"
	"github.com/personregistry/backend/internal/middleware"
	"github.com/personregistry/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// mockAuthService is a mock implementation of AuthService
type mockAuthService struct {
	registerErr error
	loginResp   *models.LoginResponse
	loginErr    error
	lastReq     *models.RegisterRequest
}

func (m *mockAuthService) Register(ctx context.Context, req *models.RegisterRequest) error {
	m.lastReq = req
	return m.registerErr
}

func (m *mockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	return m.loginResp, m.loginErr
}

// mockPersonService is a mock implementation of PersonService
type mockPersonService struct {
	person      *models.Person
	err         error
	result      *models.OperationResult
	gotUserID   int
	gotInput    *models.ProfileInput
	gotPatch    *models.ProfilePatch
	gotPicture  []byte
	gotPassword string
}

func (m *mockPersonService) GetProfile(ctx context.Context, userID int) (*models.Person, error) {
	m.gotUserID = userID
	return m.person, m.err
}

func (m *mockPersonService) AddProfile(ctx context.Context, userID int, input *models.ProfileInput) (*models.Person, error) {
	m.gotUserID = userID
	m.gotInput = input
	if input.ProfilePicture != nil {
		m.gotPicture, _ = io.ReadAll(input.ProfilePicture.Content)
	}
	return m.person, m.err
}

func (m *mockPersonService) UpdateProfile(ctx context.Context, userID int, patch *models.ProfilePatch) error {
	m.gotUserID = userID
	m.gotPatch = patch
	return m.err
}

func (m *mockPersonService) ChangeOwnPassword(ctx context.Context, userID int, newPassword string) (*models.OperationResult, error) {
	m.gotUserID = userID
	m.gotPassword = newPassword
	return m.result, m.err
}

// mockAdminService is a mock implementation of AdminService
type mockAdminService struct {
	result         *models.OperationResult
	err            error
	gotUserID      int
	gotPersonalNum string
	gotRole        string
	gotPassword    string
}

func (m *mockAdminService) DeleteUserByID(ctx context.Context, userID int) (*models.OperationResult, error) {
	m.gotUserID = userID
	return m.result, m.err
}

func (m *mockAdminService) DeleteUserByPersonalNumber(ctx context.Context, personalNumber string) (*models.OperationResult, error) {
	m.gotPersonalNum = personalNumber
	return m.result, m.err
}

func (m *mockAdminService) SetUserRole(ctx context.Context, userID int, role string) (*models.OperationResult, error) {
	m.gotUserID = userID
	m.gotRole = role
	return m.result, m.err
}

func (m *mockAdminService) ChangeUserPassword(ctx context.Context, userID int, newPassword string) (*models.OperationResult, error) {
	m.gotUserID = userID
	m.gotPassword = newPassword
	return m.result, m.err
}

// withCaller authenticates the request as the given user
func withCaller(req *http.Request, userID int, role string) *http.Request {
	return req.WithContext(middleware.WithClaims(req.Context(), &auth.Claims{UserID: userID, Username: "caller", Role: role}))
}

// multipartRequest builds a multipart request with text fields and an optional file
func multipartRequest(t *testing.T, method, target string, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile(fieldProfilePicture, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{models.NewNotFound("x"), http.StatusNotFound},
		{models.NewConflict("x"), http.StatusConflict},
		{models.NewInvalid("x"), http.StatusBadRequest},
		{models.NewUnauthorized("x"), http.StatusUnauthorized},
		{models.ErrConflict, http.StatusConflict},
		{errors.New("x"), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, statusFor(tt.err))
	}
}

func TestBaseHandler_RespondServiceError_HidesInternalErrors(t *testing.T) {
	h := &BaseHandler{Logger: zaptest.NewLogger(t)}
	w := httptest.NewRecorder()

	h.RespondServiceError(w, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("dial tcp 10.0.0.1:3306: refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decodeBody(t, w)["error"])
}

func TestAuthHandler(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		body           string
		svc            *mockAuthService
		expectedStatus int
		expectedKey    string
		expectedValue  string
	}{
		{
			name:           "register success",
			path:           "/auth/register",
			body:           `{"username":"ona","password":"secret1","confirmPassword":"secret1"}`,
			svc:            &mockAuthService{},
			expectedStatus: http.StatusCreated,
			expectedKey:    "message",
			expectedValue:  "User registered successfully",
		},
		{
			name:           "register conflict",
			path:           "/auth/register",
			body:           `{"username":"ona","password":"secret1","confirmPassword":"secret1"}`,
			svc:            &mockAuthService{registerErr: models.NewConflict("Username already exists")},
			expectedStatus: http.StatusConflict,
			expectedKey:    "error",
			expectedValue:  "Username already exists",
		},
		{
			name:           "register malformed body",
			path:           "/auth/register",
			body:           `{"username":`,
			svc:            &mockAuthService{},
			expectedStatus: http.StatusBadRequest,
			expectedKey:    "error",
			expectedValue:  "invalid request body",
		},
		{
			name:           "login success",
			path:           "/auth/login",
			body:           `{"username":"ona","password":"secret1"}`,
			svc:            &mockAuthService{loginResp: &models.LoginResponse{Token: "jwt"}},
			expectedStatus: http.StatusOK,
			expectedKey:    "token",
			expectedValue:  "jwt",
		},
		{
			name:           "login rejected",
			path:           "/auth/login",
			body:           `{"username":"ona","password":"nope"}`,
			svc:            &mockAuthService{loginErr: models.NewUnauthorized("Invalid username or password")},
			expectedStatus: http.StatusUnauthorized,
			expectedKey:    "error",
			expectedValue:  "Invalid username or password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			NewAuthHandler(tt.svc, zaptest.NewLogger(t)).RegisterRoutes(r)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedValue, decodeBody(t, w)[tt.expectedKey])
		})
	}
}
