package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/personregistry/backend/internal/middleware"
	"github.com/personregistry/backend/internal/models"
	"go.uber.org/zap"
)

// Multipart form field names of the profile endpoints
const (
	fieldName           = "name"
	fieldSurname        = "surname"
	fieldPersonalNumber = "personalNumber"
	fieldPhoneNumber    = "phoneNumber"
	fieldEmail          = "email"
	fieldCity           = "city"
	fieldStreetName     = "streetName"
	fieldHouseNumber    = "houseNumber"
	fieldFlatNumber     = "flatNumber"
	fieldProfilePicture = "profilePicture"
)

// PersonService is the interface that wraps the profile operations of a signed-in user
type PersonService interface {
	// Method GetProfile returns the user's profile with its address.
	//
	// A missing profile is returned as an ErrNotFound DomainError.
	GetProfile(ctx context.Context, userID int) (*models.Person, error)
	// Method AddProfile attaches a new profile to the user.
	//
	// A missing user, an attached profile, a taken personal number and invalid pictures are returned as DomainErrors.
	AddProfile(ctx context.Context, userID int, input *models.ProfileInput) (*models.Person, error)
	// Method UpdateProfile applies a sparse patch to the user's profile.
	//
	// Blank strings and non-positive numbers leave the stored values untouched.
	UpdateProfile(ctx context.Context, userID int, patch *models.ProfilePatch) error
	// Method ChangeOwnPassword changes the user's password.
	//
	// Refusals are reported through the result, infrastructure failures through the error.
	ChangeOwnPassword(ctx context.Context, userID int, newPassword string) (*models.OperationResult, error)
}

// PersonHandler handles personal profile HTTP requests
type PersonHandler struct {
	BaseHandler
	personService PersonService
	maxUploadSize int64
}

// NewPersonHandler creates a new person handler
func NewPersonHandler(personService PersonService, logger *zap.Logger, maxUploadSize int64) *PersonHandler {
	return &PersonHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		personService: personService,
		maxUploadSize: maxUploadSize,
	}
}

// RegisterRoutes registers all person handler routes.
// The router must already authenticate the caller.
func (h *PersonHandler) RegisterRoutes(r chi.Router) {
	r.Route("/person", func(r chi.Router) {
		r.Get("/", h.GetProfile)
		r.Post("/", h.AddProfile)
		r.Patch("/", h.UpdateProfile)
		r.With(middleware.RequireRoles(models.RoleUser)).Put("/password", h.ChangeOwnPassword)
	})
}

// GetProfile handles GET /person
// @Summary Get own profile
// @Description Get the signed-in user's personal information and address
// @Tags person
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Person "Profile"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 404 {object} map[string]string "Person not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /person [get]
func (h *PersonHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	person, err := h.personService.GetProfile(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, person)
}

// AddProfile handles POST /person
// @Summary Add own profile
// @Description Attach personal information, address and profile picture to the signed-in user
// @Tags person
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Name"
// @Param surname formData string true "Surname"
// @Param personalNumber formData string true "Personal number"
// @Param phoneNumber formData string true "Phone number"
// @Param email formData string true "Email"
// @Param city formData string true "City"
// @Param streetName formData string true "Street name"
// @Param houseNumber formData int true "House number"
// @Param flatNumber formData int true "Flat number"
// @Param profilePicture formData file true "Profile picture (jpg, jpeg, png, gif, bmp)"
// @Success 201 {object} models.Person "Created profile"
// @Failure 400 {object} map[string]string "Invalid form data or picture"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 409 {object} map[string]string "Profile or personal number already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /person [post]
func (h *PersonHandler) AddProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.RespondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}
	defer r.MultipartForm.RemoveAll()

	houseNumber, err := requiredInt(r, fieldHouseNumber)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	flatNumber, err := requiredInt(r, fieldFlatNumber)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	picture, closeFile, err := formUpload(r, fieldProfilePicture)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "failed to read profile picture")
		return
	}
	defer closeFile()

	input := &models.ProfileInput{
		Name:           r.FormValue(fieldName),
		Surname:        r.FormValue(fieldSurname),
		PersonalNumber: r.FormValue(fieldPersonalNumber),
		PhoneNumber:    r.FormValue(fieldPhoneNumber),
		Email:          r.FormValue(fieldEmail),
		ProfilePicture: picture,
		City:           r.FormValue(fieldCity),
		StreetName:     r.FormValue(fieldStreetName),
		HouseNumber:    houseNumber,
		FlatNumber:     flatNumber,
	}

	person, err := h.personService.AddProfile(r.Context(), userID, input)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, person)
}

// UpdateProfile handles PATCH /person
// @Summary Update own profile
// @Description Update any subset of the profile. Blank text and non-positive numbers are ignored.
// @Tags person
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string false "Name"
// @Param surname formData string false "Surname"
// @Param personalNumber formData string false "Personal number"
// @Param phoneNumber formData string false "Phone number"
// @Param email formData string false "Email"
// @Param city formData string false "City"
// @Param streetName formData string false "Street name"
// @Param houseNumber formData int false "House number"
// @Param flatNumber formData int false "Flat number"
// @Param profilePicture formData file false "New profile picture"
// @Success 200 {object} map[string]string "Profile updated"
// @Failure 400 {object} map[string]string "Invalid form data or picture"
// @Failure 404 {object} map[string]string "Person not found"
// @Failure 409 {object} map[string]string "Personal number already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /person [patch]
func (h *PersonHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.RespondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}
	defer r.MultipartForm.RemoveAll()

	patch := &models.ProfilePatch{
		Name:           optionalString(r, fieldName),
		Surname:        optionalString(r, fieldSurname),
		PersonalNumber: optionalString(r, fieldPersonalNumber),
		PhoneNumber:    optionalString(r, fieldPhoneNumber),
		Email:          optionalString(r, fieldEmail),
		City:           optionalString(r, fieldCity),
		StreetName:     optionalString(r, fieldStreetName),
	}

	var err error
	if patch.HouseNumber, err = optionalInt(r, fieldHouseNumber); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if patch.FlatNumber, err = optionalInt(r, fieldFlatNumber); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	picture, closeFile, err := formUpload(r, fieldProfilePicture)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "failed to read profile picture")
		return
	}
	defer closeFile()
	patch.ProfilePicture = picture

	if err := h.personService.UpdateProfile(r.Context(), userID, patch); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}

// ChangeOwnPassword handles PUT /person/password
// @Summary Change own password
// @Tags person
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ChangePasswordRequest true "New password"
// @Success 200 {object} models.OperationResult "Password changed"
// @Failure 400 {object} models.OperationResult "Password too short"
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 404 {object} models.OperationResult "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /person/password [put]
func (h *PersonHandler) ChangeOwnPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.personService.ChangeOwnPassword(r.Context(), userID, req.NewPassword)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondResult(w, result)
}

// optionalString returns the form value when the field was sent
func optionalString(r *http.Request, field string) *string {
	values, ok := r.MultipartForm.Value[field]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// optionalInt parses a numeric form field when it was sent with a non-blank value
func optionalInt(r *http.Request, field string) (*int, error) {
	raw := optionalString(r, field)
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*raw))
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", field)
	}
	return &n, nil
}

// requiredInt parses a numeric form field that must be present
func requiredInt(r *http.Request, field string) (int, error) {
	n, err := optionalInt(r, field)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, fmt.Errorf("%s is required", field)
	}
	return *n, nil
}

// formUpload opens an uploaded file. A missing file yields a nil upload.
// The returned close function is always safe to call.
func formUpload(r *http.Request, field string) (*models.Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}
	return &models.Upload{Filename: header.Filename, Content: file}, func() { closeQuietly(file) }, nil
}

func closeQuietly(file multipart.File) {
	_ = file.Close()
}
