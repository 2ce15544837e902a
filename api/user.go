package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dzahariev/usergate/common"
	"github.com/dzahariev/usergate/model"
	"github.com/dzahariev/usergate/service"
	"github.com/gofrs/uuid/v5"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type validationErrorResponse struct {
	Error  string             `json:"error"`
	Fields []model.FieldError `json:"fields"`
}

// Hello returns the name of the authenticated caller
func (server *Server) Hello(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := common.GetLogger(ctx)
	principal := common.GetPrincipal(ctx)
	if principal == nil {
		logger.Error("Missing principal in context")
		ERROR(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}
	logger.Debug("Hello request received")
	TEXT(w, http.StatusOK, principal.Name())
}

// CreateUser creates a user in the identity provider
func (server *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := common.GetLogger(ctx)
	logger.Debug("CreateUser request received")

	request := &model.UserRequest{}
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		logger.Error("Error decoding request body", zap.Error(err))
		ERROR(w, http.StatusBadRequest, errors.New("malformed request body"))
		return
	}

	if err := server.Users.Create(ctx, request); err != nil {
		writeServiceError(w, logger, err)
		return
	}
	logger.Debug("User created successfully", zap.String("username", request.Username))
	w.WriteHeader(http.StatusOK)
}

// GetUser loads a user with its roles by given ID
func (server *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := common.GetLogger(ctx)
	logger.Debug("GetUser request received")

	vars := mux.Vars(r)
	uid, err := uuid.FromString(vars["id"])
	if err != nil {
		logger.Error("Error parsing UUID from request", zap.Error(err))
		ERROR(w, http.StatusBadRequest, err)
		return
	}

	user, err := server.Users.Get(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, err)
		return
	}
	logger.Debug("User retrieved successfully", zap.Stringer("id", uid))
	JSON(w, http.StatusOK, user)
}

// writeServiceError maps service errors to responses. A missing user is
// reported like any other provider failure.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		logger.Debug("Validation failed", zap.Error(err))
		JSON(w, http.StatusBadRequest, validationErrorResponse{Error: "validation failed", Fields: validationErr.Fields})
	case errors.Is(err, service.ErrUserNotFound):
		logger.Error("User not found", zap.Error(err))
		ERROR(w, http.StatusInternalServerError, errInternal)
	default:
		logger.Error("Identity provider request failed", zap.Error(err))
		ERROR(w, http.StatusInternalServerError, errInternal)
	}
}
