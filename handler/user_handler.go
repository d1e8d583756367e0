package handler

import (
	"encoding/json"
	"go-collab-api/common"
	"go-collab-api/model"
	"go-collab-api/service"
	"net/http"
)

type UserHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

func NewUserHandler(auth *service.AuthService, users *service.UserService) *UserHandler {
	return &UserHandler{auth: auth, users: users}
}

// authResponse is the body returned by register and login.
type authResponse struct {
	User  model.PublicUser `json:"user"`
	Token string           `json:"token"`
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a user account and returns the user together with a bearer token.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user body model.RegisterRequest true "Registration payload"
// @Success      201  {object}  handler.authResponse
// @Failure      400  {object}  common.AppError "Validation failure or duplicate email"
// @Failure      500  {object}  common.AppError
// @Router       /users/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, token, err := h.auth.Register(req)
	if err != nil {
		switch err {
		case service.ErrDuplicateUser:
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not create user", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(authResponse{User: user.Public(), Token: token})
	return nil
}

// Login godoc
// @Summary      Log a user in
// @Description  Verifies credentials and returns the user together with a bearer token. Unknown email and wrong password are indistinguishable in the response.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Login payload"
// @Success      200  {object}  handler.authResponse
// @Failure      400  {object}  common.AppError "Validation failure"
// @Failure      401  {object}  common.AppError "Invalid credentials"
// @Router       /users/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, token, err := h.auth.Login(req)
	if err != nil {
		switch err {
		case service.ErrInvalidCredentials:
			return common.NewAppError(http.StatusUnauthorized, "Invalid credentials", err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not log in", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(authResponse{User: user.Public(), Token: token})
	return nil
}

// Profile godoc
// @Summary      Get the authenticated user's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]model.PublicUser
// @Failure      401  {object}  common.AppError
// @Router       /users/profile [get]
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, ok := UserFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user in request context", nil)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]model.PublicUser{"user": user.Public()})
	return nil
}

// Logout godoc
// @Summary      Log the authenticated user out
// @Description  Places the presented token on the revocation denylist for 24 hours.
// @Tags         users
// @Produce      plain
// @Security     BearerAuth
// @Success      200  {string}  string "Logged out successfully"
// @Failure      401  {object}  common.AppError
// @Router       /users/logout [get]
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	token, ok := r.Context().Value(TokenKey).(string)
	if !ok || token == "" {
		return common.NewAppError(http.StatusUnauthorized, "Invalid token in request context", nil)
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not log out", err)
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Logged out successfully"))
	return nil
}

// GetAllUsers godoc
// @Summary      List all users except the requester
// @Description  Backs the collaborator picker on the project screen.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]model.PublicUser
// @Failure      401  {object}  common.AppError
// @Router       /users/all [get]
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, ok := UserFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user in request context", nil)
	}

	users, err := h.users.ListOtherUsers(user.ID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve users", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string][]model.PublicUser{"users": users})
	return nil
}
