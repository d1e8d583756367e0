package handler

import (
	"encoding/json"
	"go-collab-api/common"
	"go-collab-api/model"
	"go-collab-api/service"
	"net/http"
	"strconv"
)

// ProjectHandler holds dependencies for project-related handlers.
type ProjectHandler struct {
	service *service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler with its dependencies.
func NewProjectHandler(s *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: s}
}

// Create godoc
// @Summary      Create a project
// @Description  Creates a project owned by the authenticated user, who becomes its sole member. Project names are unique per owner.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        project body model.CreateProjectRequest true "Project payload"
// @Success      201  {object}  map[string]model.Project
// @Failure      400  {object}  common.AppError "Validation failure or duplicate name"
// @Failure      401  {object}  common.AppError
// @Router       /projects/create [post]
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateProjectRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, ok := UserFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user in request context", nil)
	}

	project, err := h.service.CreateProject(user.ID, req.Name)
	if err != nil {
		switch err {
		case service.ErrDuplicateProject:
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not create project", err)
		}
	}

	writeProject(w, http.StatusCreated, project)
	return nil
}

// ListAll godoc
// @Summary      List the authenticated user's projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]model.Project
// @Failure      401  {object}  common.AppError
// @Router       /projects/all [get]
func (h *ProjectHandler) ListAll(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, ok := UserFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user in request context", nil)
	}

	projects, err := h.service.ListProjectsForUser(user.ID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve projects", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string][]*model.Project{"projects": projects})
	return nil
}

// Get godoc
// @Summary      Get a single project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Project ID"
// @Success      200  {object}  map[string]model.Project
// @Failure      400  {object}  common.AppError "Invalid project ID"
// @Failure      401  {object}  common.AppError
// @Failure      404  {object}  common.AppError "Project not found"
// @Router       /projects/get-project/{id} [get]
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) *common.AppError {
	projectID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid project ID", err)
	}

	project, err := h.service.GetProject(projectID)
	if err != nil {
		switch err {
		case service.ErrProjectNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not retrieve project", err)
		}
	}

	writeProject(w, http.StatusOK, project)
	return nil
}

// AddUsers godoc
// @Summary      Add collaborators to a project
// @Description  Appends users to the member set. Requires the requester to already be a member; re-adding an existing member is a no-op.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload body model.AddUsersRequest true "Project and user IDs"
// @Success      200  {object}  map[string]model.Project
// @Failure      400  {object}  common.AppError "Validation failure or unknown users"
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError "Requester is not a member"
// @Failure      404  {object}  common.AppError "Project not found"
// @Router       /projects/add-user [put]
func (h *ProjectHandler) AddUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.AddUsersRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, ok := UserFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user in request context", nil)
	}

	project, err := h.service.AddCollaborators(req.ProjectID, user.ID, req.Users)
	if err != nil {
		switch err {
		case service.ErrProjectNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case service.ErrNotAMember:
			return common.NewAppError(http.StatusForbidden, err.Error(), err)
		case service.ErrUserNotFound:
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not add collaborators", err)
		}
	}

	writeProject(w, http.StatusOK, project)
	return nil
}

// UpdateFileTree godoc
// @Summary      Replace a project's file tree
// @Description  Overwrites the stored snapshot wholesale. Concurrent writers race and the later write wins.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload body model.UpdateFileTreeRequest true "Project ID and full file tree"
// @Success      200  {object}  map[string]model.Project
// @Failure      400  {object}  common.AppError "Validation failure"
// @Failure      401  {object}  common.AppError
// @Failure      404  {object}  common.AppError "Project not found"
// @Router       /projects/update-file-tree [put]
func (h *ProjectHandler) UpdateFileTree(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateFileTreeRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	project, err := h.service.UpdateFileTree(req.ProjectID, req.FileTree)
	if err != nil {
		switch err {
		case service.ErrProjectNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not update file tree", err)
		}
	}

	writeProject(w, http.StatusOK, project)
	return nil
}

// SaveProject godoc
// @Summary      Save a project's file tree
// @Description  Alias of update-file-tree kept for the workspace client's save button.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload body model.UpdateFileTreeRequest true "Project ID and full file tree"
// @Success      200  {object}  map[string]model.Project
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /projects/save-project [put]
func (h *ProjectHandler) SaveProject(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.UpdateFileTree(w, r)
}

func writeProject(w http.ResponseWriter, status int, project *model.Project) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]*model.Project{"project": project})
}
