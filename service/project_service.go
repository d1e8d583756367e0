// file: service/project_service.go

package service

import (
	"database/sql"
	"errors"
	"go-collab-api/logger"
	"go-collab-api/model"
	"go-collab-api/repository"

	"github.com/sirupsen/logrus"
)

var (
	ErrDuplicateProject = errors.New("a project with this name already exists for this user")
	ErrProjectNotFound  = errors.New("project not found")
	ErrNotAMember       = errors.New("you are not a member of this project")
	ErrUserNotFound     = errors.New("one or more users do not exist")
)

// ProjectService handles project creation, membership, and file-tree
// persistence. Project names are unique per creator, not globally.
type ProjectService struct {
	projectRepo repository.IProjectRepository
}

func NewProjectService(projectRepo repository.IProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

// CreateProject creates a project with the owner as its sole member and an
// empty file tree.
func (s *ProjectService) CreateProject(ownerID int, name string) (*model.Project, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"owner_id": ownerID,
		"name":     name,
	})
	log.Info("Creating project")

	project := &model.Project{
		Name:      name,
		CreatedBy: ownerID,
		FileTree:  model.FileTree{},
	}

	if err := s.projectRepo.CreateProject(project); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateProject
		}
		return nil, err
	}

	// Reload so the response carries the member list the insert produced.
	return s.projectRepo.GetProjectByID(project.ID)
}

// AddCollaborators appends users to the project's member set. The requester
// must already be a member; duplicates in the incoming list collapse through
// the set semantics of the membership table.
func (s *ProjectService) AddCollaborators(projectID, requesterID int, userIDs []int) (*model.Project, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"project_id":   projectID,
		"requester_id": requesterID,
		"user_ids":     userIDs,
	})

	member, err := s.projectRepo.IsMember(projectID, requesterID)
	if err != nil {
		return nil, err
	}
	if !member {
		// Distinguish a missing project from a membership failure.
		if _, err := s.projectRepo.GetProjectByID(projectID); err != nil {
			if err == sql.ErrNoRows {
				return nil, ErrProjectNotFound
			}
			return nil, err
		}
		log.Warn("Non-member attempted to add collaborators")
		return nil, ErrNotAMember
	}

	unique := dedupe(userIDs)
	count, err := s.projectRepo.CountUsersByIDs(unique)
	if err != nil {
		return nil, err
	}
	if count != len(unique) {
		return nil, ErrUserNotFound
	}

	if err := s.projectRepo.AddMembers(projectID, unique); err != nil {
		return nil, err
	}

	log.Info("Collaborators added")
	return s.projectRepo.GetProjectByID(projectID)
}

// ListProjectsForUser returns all projects where the user is a member.
func (s *ProjectService) ListProjectsForUser(userID int) ([]*model.Project, error) {
	projects, err := s.projectRepo.GetProjectsForUser(userID)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	return projects, nil
}

func (s *ProjectService) GetProject(projectID int) (*model.Project, error) {
	project, err := s.projectRepo.GetProjectByID(projectID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// UpdateFileTree replaces the project's snapshot wholesale. Last writer wins.
func (s *ProjectService) UpdateFileTree(projectID int, tree model.FileTree) (*model.Project, error) {
	if err := s.projectRepo.UpdateFileTree(projectID, tree); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return s.projectRepo.GetProjectByID(projectID)
}

// IsMember reports whether the user belongs to the project. Used by the
// realtime room before admitting a connection.
func (s *ProjectService) IsMember(projectID, userID int) (bool, error) {
	return s.projectRepo.IsMember(projectID, userID)
}

func dedupe(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
