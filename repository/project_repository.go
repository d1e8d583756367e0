// file: repository/project_repository.go

package repository

import (
	"database/sql"
	"encoding/json"
	"go-collab-api/logger"
	"go-collab-api/model"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// IProjectRepository defines the contract for project persistence.
type IProjectRepository interface {
	CreateProject(project *model.Project) error
	GetProjectByID(id int) (*model.Project, error)
	GetProjectsForUser(userID int) ([]*model.Project, error)
	AddMembers(projectID int, userIDs []int) error
	IsMember(projectID, userID int) (bool, error)
	UpdateFileTree(projectID int, tree model.FileTree) error
	CountUsersByIDs(userIDs []int) (int, error)
}

// ProjectRepository implements IProjectRepository on postgres. The file tree
// lives in a jsonb column and is always written wholesale.
type ProjectRepository struct {
	DB *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

// CreateProject inserts the project and its creator's membership row in one
// transaction so a project can never exist without at least one member.
func (r *ProjectRepository) CreateProject(project *model.Project) error {
	log := logger.Log.WithFields(logrus.Fields{
		"name":       project.Name,
		"created_by": project.CreatedBy,
	})
	log.Info("Executing query to create a new project")

	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	treeJSON, err := json.Marshal(project.FileTree)
	if err != nil {
		return err
	}

	query := `INSERT INTO projects (name, created_by, file_tree) VALUES ($1, $2, $3) RETURNING id, created_at`
	err = tx.QueryRow(query, project.Name, project.CreatedBy, treeJSON).Scan(&project.ID, &project.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create project query")
		return err
	}

	_, err = tx.Exec(`INSERT INTO project_users (project_id, user_id) VALUES ($1, $2)`, project.ID, project.CreatedBy)
	if err != nil {
		log.WithError(err).Error("Failed to insert creator membership")
		return err
	}

	return tx.Commit()
}

func (r *ProjectRepository) GetProjectByID(id int) (*model.Project, error) {
	project := &model.Project{}
	var treeJSON []byte

	query := `SELECT id, name, created_by, file_tree, created_at FROM projects WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&project.ID, &project.Name, &project.CreatedBy, &treeJSON, &project.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("project_id", id).Error("Failed to execute get project query")
		}
		return nil, err
	}

	if err := json.Unmarshal(treeJSON, &project.FileTree); err != nil {
		return nil, err
	}

	members, err := r.getMembers(project.ID)
	if err != nil {
		return nil, err
	}
	project.Users = members

	return project, nil
}

// GetProjectsForUser retrieves every project the user is a member of,
// membership lists included.
func (r *ProjectRepository) GetProjectsForUser(userID int) ([]*model.Project, error) {
	query := `SELECT p.id, p.name, p.created_by, p.file_tree, p.created_at
		FROM projects p
		JOIN project_users pu ON pu.project_id = p.id
		WHERE pu.user_id = $1
		ORDER BY p.created_at DESC`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to execute list projects query")
		return nil, err
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		project := &model.Project{}
		var treeJSON []byte
		if err := rows.Scan(&project.ID, &project.Name, &project.CreatedBy, &treeJSON, &project.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(treeJSON, &project.FileTree); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, project := range projects {
		members, err := r.getMembers(project.ID)
		if err != nil {
			return nil, err
		}
		project.Users = members
	}

	return projects, nil
}

// AddMembers appends users to the project's member set. Re-adding an existing
// member is a no-op thanks to ON CONFLICT DO NOTHING.
func (r *ProjectRepository) AddMembers(projectID int, userIDs []int) error {
	log := logger.Log.WithFields(logrus.Fields{
		"project_id": projectID,
		"user_ids":   userIDs,
	})
	log.Info("Executing query to add project members")

	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO project_users (project_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, userID := range userIDs {
		if _, err := tx.Exec(query, projectID, userID); err != nil {
			log.WithError(err).Error("Failed to insert project membership")
			return err
		}
	}

	return tx.Commit()
}

func (r *ProjectRepository) IsMember(projectID, userID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM project_users WHERE project_id = $1 AND user_id = $2)`
	err := r.DB.QueryRow(query, projectID, userID).Scan(&exists)
	return exists, err
}

// UpdateFileTree replaces the project's snapshot wholesale. Concurrent
// writers race and the later one wins; there is no merge.
func (r *ProjectRepository) UpdateFileTree(projectID int, tree model.FileTree) error {
	treeJSON, err := json.Marshal(tree)
	if err != nil {
		return err
	}

	result, err := r.DB.Exec(`UPDATE projects SET file_tree = $1 WHERE id = $2`, treeJSON, projectID)
	if err != nil {
		logger.Log.WithError(err).WithField("project_id", projectID).Error("Failed to execute update file tree query")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountUsersByIDs reports how many of the given ids exist, so the service can
// reject collaborator lists that reference unknown users.
func (r *ProjectRepository) CountUsersByIDs(userIDs []int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE id = ANY($1)`
	err := r.DB.QueryRow(query, pq.Array(userIDs)).Scan(&count)
	return count, err
}

func (r *ProjectRepository) getMembers(projectID int) ([]model.PublicUser, error) {
	query := `SELECT u.id, u.email
		FROM users u
		JOIN project_users pu ON pu.user_id = u.id
		WHERE pu.project_id = $1
		ORDER BY u.id`
	rows, err := r.DB.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []model.PublicUser{}
	for rows.Next() {
		var member model.PublicUser
		if err := rows.Scan(&member.ID, &member.Email); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}
