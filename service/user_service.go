package service

import (
	"go-collab-api/model"
	"go-collab-api/repository"
)

// UserService handles user-related business logic.
type UserService struct {
	userRepo repository.IUserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListOtherUsers returns every registered user except the requester, shaped
// for the collaborator picker.
func (s *UserService) ListOtherUsers(requesterID int) ([]model.PublicUser, error) {
	users, err := s.userRepo.GetAllUsersExcept(requesterID)
	if err != nil {
		return nil, err
	}

	public := make([]model.PublicUser, 0, len(users))
	for _, user := range users {
		public = append(public, user.Public())
	}
	return public, nil
}
