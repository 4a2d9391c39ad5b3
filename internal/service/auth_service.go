package service

import (
	"errors"
	"exam_system_backend/internal/config"
	"exam_system_backend/internal/model"
	"exam_system_backend/internal/repository"
	"exam_system_backend/internal/util"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	TeacherRepo *repository.TeacherRepository
	Cfg         *config.Config
}

func NewAuthService(teacherRepo *repository.TeacherRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		TeacherRepo: teacherRepo,
		Cfg:         cfg,
	}
}

// LoginInput is shared by the HTML form and the JSON API.
type LoginInput struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Register creates a teacher with a bcrypt-hashed password.
func (s *AuthService) Register(orgID uint, username, password, fullName string) (*model.Teacher, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || strings.TrimSpace(fullName) == "" {
		return nil, util.NewValidationError("Username, password and full name are required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	teacher := &model.Teacher{
		OrgID:    orgID,
		Username: username,
		Password: string(hashedPassword),
		FullName: strings.TrimSpace(fullName),
		Status:   model.StatusActive,
	}
	if err := s.TeacherRepo.Create(teacher); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.NewValidationError("Username already taken")
		}
		return nil, err
	}
	return teacher, nil
}

// Login checks the credentials of an active teacher in an active organization.
func (s *AuthService) Login(in LoginInput) (*repository.TeacherWithOrg, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, util.NewValidationError("Please enter username and password")
	}

	teacher, err := s.TeacherRepo.FindActiveByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find teacher: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(teacher.Password), []byte(in.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}
	return teacher, nil
}

// IssueToken signs an API token for a logged-in teacher.
func (s *AuthService) IssueToken(teacher *repository.TeacherWithOrg) (string, error) {
	return util.GenerateJWT(teacher.ID, teacher.OrgID, teacher.Username, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}
