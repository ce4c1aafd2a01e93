package repository

import (
	"github.com/projectflow/projectflow-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by local ID
func (r *GormUserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindBySubjectID finds a user by identity-provider subject
func (r *GormUserRepository) FindBySubjectID(subjectID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("subject_id = ?", subjectID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertBySubject inserts the user unless the subject is already present.
// The unique index on subject_id makes concurrent first requests converge
// on a single row; the losing insert is a no-op and the re-fetch returns
// whichever row won.
func (r *GormUserRepository) UpsertBySubject(user *models.User) (*models.User, error) {
	err := r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject_id"}},
			DoNothing: true,
		}).
		Create(user).Error
	if err != nil {
		return nil, err
	}

	return r.FindBySubjectID(user.SubjectID)
}

// List returns all users ordered by name
func (r *GormUserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CountByIDs counts how many of the given user IDs exist
func (r *GormUserRepository) CountByIDs(ids []string) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}
