package services

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/projectflow/projectflow-api/internal/database"
	"github.com/projectflow/projectflow-api/internal/identity"
	"github.com/projectflow/projectflow-api/internal/models"
	"github.com/projectflow/projectflow-api/internal/repository"
)

// UserServiceTestSuite defines the test suite for UserService
type UserServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *UserService
}

// SetupTest runs before each test
func (suite *UserServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{})
	suite.Require().NoError(err)
	database.SetDB(suite.db)

	suite.service = NewUserService(repository.NewUserRepository(suite.db))
}

// TearDownTest runs after each test
func (suite *UserServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func claimsFor(subject, name, email string) *identity.Claims {
	return &identity.Claims{
		Name:             name,
		Email:            email,
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
	}
}

// TestEnsureLocalUser_CreatesOnFirstSight tests first-login provisioning
func (suite *UserServiceTestSuite) TestEnsureLocalUser_CreatesOnFirstSight() {
	user, err := suite.service.EnsureLocalUser(claimsFor("provider|1", "Alice", "alice@example.com"))

	suite.Require().NoError(err)
	assert.NotEmpty(suite.T(), user.ID)
	assert.Equal(suite.T(), "provider|1", user.SubjectID)
	assert.Equal(suite.T(), "Alice", user.Name)
	assert.Equal(suite.T(), "alice@example.com", user.Email)
	assert.Equal(suite.T(), models.RoleMember, user.Role)
}

// TestEnsureLocalUser_Idempotent tests that repeat calls return the same row
func (suite *UserServiceTestSuite) TestEnsureLocalUser_Idempotent() {
	first, err := suite.service.EnsureLocalUser(claimsFor("provider|1", "Alice", "alice@example.com"))
	suite.Require().NoError(err)

	second, err := suite.service.EnsureLocalUser(claimsFor("provider|1", "Alice Renamed", "new@example.com"))
	suite.Require().NoError(err)

	assert.Equal(suite.T(), first.ID, second.ID)
	// The existing row wins; claims on later logins do not overwrite it
	assert.Equal(suite.T(), "Alice", second.Name)

	var count int64
	suite.db.Model(&models.User{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestEnsureLocalUser_PlaceholderFields tests sparse provider claims
func (suite *UserServiceTestSuite) TestEnsureLocalUser_PlaceholderFields() {
	user, err := suite.service.EnsureLocalUser(claimsFor("provider|2", "", ""))

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "New User", user.Name)
	assert.Equal(suite.T(), "provider|2@placeholder.local", user.Email)
}

// TestEnsureLocalUser_MissingSubject tests claims with no subject
func (suite *UserServiceTestSuite) TestEnsureLocalUser_MissingSubject() {
	_, err := suite.service.EnsureLocalUser(claimsFor("", "Nobody", ""))
	assert.Error(suite.T(), err)

	_, err = suite.service.EnsureLocalUser(nil)
	assert.Error(suite.T(), err)
}

// TestGetUser_NotFound tests lookup of a missing user
func (suite *UserServiceTestSuite) TestGetUser_NotFound() {
	_, err := suite.service.GetUser("missing")
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
}

// TestListUsers_OrderedByName tests the directory ordering
func (suite *UserServiceTestSuite) TestListUsers_OrderedByName() {
	for _, name := range []string{"carol", "alice", "bob"} {
		_, err := suite.service.EnsureLocalUser(claimsFor("subj_"+name, name, name+"@example.com"))
		suite.Require().NoError(err)
	}

	users, err := suite.service.ListUsers()
	suite.Require().NoError(err)
	suite.Require().Len(users, 3)
	assert.Equal(suite.T(), "alice", users[0].Name)
	assert.Equal(suite.T(), "bob", users[1].Name)
	assert.Equal(suite.T(), "carol", users[2].Name)
}

// TestSuite runs the test suite
func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
