package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/projectflow/projectflow-api/internal/constants"
	"github.com/projectflow/projectflow-api/internal/dto"
	"github.com/projectflow/projectflow-api/internal/models"
	"github.com/projectflow/projectflow-api/internal/policy"
	"github.com/projectflow/projectflow-api/internal/repository"
	"github.com/projectflow/projectflow-api/internal/services"
)

// TeamHandlerTestSuite defines the test suite for TeamHandler
type TeamHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TeamHandler
}

// SetupTest runs before each test
func (suite *TeamHandlerTestSuite) SetupTest() {
	suite.db = openTestDB(&suite.Suite)

	userRepo := repository.NewUserRepository(suite.db)
	teamRepo := repository.NewTeamRepository(suite.db)

	teamService := services.NewTeamService(teamRepo, userRepo)
	evaluator := policy.NewEvaluator(teamRepo)

	suite.handler = NewTeamHandler(teamService, evaluator)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TeamHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TeamHandlerTestSuite) createTestUser(name string, role models.UserRole) *models.User {
	user := &models.User{
		SubjectID: "subj_" + name,
		Name:      name,
		Email:     name + "@example.com",
		Role:      role,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *TeamHandlerTestSuite) authContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if user != nil {
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
	}

	return c, w
}

// TestListTeams_Success tests team listing with member counts
func (suite *TeamHandlerTestSuite) TestListTeams_Success() {
	user := suite.createTestUser("alice", models.RoleMember)
	team := &models.Team{Name: "Design"}
	suite.Require().NoError(suite.db.Create(team).Error)
	member := &models.TeamMember{TeamID: team.ID, UserID: user.ID, Role: models.TeamRoleMember}
	suite.Require().NoError(suite.db.Create(member).Error)

	c, w := suite.authContext("GET", "/api/teams", nil, user)

	suite.handler.ListTeams(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response []dto.TeamDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	suite.Require().Len(response, 1)
	assert.Equal(suite.T(), "Design", response[0].Name)
	assert.Equal(suite.T(), 1, response[0].MemberCount)
	assert.Equal(suite.T(), user.ID, response[0].Members[0].User.ID)
}

// TestCreateTeam_Admin tests team creation by an admin
func (suite *TeamHandlerTestSuite) TestCreateTeam_Admin() {
	admin := suite.createTestUser("root", models.RoleAdmin)
	member := suite.createTestUser("alice", models.RoleMember)

	requestBody := map[string]interface{}{
		"name":        "Platform",
		"description": "Infra work",
		"member_ids":  []string{member.ID},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.authContext("POST", "/api/teams", body, admin)

	suite.handler.CreateTeam(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TeamDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Platform", response.Name)
	assert.Equal(suite.T(), "purple", response.Color) // default
	assert.Equal(suite.T(), admin.ID, response.CreatedByID)
	suite.Require().Len(response.Members, 1)
	assert.Equal(suite.T(), member.ID, response.Members[0].User.ID)
	assert.Equal(suite.T(), models.TeamRoleMember, response.Members[0].Role)
}

// TestCreateTeam_NonAdmin tests that regular users cannot create teams
func (suite *TeamHandlerTestSuite) TestCreateTeam_NonAdmin() {
	user := suite.createTestUser("alice", models.RoleMember)

	requestBody := map[string]interface{}{"name": "Rogue Team"}
	body, _ := json.Marshal(requestBody)

	c, w := suite.authContext("POST", "/api/teams", body, user)

	suite.handler.CreateTeam(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var count int64
	suite.db.Model(&models.Team{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestCreateTeam_MissingName tests that a blank name is rejected
func (suite *TeamHandlerTestSuite) TestCreateTeam_MissingName() {
	admin := suite.createTestUser("root", models.RoleAdmin)

	requestBody := map[string]interface{}{"name": "  "}
	body, _ := json.Marshal(requestBody)

	c, w := suite.authContext("POST", "/api/teams", body, admin)

	suite.handler.CreateTeam(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var count int64
	suite.db.Model(&models.Team{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestCreateTeam_UnknownMember tests rejection of non-existent member ids
func (suite *TeamHandlerTestSuite) TestCreateTeam_UnknownMember() {
	admin := suite.createTestUser("root", models.RoleAdmin)

	requestBody := map[string]interface{}{
		"name":       "Platform",
		"member_ids": []string{"no-such-user"},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.authContext("POST", "/api/teams", body, admin)

	suite.handler.CreateTeam(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateTeam_Unauthorized tests anonymous creation
func (suite *TeamHandlerTestSuite) TestCreateTeam_Unauthorized() {
	requestBody := map[string]interface{}{"name": "Team"}
	body, _ := json.Marshal(requestBody)

	c, w := suite.authContext("POST", "/api/teams", body, nil)

	suite.handler.CreateTeam(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestSuite runs the test suite
func TestTeamHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TeamHandlerTestSuite))
}
