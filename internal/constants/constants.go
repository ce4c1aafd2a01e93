package constants

// ContextKeyUserID is the gin context / session key holding the local user ID.
const ContextKeyUserID = "user_id"

// ContextKeyUser is the gin context key holding the resolved *models.User.
const ContextKeyUser = "user"

// MessageHistoryLimit caps how many chat messages a single fetch returns.
const MessageHistoryLimit = 100

// Names used when task creation has to seed the initial board structure.
const (
	DefaultTeamName           = "Default Team"
	DefaultTeamDescription    = "Default team for tasks"
	DefaultProjectName        = "Default Project"
	DefaultProjectDescription = "Default project for tasks"
)
