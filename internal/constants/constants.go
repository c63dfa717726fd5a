package constants

const (
	// ContextKeyUserID is the gin context key holding the authenticated user id.
	ContextKeyUserID = "user_id"
	// ContextKeyTaskID is the gin context key holding the validated :id parameter.
	ContextKeyTaskID = "task_id"

	MaxTitleLength       = 100
	MaxDescriptionLength = 500

	MaxAIGeneratedTasks = 20
	MaxAIInputLength    = 4000

	DateLayout = "2006-01-02"
)
