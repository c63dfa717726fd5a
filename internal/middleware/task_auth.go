package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskflow/taskflow-api/internal/constants"
	apierrors "github.com/taskflow/taskflow-api/internal/errors"
)

// RequireTaskID checks that the :id parameter is a task identifier.
// Malformed IDs are reported exactly like missing tasks.
func RequireTaskID() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			apierrors.NotFound(c, "Task not found")
			return
		}

		c.Set(constants.ContextKeyTaskID, taskID.String())
		c.Next()
	}
}

// GetTaskID retrieves the task ID checked by RequireTaskID
func GetTaskID(c *gin.Context) (string, bool) {
	taskID, exists := c.Get(constants.ContextKeyTaskID)
	if !exists {
		return "", false
	}
	id, ok := taskID.(string)
	return id, ok
}
