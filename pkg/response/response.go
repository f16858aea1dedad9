// Package response holds the helpers handlers use to shape HTTP replies:
// reading the authenticated caller and writing the API's error envelope.
package response

import (
	"log"
	"net/http"

	"github.com/Truthtechno/LockerRoom-sub000/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// userIDKey is the context key the auth middleware stores the caller under.
const userIDKey = "user_id"

// GetUserID reads the authenticated user's ID set by the auth middleware.
// A missing or malformed value means the request never passed authentication.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}
	return userID, nil
}

// BadRequest writes the 400 error envelope with a literal message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// ResponseError maps err to its HTTP status and writes the error envelope.
// Errors that map to a 500 are logged; their text still reaches the client
// through the envelope, so services must not wrap secrets into errors.
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}
	c.JSON(code, gin.H{"error": err.Error()})
}
