package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"user-service/internal/models"
	"user-service/internal/service"
)

// InternalUserController serves other backend services (the auth service registers users here).
// Routes are guarded by middleware.InternalCallOnly rather than a principal.
type InternalUserController struct {
	userService service.UserService
}

func NewInternalUserController(userService service.UserService) *InternalUserController {
	return &InternalUserController{userService: userService}
}

// Create handles POST /api/internal/users/
func (ic *InternalUserController) Create(c *gin.Context) {
	var req models.UserDto
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	user, err := ic.userService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /api/internal/users/:id
func (ic *InternalUserController) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := ic.userService.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetByID handles GET /api/internal/users/:id
func (ic *InternalUserController) GetByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := ic.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// FindByEmail handles GET /api/internal/users/find-by-email?email=
func (ic *InternalUserController) FindByEmail(c *gin.Context) {
	email, err := requiredQuery(c, "email")
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := ic.userService.GetByEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
