package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"user-service/internal/apperrors"
	"user-service/internal/middleware"
	"user-service/internal/models"
	"user-service/internal/service"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

// Hello handles GET /api/users/hello - greets the caller by name.
// The token subject is either an email or a numeric user id.
func (uc *UserController) Hello(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c.Request.Context())
	if !ok {
		respondError(c, apperrors.Unauthenticated("Authentication is required"))
		return
	}

	var (
		user *models.UserDto
		err  error
	)
	if strings.Contains(principal.Subject, "@") {
		user, err = uc.userService.GetByEmail(c.Request.Context(), principal.Subject)
	} else if id, parseErr := strconv.ParseInt(principal.Subject, 10, 64); parseErr == nil {
		user, err = uc.userService.GetByID(c.Request.Context(), id)
	} else {
		err = apperrors.NotFound("User", "subject", principal.Subject)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.GreetingResponse{
		Message: "Welcome, " + user.Name + " " + user.Surname,
	})
}

// GetByID handles GET /api/users/:id
func (uc *UserController) GetByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := uc.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// FindByEmail handles GET /api/users/find-by-email?email=
func (uc *UserController) FindByEmail(c *gin.Context) {
	email, err := requiredQuery(c, "email")
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := uc.userService.GetByEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// FindByIDs handles GET /api/users/find-by-ids?ids=1&ids=2
func (uc *UserController) FindByIDs(c *gin.Context) {
	ids, err := queryIDs(c)
	if err != nil {
		respondError(c, err)
		return
	}
	users, err := uc.userService.GetByIDs(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// FindByRole handles GET /api/users/find-by-role?role=USER
func (uc *UserController) FindByRole(c *gin.Context) {
	role, err := requiredQuery(c, "role")
	if err != nil {
		respondError(c, err)
		return
	}
	users, err := uc.userService.GetByRole(c.Request.Context(), role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// BornAfter handles GET /api/users/born-after?date=1990-01-01
func (uc *UserController) BornAfter(c *gin.Context) {
	raw, err := requiredQuery(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}
	date, err := models.ParseDate(raw)
	if err != nil {
		respondError(c, apperrors.Validation(map[string]string{"date": "Date must be in yyyy-MM-dd format"}))
		return
	}
	users, err := uc.userService.GetBornAfter(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetAll handles GET /api/users/all
func (uc *UserController) GetAll(c *gin.Context) {
	users, err := uc.userService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Paginated handles GET /api/users/paginated?page=0&size=10
func (uc *UserController) Paginated(c *gin.Context) {
	page, size, err := pageParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := uc.userService.GetPage(c.Request.Context(), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Update handles PUT /api/users/:id
func (uc *UserController) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req models.UserDto
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	user, err := uc.userService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /api/users/:id - admin only
func (uc *UserController) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := uc.userService.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
