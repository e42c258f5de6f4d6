package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"user-service/internal/models"
	"user-service/internal/service"
)

type CardInfoController struct {
	cardService service.CardInfoService
}

func NewCardInfoController(cardService service.CardInfoService) *CardInfoController {
	return &CardInfoController{cardService: cardService}
}

// GetByID handles GET /api/cards/:id
func (cc *CardInfoController) GetByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	card, err := cc.cardService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// FindByNumber handles GET /api/cards/find-by-number?number=
func (cc *CardInfoController) FindByNumber(c *gin.Context) {
	number, err := requiredQuery(c, "number")
	if err != nil {
		respondError(c, err)
		return
	}
	card, err := cc.cardService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// FindByIDs handles GET /api/cards/find-by-ids?ids=1&ids=2
func (cc *CardInfoController) FindByIDs(c *gin.Context) {
	ids, err := queryIDs(c)
	if err != nil {
		respondError(c, err)
		return
	}
	cards, err := cc.cardService.GetByIDs(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// GetByUserID handles GET /api/cards/user/:userId
func (cc *CardInfoController) GetByUserID(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}
	cards, err := cc.cardService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// Expired handles GET /api/cards/expired
func (cc *CardInfoController) Expired(c *gin.Context) {
	cards, err := cc.cardService.GetExpired(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// GetAll handles GET /api/cards/all
func (cc *CardInfoController) GetAll(c *gin.Context) {
	cards, err := cc.cardService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// Paginated handles GET /api/cards/paginated?page=0&size=10
func (cc *CardInfoController) Paginated(c *gin.Context) {
	page, size, err := pageParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := cc.cardService.GetPage(c.Request.Context(), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create handles POST /api/cards/
func (cc *CardInfoController) Create(c *gin.Context) {
	var req models.CardInfoDto
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	card, err := cc.cardService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// Update handles PUT /api/cards/:id
func (cc *CardInfoController) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req models.CardInfoDto
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	card, err := cc.cardService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// Delete handles DELETE /api/cards/:id
func (cc *CardInfoController) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	card, err := cc.cardService.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}
