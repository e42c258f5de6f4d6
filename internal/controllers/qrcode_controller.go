package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"user-service/internal/service"
)

type QRCodeController struct {
	userService service.UserService
	baseURL     string
}

func NewQRCodeController(userService service.UserService, baseURL string) *QRCodeController {
	return &QRCodeController{
		userService: userService,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// ProfileQRCode handles GET /api/users/:id/qrcode - PNG QR code linking to the user's profile page
func (qc *QRCodeController) ProfileQRCode(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	// Only existing users get a code; this also warms the user cache.
	if _, err := qc.userService.GetByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	profileURL := fmt.Sprintf("%s/users/%d", qc.baseURL, id)

	qrCode, err := qrcode.New(profileURL, qrcode.Medium)
	if err != nil {
		respondError(c, fmt.Errorf("failed to generate QR code: %w", err))
		return
	}

	pngData, err := qrCode.PNG(256)
	if err != nil {
		respondError(c, fmt.Errorf("failed to render QR code: %w", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=user-%d.png", id))
	c.Data(http.StatusOK, "image/png", pngData)
}
