package http

import (
	"context"
	"net/http"
	"strconv"

	"greeterbot/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

const maxUsageDays = 366

type UsageReader interface {
	GetUsageHistory(ctx context.Context, days int) ([]repository.DailyUsage, error)
}

// WhatsAppPairing exposes the pairing state of the WhatsApp device
type WhatsAppPairing interface {
	GetQR() string
	IsLoggedIn() bool
	GetUserInfo() (string, string)
}

type AdminHandler struct {
	usage    UsageReader
	whatsapp WhatsAppPairing
}

// NewAdminHandler accepts nil for either dependency when its feature is disabled
func NewAdminHandler(usage UsageReader, whatsapp WhatsAppPairing) *AdminHandler {
	return &AdminHandler{usage: usage, whatsapp: whatsapp}
}

// GetUsage returns per-platform daily counters for the last ?days= days (default 7)
func (h *AdminHandler) GetUsage(c *gin.Context) {
	if h.usage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Usage storage not configured"})
		return
	}

	days := 7
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxUsageDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 366"})
			return
		}
		days = n
	}

	usage, err := h.usage.GetUsageHistory(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch usage"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "usage": usage})
}

// GetWhatsAppQR returns the pairing QR code as PNG
func (h *AdminHandler) GetWhatsAppQR(c *gin.Context) {
	if h.whatsapp == nil {
		c.String(http.StatusServiceUnavailable, "WhatsApp not configured")
		return
	}

	code := h.whatsapp.GetQR()
	if code == "" {
		if h.whatsapp.IsLoggedIn() {
			c.String(http.StatusOK, "Already logged in")
			return
		}
		c.String(http.StatusAccepted, "QR code not yet available. Please wait...")
		return
	}

	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GetWhatsAppStatus returns the WhatsApp connection status
func (h *AdminHandler) GetWhatsAppStatus(c *gin.Context) {
	if h.whatsapp == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false, "connected": false})
		return
	}

	phone, name := h.whatsapp.GetUserInfo()
	c.JSON(http.StatusOK, gin.H{
		"enabled":   true,
		"connected": h.whatsapp.IsLoggedIn(),
		"phone":     phone,
		"name":      name,
		"hasQR":     h.whatsapp.GetQR() != "",
	})
}
