package handlers

import (
	"context"
	"net/http"

	"github.com/damacus/iron-presign/internal/models"
	"github.com/damacus/iron-presign/internal/services"
	"github.com/labstack/echo/v4"
)

// Presigner is the orchestrator the handler delegates to
type Presigner interface {
	Presign(ctx context.Context, key models.ObjectKey) (services.Outcome, error)
}

// PresignResponse is the JSON body of a successful request
type PresignResponse struct {
	URL          string `json:"url"`
	StorageClass string `json:"storageClass"`
	ExpiresIn    int    `json:"expiresIn"`
}

type PresignHandler struct {
	presigner Presigner
}

func NewPresignHandler(presigner Presigner) *PresignHandler {
	return &PresignHandler{presigner: presigner}
}

// GetPresigned returns a short-lived download URL for ?key=
func (h *PresignHandler) GetPresigned(c echo.Context) error {
	key := models.ObjectKey(c.QueryParam("key"))
	if !key.Valid() {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing key"})
	}

	out, err := h.presigner.Presign(c.Request().Context(), key)
	if err != nil {
		if services.KindOf(err) == services.KindBlockedByPolicy {
			return c.JSON(http.StatusConflict, ErrorResponse{
				Error:         string(services.KindBlockedByPolicy),
				Message:       out.Eligibility.Reason,
				StorageClass:  out.Eligibility.Tier.String(),
				RestoreStatus: out.Eligibility.Restore.String(),
			})
		}
		return JSONError(c, err)
	}

	return c.JSON(http.StatusOK, PresignResponse{
		URL:          out.Link.URL,
		StorageClass: out.Eligibility.Tier.String(),
		ExpiresIn:    out.Link.ExpiresInSeconds,
	})
}
