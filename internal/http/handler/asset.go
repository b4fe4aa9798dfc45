package handler

import (
	"net/http"
	"studio-service/internal/auth"
	"studio-service/internal/service"

	"github.com/labstack/echo/v4"
)

type AssetHandler struct {
	assets        AssetService
	maxUploadSize int64
}

func NewAssetHandler(assets AssetService, maxUploadSize int64) *AssetHandler {
	return &AssetHandler{assets: assets, maxUploadSize: maxUploadSize}
}

// UploadAsset takes a multipart form with a "file" part and optional
// "type", "notes" and "metadata" (JSON object) fields.
func (h *AssetHandler) UploadAsset(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	upload, err := readUpload(c, h.maxUploadSize)
	if err != nil {
		return err
	}
	metadata, err := formMetadataParam(c)
	if err != nil {
		return err
	}

	a, err := h.assets.UploadAsset(c.Request().Context(), actor, service.UploadAssetRequest{
		ProjectID: projectID,
		Type:      c.FormValue(formType),
		Notes:     c.FormValue(formNotes),
		Metadata:  metadata,
		File:      upload,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *AssetHandler) ListAssets(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	assets, err := h.assets.ListAssets(c.Request().Context(), actor, projectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) GetFinalAsset(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	a, err := h.assets.GetFinalAsset(c.Request().Context(), actor, projectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AssetHandler) MarkFinal(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	a, err := h.assets.MarkAssetAsFinal(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AssetHandler) DeleteAsset(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	if err := h.assets.DeleteAsset(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, msgAssetDeleted)
}
