package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"studio-service/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	contentTypeJSON          = "application/json"
	maxStrictBodyBytes int64 = 1 << 20
)

func bindStrictJSON(c echo.Context, dst any) error {
	if !strings.HasPrefix(strings.ToLower(c.Request().Header.Get(echo.HeaderContentType)), contentTypeJSON) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, msgContentTypeJSONRequired)
	}

	body := io.LimitReader(c.Request().Body, maxStrictBodyBytes)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}

	return nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf(msgInvalidIDFmt, name))
	}
	return id, nil
}

func queryLimitParam(c echo.Context) (int, error) {
	raw := c.QueryParam(queryLimit)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, msgInvalidLimit)
	}
	return n, nil
}

// readUpload pulls the "file" part of a multipart form into memory. At most
// maxSize+1 bytes are read so the service can reject oversized files.
func readUpload(c echo.Context, maxSize int64) (service.Upload, error) {
	fh, err := c.FormFile(formFile)
	if err != nil {
		return service.Upload{}, echo.NewHTTPError(http.StatusBadRequest, msgMissingFile)
	}

	src, err := fh.Open()
	if err != nil {
		return service.Upload{}, echo.NewHTTPError(http.StatusBadRequest, msgReadUploadFailed)
	}
	defer src.Close()

	body, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return service.Upload{}, echo.NewHTTPError(http.StatusBadRequest, msgReadUploadFailed)
	}

	return service.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Body:        body,
	}, nil
}

func formMetadataParam(c echo.Context) (map[string]any, error) {
	raw := c.FormValue(formMetadata)
	if raw == "" {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, msgInvalidMetadata)
	}
	return out, nil
}
