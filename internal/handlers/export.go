package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/boardwatch/internal/export"
	"github.com/jonesrussell/boardwatch/internal/logger"
	"github.com/jonesrussell/boardwatch/internal/repository"
)

// Export formats and record types.
const (
	formatCSV   = "csv"
	formatExcel = "xlsx"

	exportScan  = "scan"
	exportProbe = "probe"
)

const (
	contentTypeCSV   = "text/csv"
	contentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler renders stored records as downloadable files.
type ExportHandler struct {
	repo   *repository.Repository
	logger logger.Logger
}

// NewExportHandler wires the export endpoint.
func NewExportHandler(repo *repository.Repository, log logger.Logger) *ExportHandler {
	return &ExportHandler{repo: repo, logger: log}
}

// Get serves one record as CSV or xlsx.
// Query params: type=scan|probe (default scan), format=csv|xlsx (default csv).
func (h *ExportHandler) Get(c *gin.Context) {
	id := c.Param("id")
	recordType := c.DefaultQuery("type", exportScan)
	format := c.DefaultQuery("format", formatCSV)

	if format != formatCSV && format != formatExcel {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown export format", "format": format})
		return
	}

	var (
		payload []byte
		err     error
	)

	switch recordType {
	case exportScan:
		payload, err = h.exportScan(c, id, format)
	case exportProbe:
		payload, err = h.exportProbe(c, id, format)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown export type", "type": recordType})
		return
	}

	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	if err != nil {
		h.logger.Error("Export failed",
			logger.String("record_id", id),
			logger.String("type", recordType),
			logger.String("format", format),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
		return
	}

	filename := fmt.Sprintf("%s-%s.%s", recordType, id, format)
	contentType := contentTypeCSV
	if format == formatExcel {
		contentType = contentTypeExcel
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

func (h *ExportHandler) exportScan(c *gin.Context, id, format string) ([]byte, error) {
	record, err := h.repo.GetScan(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if format == formatExcel {
		return export.ScanToExcel(record)
	}
	return []byte(export.ScanToCSV(record)), nil
}

func (h *ExportHandler) exportProbe(c *gin.Context, id, format string) ([]byte, error) {
	session, err := h.repo.GetProbeSession(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if format == formatExcel {
		return export.ProbeToExcel(session)
	}
	return []byte(export.ProbeToCSV(session)), nil
}
