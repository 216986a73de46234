package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"

	"grid-mix/internal/analysis"
	"grid-mix/internal/api/models"
	"grid-mix/internal/data"
	"grid-mix/internal/model"
	"grid-mix/internal/output"
	"grid-mix/internal/pipeline"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MixHandler runs the pipeline and serves its latest output.
type MixHandler struct {
	runner       *pipeline.Runner
	defaultHours int
	csvPath      string
	xlsxPath     string

	// runs share the output file, so only one runs at a time
	runMu sync.Mutex
}

// NewMixHandler creates a new mix handler
func NewMixHandler(runner *pipeline.Runner, defaultHours int, csvPath, xlsxPath string) *MixHandler {
	if csvPath == "" {
		csvPath = output.DefaultCSVPath
	}
	return &MixHandler{
		runner:       runner,
		defaultHours: defaultHours,
		csvPath:      csvPath,
		xlsxPath:     xlsxPath,
	}
}

// RunPipeline handles POST /api/v1/pipeline/run
func (h *MixHandler) RunPipeline(c *gin.Context) {
	var req models.RunRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}
	hours := h.defaultHours
	if req.Hours != nil {
		hours = *req.Hours
	}

	h.runMu.Lock()
	res, err := h.runner.Run(c.Request.Context(), pipeline.Options{
		Hours:    hours,
		CSVPath:  h.csvPath,
		XLSXPath: h.xlsxPath,
	})
	h.runMu.Unlock()
	if err != nil {
		writeRunError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.RunResponse{
		Status:       "ok",
		Window:       models.TimeWindow{Start: res.Window.Start, End: res.Window.End},
		FuelInstRows: res.FuelInstRows,
		DemandRows:   res.DemandRows,
		RowsWritten:  res.RowsWritten,
		CSVPath:      res.CSVPath,
		XLSXPath:     res.XLSXPath,
		Summary:      analysis.Summarize(res.Table),
	})
}

// GetMix handles GET /api/v1/mix
func (h *MixHandler) GetMix(c *gin.Context) {
	table, ok := h.loadLatest(c)
	if !ok {
		return
	}
	rows := make([]models.MixRow, 0, table.Len())
	for _, r := range table.Rows {
		rows = append(rows, models.MixRow{Timestamp: r.Timestamp, Values: r.Values})
	}
	c.JSON(http.StatusOK, models.MixResponse{
		Columns: table.Header(),
		Count:   len(rows),
		Rows:    rows,
	})
}

// GetSummary handles GET /api/v1/mix/summary
func (h *MixHandler) GetSummary(c *gin.Context) {
	table, ok := h.loadLatest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analysis.Summarize(table))
}

// ExportXLSX handles GET /api/v1/mix/export.xlsx
func (h *MixHandler) ExportXLSX(c *gin.Context) {
	table, ok := h.loadLatest(c)
	if !ok {
		return
	}
	raw, err := output.BuildMixXLSX(table)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "EXPORT_ERROR",
				Message: err.Error(),
			},
		})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="combined_energy_data.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, raw)
}

func (h *MixHandler) loadLatest(c *gin.Context) (*model.MixTable, bool) {
	table, err := output.ReadMixCSV(h.csvPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "NO_OUTPUT",
					Message: "no pipeline output yet; run the pipeline first",
				},
			})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "OUTPUT_READ_ERROR",
				Message: fmt.Sprintf("Failed to read output: %v", err),
			},
		})
		return nil, false
	}
	return table, true
}

// writeRunError maps pipeline errors onto HTTP responses.
func writeRunError(c *gin.Context, err error) {
	var fe *data.FetchError
	var mc *pipeline.MissingColumnError
	var ej *pipeline.EmptyJoinError

	switch {
	case errors.As(err, &fe):
		status := http.StatusBadGateway
		if fe.Timeout() {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    fe.Code,
				Message: fe.Error(),
				Details: map[string]interface{}{
					"source":      fe.Source,
					"status_code": fe.StatusCode,
				},
			},
		})
	case errors.As(err, &mc):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "MISSING_COLUMN",
				Message: mc.Error(),
				Details: map[string]interface{}{"columns": mc.Columns},
			},
		})
	case errors.As(err, &ej):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "EMPTY_JOIN",
				Message: ej.Error(),
				Details: map[string]interface{}{
					"fuelinst_rows": ej.FuelInstRows,
					"demand_rows":   ej.DemandRows,
				},
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "PIPELINE_ERROR",
				Message: err.Error(),
			},
		})
	}
}
