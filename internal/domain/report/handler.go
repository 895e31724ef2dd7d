package report

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nutricare/nutricare/pkg/pagination"
)

const (
	defaultDietType = "Balanced"
	defaultAge      = 25
)

type Handler struct {
	svc       *Service
	uploadDir string
}

func NewHandler(svc *Service, uploadDir string) *Handler {
	return &Handler{svc: svc, uploadDir: uploadDir}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/upload/", h.Upload)
	api.POST("/upload", h.Upload)
	api.GET("/reports", h.List)
	api.GET("/reports/:id", h.Get)
}

// Upload accepts a multipart medical report, runs the pipeline, and returns
// the structured extraction with the generated plan.
func (h *Handler) Upload(c echo.Context) error {
	file, err := c.FormFile("report_file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "report_file is required")
	}

	dietType := c.FormValue("diet_type")
	if dietType == "" {
		dietType = defaultDietType
	}

	age := defaultAge
	if raw := c.FormValue("age"); raw != "" {
		age, err = strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "age must be a whole number")
		}
	}

	path, err := h.saveUpload(file)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	rep, err := h.svc.Process(c.Request().Context(), path, dietType, age)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Report processed successfully",
		"id":      rep.ID,
		"patient_info": echo.Map{
			"name":   rep.Extracted.PatientName,
			"age":    rep.Extracted.Age,
			"gender": rep.Extracted.Gender,
		},
		"medical_data": echo.Map{
			"blood_sugar":       rep.Extracted.BloodSugar,
			"cholesterol":       rep.Extracted.Cholesterol,
			"bmi":               rep.Extracted.BMI,
			"hemoglobin":        rep.Extracted.Hemoglobin,
			"total_protein":     rep.Extracted.TotalProtein,
			"albumin":           rep.Extracted.Albumin,
			"abnormal_findings": rep.Extracted.AbnormalFindings,
		},
		"diet_plan":        rep.Plan,
		"plan_source":      rep.PlanSource,
		"raw_text_preview": rep.RawTextPreview,
	})
}

func (h *Handler) saveUpload(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload dir: %w", err)
	}

	name := uuid.New().String() + filepath.Ext(file.Filename)
	path := filepath.Join(h.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return path, nil
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rep, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "report not found")
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Report{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
