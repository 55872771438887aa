package handler

import (
	"fmt"
	"net/http"
	"strings"

	"giornobene/internal/logger"
	"giornobene/internal/model"
	"giornobene/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type ExportHandler struct {
	svc *service.LogService
}

func NewExportHandler(svc *service.LogService) *ExportHandler { return &ExportHandler{svc: svc} }

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export handles GET /api/export?year=&month= — one xlsx row per meal,
// rating and symptoms repeated per day.
func (h *ExportHandler) Export(c *gin.Context) {
	year, month, ok := parseMonthQuery(c)
	if !ok {
		return
	}
	from, to := monthRange(year, month)
	logs, err := h.svc.ListLogs(c.Request.Context(), userID(c), from, to)
	if err != nil {
		writeError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Diario"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Data", "Benessere", "Sintomi", "Pasto", "Orario", "Descrizione", "Ingredienti", "Allergeni", "Carboidrati (g)", "Proteine (g)", "Grassi (g)"}
	for i, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	row := 2
	for _, log := range logs {
		symptoms := formatSymptoms(log.Symptoms)
		if len(log.Meals) == 0 {
			writeRow(f, sheet, row, []any{log.Date, log.WellbeingRating, symptoms})
			row++
			continue
		}
		for _, meal := range log.Meals {
			values := []any{log.Date, log.WellbeingRating, symptoms, meal.Type, meal.Time, meal.Description}
			if meal.Analysis != nil {
				values = append(values,
					strings.Join(meal.Analysis.Ingredients, ", "),
					formatAllergens(meal.Analysis.Allergens),
					meal.Analysis.Macros.Carbohydrates,
					meal.Analysis.Macros.Protein,
					meal.Analysis.Macros.Fat,
				)
			}
			writeRow(f, sheet, row, values)
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		writeError(c, fmt.Errorf("build xlsx: %w", err))
		return
	}

	filename := fmt.Sprintf("giornobene_%04d-%02d.xlsx", year, month)
	logger.Info("export generated", "user", userID(c), "file", filename, "rows", row-2)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxMIME, buf.Bytes())
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}

func formatSymptoms(symptoms []model.Symptom) string {
	parts := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		parts = append(parts, fmt.Sprintf("%s:%d", s.Category, s.Intensity))
	}
	return strings.Join(parts, ", ")
}

func formatAllergens(allergens []model.Allergen) string {
	parts := make([]string, 0, len(allergens))
	for _, a := range allergens {
		parts = append(parts, a.Name)
	}
	return strings.Join(parts, ", ")
}
