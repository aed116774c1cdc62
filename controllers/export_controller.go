package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"uprate/backend/models"
)

var exportHeader = []any{"ID", "Unique ID", "Name", "Slug", "Type", "Color Scheme", "Google Link", "Review Page Link", "Lat", "Lng", "Questions", "Created At", "Updated At"}

// ExportBusinesses streams the (optionally filtered) business list as xlsx.
func ExportBusinesses(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := reqCtx(c)
		defer cancel()
		items, err := env.Businesses.List(ctx, c.Query("q"))
		if err != nil {
			respondErr(c, err, "")
			return
		}
		f, err := BusinessWorkbook(items)
		if err != nil {
			log.Printf("export workbook error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		defer f.Close()
		name := fmt.Sprintf("businesses-%s.xlsx", time.Now().UTC().Format("20060102"))
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Status(http.StatusOK)
		if err := f.Write(c.Writer); err != nil {
			log.Printf("export write error: %v", err)
		}
	}
}

// BusinessWorkbook lays out one row per business on a "Businesses" sheet.
func BusinessWorkbook(items []models.Business) (*excelize.File, error) {
	const sheet = "Businesses"
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		f.Close()
		return nil, err
	}
	for i, b := range items {
		qs := make([]string, 0, len(b.Questions))
		for _, q := range b.Questions {
			qs = append(qs, q.Question+" ["+strings.Join(q.Answers, " / ")+"]")
		}
		row := []any{
			b.ID, b.UniqueID, b.Name, b.Slug, strings.Join(b.Type, ", "), string(b.ColorScheme),
			b.GoogleLink, b.ReviewPageLink, b.Location.Lat, b.Location.Lng, strings.Join(qs, "\n"),
			time.UnixMilli(b.CreatedAt).UTC().Format(time.RFC3339), time.UnixMilli(b.UpdatedAt).UTC().Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}
