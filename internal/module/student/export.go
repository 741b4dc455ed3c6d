package student

import (
	"fmt"
	"net/url"
	"time"

	"student-data-system/internal/global/response"
	"student-data-system/internal/store"
	"student-data-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Siswa"

// ExportStudents streams the whole roster as an .xlsx workbook.
func (m *ModuleStudent) ExportStudents(c *gin.Context) {
	students, err := m.store.List(store.Filter{})
	if err != nil {
		log.Error("roster query failed", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := tools.ExportToExcel(f, exportSheet, students); err != nil {
		log.Error("workbook build failed", "error", err)
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	// drop the default sheet so the export opens on the data
	if idx, err := f.GetSheetIndex(exportSheet); err == nil {
		f.SetActiveSheet(idx)
	}
	_ = f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("data-siswa-%s.xlsx", time.Now().Format("2006-01-02"))
	escaped := url.QueryEscape(filename)
	c.Header("Content-Type", tools.ExcelContentType)
	c.Header(
		"Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, escaped, escaped),
	)

	if err := f.Write(c.Writer); err != nil {
		log.Error("export write failed", "error", err)
	}
}
