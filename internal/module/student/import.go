package student

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"student-data-system/internal/global/cache"
	"student-data-system/internal/global/response"
	"student-data-system/internal/model"
	"student-data-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// importColumn binds one canonical field to its accepted spreadsheet
// column names. Names are matched against normalized headers (lowercase,
// "-" and " " folded to "_"), in order, first match wins; a field whose
// columns are all absent keeps its zero default. The synonym lists carry
// the spellings seen in the wild, e.g. "jenis_kelamin" for jk and
// "asal_smp" for asal_sekolah.
type importColumn struct {
	names  []string
	assign func(s *model.Student, val string)
}

var importColumns = []importColumn{
	{[]string{"nama"}, func(s *model.Student, v string) { s.Nama = v }},
	{[]string{"nis"}, func(s *model.Student, v string) { s.NIS = v }},
	{[]string{"jk", "jenis_kelamin"}, func(s *model.Student, v string) { s.JK = v }},
	{[]string{"tempat_lahir"}, func(s *model.Student, v string) { s.TempatLahir = v }},
	{[]string{"tanggal_lahir"}, func(s *model.Student, v string) { s.TanggalLahir = v }},
	{[]string{"nik"}, func(s *model.Student, v string) { s.NIK = v }},
	{[]string{"agama"}, func(s *model.Student, v string) { s.Agama = v }},
	{[]string{"alamat"}, func(s *model.Student, v string) { s.Alamat = v }},
	{[]string{"no_hp", "nohp"}, func(s *model.Student, v string) { s.NoHP = v }},
	{[]string{"email"}, func(s *model.Student, v string) { s.Email = v }},
	{[]string{"no_hp_ortu", "nohp_ortu"}, func(s *model.Student, v string) { s.NoHPOrtu = v }},
	{[]string{"nama_bapak"}, func(s *model.Student, v string) { s.NamaBapak = v }},
	{[]string{"pekerjaan_bapak"}, func(s *model.Student, v string) { s.PekerjaanBapak = v }},
	{[]string{"nama_ibu"}, func(s *model.Student, v string) { s.NamaIbu = v }},
	{[]string{"kelas"}, func(s *model.Student, v string) { s.Kelas = v }},
	{[]string{"asal_sekolah", "asal_smp"}, func(s *model.Student, v string) { s.AsalSekolah = v }},
	{[]string{"tb"}, func(s *model.Student, v string) { s.TB = parseIntOrZero(v) }},
	{[]string{"bb"}, func(s *model.Student, v string) { s.BB = parseIntOrZero(v) }},
}

// ImportStudents bulk-loads the first sheet of an uploaded workbook.
// Rows whose NIS already exists are skipped, never merged; the response
// carries the number of rows actually inserted.
func (m *ModuleStudent) ImportStudents(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("no file provided"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	students, err := parseWorkbook(data)
	if err != nil {
		log.Warn("unreadable import file", "error", err, "filename", fileHeader.Filename)
		response.Fail(c, response.ErrMalformedFile.WithOrigin(err))
		return
	}

	inserted, err := m.store.BulkCreate(students)
	if err != nil {
		log.Error("bulk insert failed", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if key, err := m.archive.Store(c, fileHeader.Filename, data); err != nil {
		// archival is best effort, the import already committed
		log.Warn("import archive failed", "error", err)
	} else if key != "" {
		log.Info("import archived", "key", key)
	}

	cache.Invalidate(c, m.rdb, cache.KeyStudentStats)
	log.Info("import finished", "rows", len(students), "inserted", inserted)
	response.Success(c, map[string]interface{}{
		"count": inserted,
	})
}

// parseWorkbook maps the first sheet into creation payloads. Role and
// password never come from the sheet: every imported row is a STUDENT
// whose password starts as its NIS.
func parseWorkbook(data []byte) ([]model.Student, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = normalizeHeader(h)
	}

	var students []model.Student
	for _, row := range rows[1:] {
		cells := make(map[string]string, len(headers))
		for i, header := range headers {
			if header == "" || i >= len(row) {
				continue
			}
			cells[header] = strings.TrimSpace(row[i])
		}

		var s model.Student
		for _, col := range importColumns {
			for _, name := range col.names {
				if val, ok := cells[name]; ok {
					col.assign(&s, val)
					break
				}
			}
		}
		s.Role = model.RoleStudent
		s.Password = tools.PasswordEncrypt(s.NIS)
		s.MustChangePassword = true

		students = append(students, s)
	}
	return students, nil
}

func normalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = strings.ReplaceAll(h, "-", "_")
	h = strings.ReplaceAll(h, " ", "_")
	return h
}

func parseIntOrZero(val string) int {
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return 0
	}
	return n
}
