package student

import (
	"strconv"

	"student-data-system/internal/global/authz"
	"student-data-system/internal/global/cache"
	"student-data-system/internal/global/jwt"
	"student-data-system/internal/global/response"
	"student-data-system/internal/model"
	"student-data-system/internal/store"
	"student-data-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// ListStudentsReq carries the roster filters. Kelas matches exactly,
// Search matches nama or NIS case-insensitively.
type ListStudentsReq struct {
	Kelas  string `form:"kelas"`
	Search string `form:"search"`
}

// ListStudents returns the filtered roster, nama ascending.
func (m *ModuleStudent) ListStudents(c *gin.Context) {
	var req ListStudentsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	students, err := m.store.List(store.Filter{Kelas: req.Kelas, Search: req.Search})
	if err != nil {
		log.Error("roster query failed", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, students)
}

// GetStudent returns one record; a student session may only read its
// own row.
func (m *ModuleStudent) GetStudent(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	switch authz.Decide(payload, authz.OpRead, id) {
	case authz.DenyUnauthenticated:
		response.Fail(c, response.ErrTokenInvalid)
		return
	case authz.DenyForbidden:
		response.Fail(c, response.ErrForbidden)
		return
	}

	student, err := m.store.Get(id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Fail(c, response.ErrNotFound)
		return
	case err != nil:
		log.Error("database query failed", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, student)
}

// CreateStudentReq mirrors the record fields. The password cannot be
// supplied: it is always the NIS, hashed, with the must-change flag set.
type CreateStudentReq struct {
	NIS            string     `json:"nis" binding:"required"`
	Nama           string     `json:"nama" binding:"required"`
	Role           model.Role `json:"role"`
	JK             string     `json:"jk"`
	TempatLahir    string     `json:"tempat_lahir"`
	TanggalLahir   string     `json:"tanggal_lahir"`
	NIK            string     `json:"nik"`
	Agama          string     `json:"agama"`
	Alamat         string     `json:"alamat"`
	NoHP           string     `json:"no_hp"`
	Email          string     `json:"email"`
	NoHPOrtu       string     `json:"no_hp_ortu"`
	NamaBapak      string     `json:"nama_bapak"`
	PekerjaanBapak string     `json:"pekerjaan_bapak"`
	NamaIbu        string     `json:"nama_ibu"`
	Kelas          string     `json:"kelas"`
	AsalSekolah    string     `json:"asal_sekolah"`
	TB             int        `json:"tb"`
	BB             int        `json:"bb"`
}

func (m *ModuleStudent) CreateStudent(c *gin.Context) {
	var req CreateStudentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	role := req.Role
	if role == "" {
		role = model.RoleStudent
	}
	if !role.Valid() {
		response.Fail(c, response.ErrInvalidRequest.WithTips("unknown role"))
		return
	}

	student := model.Student{
		NIS:                req.NIS,
		Nama:               req.Nama,
		Password:           tools.PasswordEncrypt(req.NIS),
		Role:               role,
		MustChangePassword: true,
		JK:                 req.JK,
		TempatLahir:        req.TempatLahir,
		TanggalLahir:       req.TanggalLahir,
		NIK:                req.NIK,
		Agama:              req.Agama,
		Alamat:             req.Alamat,
		NoHP:               req.NoHP,
		Email:              req.Email,
		NoHPOrtu:           req.NoHPOrtu,
		NamaBapak:          req.NamaBapak,
		PekerjaanBapak:     req.PekerjaanBapak,
		NamaIbu:            req.NamaIbu,
		Kelas:              req.Kelas,
		AsalSekolah:        req.AsalSekolah,
		TB:                 req.TB,
		BB:                 req.BB,
	}

	err := m.store.Create(&student)
	switch {
	case errors.Is(err, store.ErrDuplicateNIS):
		log.Warn("duplicate nis on create", "nis", req.NIS)
		response.Fail(c, response.ErrAlreadyExists.WithTips("nis already registered"))
		return
	case errors.Is(err, store.ErrAdminExists):
		response.Fail(c, response.ErrAlreadyExists.WithTips("an admin account already exists"))
		return
	case err != nil:
		log.Error("create failed", "error", err, "nis", req.NIS)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	cache.Invalidate(c, m.rdb, cache.KeyStudentStats)
	log.Info("student created", "nis", student.NIS, "kelas", student.Kelas)
	response.Created(c, student)
}

// UpdateStudentReq uses pointer fields so absent keys stay untouched.
type UpdateStudentReq struct {
	NIS            *string     `json:"nis"`
	Role           *model.Role `json:"role"`
	Password       *string     `json:"password"`
	Nama           *string     `json:"nama"`
	JK             *string     `json:"jk"`
	TempatLahir    *string     `json:"tempat_lahir"`
	TanggalLahir   *string     `json:"tanggal_lahir"`
	NIK            *string     `json:"nik"`
	Agama          *string     `json:"agama"`
	Alamat         *string     `json:"alamat"`
	NoHP           *string     `json:"no_hp"`
	Email          *string     `json:"email"`
	NoHPOrtu       *string     `json:"no_hp_ortu"`
	NamaBapak      *string     `json:"nama_bapak"`
	PekerjaanBapak *string     `json:"pekerjaan_bapak"`
	NamaIbu        *string     `json:"nama_ibu"`
	Kelas          *string     `json:"kelas"`
	AsalSekolah    *string     `json:"asal_sekolah"`
	TB             *int        `json:"tb"`
	BB             *int        `json:"bb"`
}

// UpdateStudent applies a partial update. A student session may only
// touch its own row, and its nis/role/password values are silently
// dropped rather than rejected.
func (m *ModuleStudent) UpdateStudent(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	switch authz.Decide(payload, authz.OpUpdate, id) {
	case authz.DenyUnauthenticated:
		response.Fail(c, response.ErrTokenInvalid)
		return
	case authz.DenyForbidden:
		response.Fail(c, response.ErrForbidden)
		return
	}

	var req UpdateStudentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	isAdmin := payload != nil && payload.Role == model.RoleAdmin
	fields := map[string]any{}

	if isAdmin {
		if req.NIS != nil {
			fields["nis"] = *req.NIS
		}
		if req.Role != nil {
			if !req.Role.Valid() {
				response.Fail(c, response.ErrInvalidRequest.WithTips("unknown role"))
				return
			}
			fields["role"] = string(*req.Role)
		}
		if req.Password != nil {
			fields["password"] = tools.PasswordEncrypt(*req.Password)
			fields["must_change_password"] = true
		}
	}

	setString := func(column string, val *string) {
		if val != nil {
			fields[column] = *val
		}
	}
	setString("nama", req.Nama)
	setString("jk", req.JK)
	setString("tempat_lahir", req.TempatLahir)
	setString("tanggal_lahir", req.TanggalLahir)
	setString("nik", req.NIK)
	setString("agama", req.Agama)
	setString("alamat", req.Alamat)
	setString("no_hp", req.NoHP)
	setString("email", req.Email)
	setString("no_hp_ortu", req.NoHPOrtu)
	setString("nama_bapak", req.NamaBapak)
	setString("pekerjaan_bapak", req.PekerjaanBapak)
	setString("nama_ibu", req.NamaIbu)
	setString("kelas", req.Kelas)
	setString("asal_sekolah", req.AsalSekolah)
	if req.TB != nil {
		fields["tb"] = *req.TB
	}
	if req.BB != nil {
		fields["bb"] = *req.BB
	}

	student, err := m.store.Update(id, fields)
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Fail(c, response.ErrNotFound)
		return
	case errors.Is(err, store.ErrDuplicateNIS):
		response.Fail(c, response.ErrAlreadyExists.WithTips("nis already registered"))
		return
	case errors.Is(err, store.ErrAdminExists):
		response.Fail(c, response.ErrAlreadyExists.WithTips("an admin account already exists"))
		return
	case err != nil:
		log.Error("update failed", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	cache.Invalidate(c, m.rdb, cache.KeyStudentStats)
	log.Info("student updated", "id", id, "by", payload.NIS)
	response.Success(c, student)
}

// DeleteStudent removes a record unconditionally.
func (m *ModuleStudent) DeleteStudent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := m.store.Delete(id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Fail(c, response.ErrNotFound)
		return
	case err != nil:
		log.Error("delete failed", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	cache.Invalidate(c, m.rdb, cache.KeyStudentStats)
	log.Info("student deleted", "id", id)
	response.Success(c, map[string]interface{}{
		"message": "student deleted",
	})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid id"))
		return 0, false
	}
	return uint(id), true
}
