package student

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"student-data-system/internal/global/database"
	"student-data-system/internal/global/jwt"
	"student-data-system/internal/global/response"
	"student-data-system/internal/model"
	"student-data-system/internal/store"
	"student-data-system/test"
	"student-data-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// newEngine builds a routed engine over a fresh database with the
// administrator seeded, exactly as cmd/server wires it (minus redis and
// the archive bucket).
func newEngine(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	db := test.NewDB(t)
	require.NoError(t, database.SeedAdmin(db, "ADMIN", "Administrator"))
	s := store.New(db)

	m := New(s, nil, nil)
	m.Init()

	r := gin.New()
	m.InitRouter(r.Group("/api"))
	return r, s
}

func seedStudent(t *testing.T, s *store.Store, nis, nama, kelas string) *model.Student {
	t.Helper()
	student := &model.Student{
		NIS:                nis,
		Nama:               nama,
		Kelas:              kelas,
		Password:           tools.PasswordEncrypt(nis),
		Role:               model.RoleStudent,
		MustChangePassword: true,
	}
	require.NoError(t, s.Create(student))
	return student
}

func adminToken(t *testing.T, s *store.Store) string {
	t.Helper()
	admin, err := s.FindByNIS("ADMIN")
	require.NoError(t, err)
	return jwt.CreateToken(jwt.Payload{
		UserID: admin.ID,
		NIS:    admin.NIS,
		Nama:   admin.Nama,
		Role:   model.RoleAdmin,
	})
}

func studentToken(st *model.Student) string {
	return jwt.CreateToken(jwt.Payload{
		UserID: st.ID,
		NIS:    st.NIS,
		Nama:   st.Nama,
		Role:   model.RoleStudent,
	})
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) (resp response.ResponseBody) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return
}

func TestListRequiresAuth(t *testing.T) {
	r, _ := newEngine(t)
	code, resp := test.Serve(t, r, http.MethodGet, "/api/student", "", nil)
	require.Equal(t, http.StatusUnauthorized, code)
	test.ErrorEqual(t, response.ErrTokenInvalid, resp)
}

func TestListRequiresAdmin(t *testing.T) {
	r, s := newEngine(t)
	st := seedStudent(t, s, "1001", "Ahmad Fauzi", "X")

	code, resp := test.Serve(t, r, http.MethodGet, "/api/student", studentToken(st), nil)
	require.Equal(t, http.StatusForbidden, code)
	test.ErrorEqual(t, response.ErrForbidden, resp)
}

func TestListFilters(t *testing.T) {
	r, s := newEngine(t)
	seedStudent(t, s, "1001", "Ahmad Fauzi", "X")
	seedStudent(t, s, "1002", "Siti Nurhaliza", "XI")
	token := adminToken(t, s)

	code, resp := test.Serve(t, r, http.MethodGet, "/api/student?kelas=XI", token, nil)
	require.Equal(t, http.StatusOK, code)
	rows := resp.Data.([]interface{})
	require.Len(t, rows, 1)
	require.Equal(t, "Siti Nurhaliza", rows[0].(map[string]interface{})["nama"])

	code, resp = test.Serve(t, r, http.MethodGet, "/api/student?search=sit", token, nil)
	require.Equal(t, http.StatusOK, code)
	rows = resp.Data.([]interface{})
	require.Len(t, rows, 1)
	require.Equal(t, "Siti Nurhaliza", rows[0].(map[string]interface{})["nama"])
}

func TestCreateStudent(t *testing.T) {
	r, s := newEngine(t)
	token := adminToken(t, s)

	code, resp := test.Serve(t, r, http.MethodPost, "/api/student", token, CreateStudentReq{
		NIS:   "1001",
		Nama:  "Ahmad Fauzi",
		Kelas: "X",
	})
	require.Equal(t, http.StatusCreated, code)
	test.NoError(t, resp)

	created, err := s.FindByNIS("1001")
	require.NoError(t, err)
	// password defaults to the NIS, hashed, and must be changed
	require.True(t, tools.PasswordCompare("1001", created.Password))
	require.True(t, created.MustChangePassword)
	require.Equal(t, model.RoleStudent, created.Role)
}

func TestCreateDuplicateConflict(t *testing.T) {
	r, s := newEngine(t)
	seedStudent(t, s, "1001", "Ahmad Fauzi", "X")

	code, resp := test.Serve(t, r, http.MethodPost, "/api/student", adminToken(t, s), CreateStudentReq{
		NIS:  "1001",
		Nama: "Imposter",
	})
	require.Equal(t, http.StatusConflict, code)
	test.ErrorEqual(t, response.ErrAlreadyExists, resp)
}

func TestCreateSecondAdminConflict(t *testing.T) {
	r, s := newEngine(t)

	code, resp := test.Serve(t, r, http.MethodPost, "/api/student", adminToken(t, s), CreateStudentReq{
		NIS:  "ADMIN2",
		Nama: "Other Admin",
		Role: model.RoleAdmin,
	})
	require.Equal(t, http.StatusConflict, code)
	test.ErrorEqual(t, response.ErrAlreadyExists, resp)
}

func TestGetSelfAndOther(t *testing.T) {
	r, s := newEngine(t)
	own := seedStudent(t, s, "1001", "Ahmad Fauzi", "X")
	other := seedStudent(t, s, "1002", "Siti Nurhaliza", "XI")
	token := studentToken(own)

	code, resp := test.Serve(t, r, http.MethodGet, fmt.Sprintf("/api/student/%d", own.ID), token, nil)
	require.Equal(t, http.StatusOK, code)
	test.NoError(t, resp)

	code, resp = test.Serve(t, r, http.MethodGet, fmt.Sprintf("/api/student/%d", other.ID), token, nil)
	require.Equal(t, http.StatusForbidden, code)
	test.ErrorEqual(t, response.ErrForbidden, resp)
}

func TestGetMissing(t *testing.T) {
	r, s := newEngine(t)
	code, resp := test.Serve(t, r, http.MethodGet, "/api/student/9999", adminToken(t, s), nil)
	require.Equal(t, http.StatusNotFound, code)
	test.ErrorEqual(t, response.ErrNotFound, resp)
}

func TestUpdateStripsRestrictedFieldsForStudent(t *testing.T) {
	r, s := newEngine(t)
	own := seedStudent(t, s, "1001", "Ahmad Fauzi", "X")

	body := map[string]any{
		"alamat": "Jl. Merdeka No. 10",
		"nis":    "9999",
		"role":   "ADMIN",
	}
	code, resp := test.Serve(t, r, http.MethodPut, fmt.Sprintf("/api/student/%d", own.ID), studentToken(own), body)
	require.Equal(t, http.StatusOK, code)
	test.NoError(t, resp)

	// submitted profile fields applied, restricted fields untouched
	updated, err := s.Get(own.ID)
	require.NoError(t, err)
	require.Equal(t, "Jl. Merdeka No. 10", updated.Alamat)
	require.Equal(t, "1001", updated.NIS)
	require.Equal(t, model.RoleStudent, updated.Role)
}

func TestUpdateByAdmin(t *testing.T) {
	r, s := newEngine(t)
	st := seedStudent(t, s, "1001", "Ahmad Fauzi", "X")

	body := map[string]any{"kelas": "XI", "nis": "1001-A"}
	code, resp := test.Serve(t, r, http.MethodPut, fmt.Sprintf("/api/student/%d", st.ID), adminToken(t, s), body)
	require.Equal(t, http.StatusOK, code)
	test.NoError(t, resp)

	updated, err := s.Get(st.ID)
	require.NoError(t, err)
	require.Equal(t, "XI", updated.Kelas)
	require.Equal(t, "1001-A", updated.NIS)
}

func TestDeleteLifecycle(t *testing.T) {
	r, s := newEngine(t)
	st := seedStudent(t, s, "1001", "Ahmad Fauzi", "X")
	token := adminToken(t, s)
	target := fmt.Sprintf("/api/student/%d", st.ID)

	// student cannot delete, not even itself
	code, resp := test.Serve(t, r, http.MethodDelete, target, studentToken(st), nil)
	require.Equal(t, http.StatusForbidden, code)
	test.ErrorEqual(t, response.ErrForbidden, resp)

	code, resp = test.Serve(t, r, http.MethodDelete, target, token, nil)
	require.Equal(t, http.StatusOK, code)
	test.NoError(t, resp)

	code, resp = test.Serve(t, r, http.MethodGet, target, token, nil)
	require.Equal(t, http.StatusNotFound, code)
	test.ErrorEqual(t, response.ErrNotFound, resp)

	code, resp = test.Serve(t, r, http.MethodDelete, target, token, nil)
	require.Equal(t, http.StatusNotFound, code)
	test.ErrorEqual(t, response.ErrNotFound, resp)
}

func TestExportStudents(t *testing.T) {
	r, s := newEngine(t)
	seedStudent(t, s, "1001", "Ahmad Fauzi", "X")

	w := test.ServeRaw(t, r, http.MethodGet, "/api/student/export", adminToken(t, s), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, tools.ExcelContentType, w.Header().Get("Content-Type"))
	require.NotZero(t, w.Body.Len())
}
