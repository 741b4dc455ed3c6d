package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"student-data-system/internal/global/database"
	"student-data-system/internal/global/jwt"
	"student-data-system/internal/global/response"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewDB opens an in-memory sqlite database with the schema applied.
// MaxOpenConns is pinned to 1 so every query sees the same memory store.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

// DoRequest runs one bare handler against a JSON body.
func DoRequest(t *testing.T, handlerFunc gin.HandlerFunc, request any) (resp response.ResponseBody) {
	t.Helper()
	return DoRequestAs(t, handlerFunc, nil, nil, request)
}

// DoRequestAs runs one bare handler with an authenticated payload and
// optional route params already set, the way the middleware would.
func DoRequestAs(t *testing.T, handlerFunc gin.HandlerFunc, claims *jwt.Claims, params gin.Params, request any) (resp response.ResponseBody) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	requestBytes, err := json.Marshal(request)
	require.NoError(t, err)
	c.Request = httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(requestBytes))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	if claims != nil {
		c.Set("payload", claims)
	}

	handlerFunc(c)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return
}

// Serve routes one request through a full engine, with an optional
// bearer token, and decodes the envelope.
func Serve(t *testing.T, r http.Handler, method, target, token string, body any) (int, response.ResponseBody) {
	t.Helper()
	w := ServeRaw(t, r, method, target, token, body)
	var resp response.ResponseBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return w.Code, resp
}

// ServeRaw is Serve without envelope decoding, for binary responses.
func ServeRaw(t *testing.T, r http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		requestBytes, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(requestBytes)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
