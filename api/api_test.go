package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fileshare/file-api/db"
	"fileshare/file-api/middleware"
	"fileshare/file-api/security"
	"fileshare/file-api/service"
	"fileshare/file-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testCryptoKey = "test-crypto-key"

func newTestAPI(t *testing.T) *API {
	t.Helper()
	gin.SetMode(gin.TestMode)

	viper.Set("security.jwt_secret", "test-secret")
	viper.Set("security.admin_password", "admin-pass")
	viper.Set("security.cron_secret", "")
	viper.Set("upload.max_size", int64(32<<20))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	d, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(d))

	settings, err := service.NewSettings(d)
	require.NoError(t, err)

	cipher := service.NewCipher(testCryptoKey)

	a := &API{
		DB:       d,
		Store:    storage.NewMemStore(),
		Argon:    security.NewArgon(),
		Settings: settings,
		Cipher:   cipher,
		// No lookup URLs so a missing header can't trigger real
		// network calls from tests
		IP: &service.IPResolver{Client: &http.Client{Timeout: time.Second}},
	}

	a.Trash = &service.Trash{Store: a.Store}
	a.Uploader = &service.Uploader{DB: d, Store: a.Store, Argon: a.Argon, Cipher: cipher}

	r := gin.New()
	r.Use(middleware.NewRequestIDMiddleware())
	a.Router = r
	a.mountRoutes(r)

	return a
}

func do(a *API, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

// uploadRaw posts one multipart file and returns the raw recorder
func uploadRaw(t *testing.T, a *API, ip, filename, content string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(content))
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Forwarded-For", ip)

	return do(a, req)
}

// uploadFile pushes one file through the real upload endpoint and
// returns the generated file id
func uploadFile(t *testing.T, a *API, ip, filename, content string, fields map[string]string) string {
	t.Helper()

	w := uploadRaw(t, a, ip, filename, content, fields)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	body := jsonBody(t, w)
	data := body["data"].(map[string]any)
	id := data["id"].(string)
	require.NotEmpty(t, id)
	require.Equal(t, "/file/"+id, data["url"])

	return id
}

// adminLogin logs in through the real endpoint and returns the session
// cookie to attach to guarded requests
func adminLogin(t *testing.T, a *API) *http.Cookie {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"password":"admin-pass"}`))
	req.Header.Set("Content-Type", "application/json")

	w := do(a, req)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AdminCookie {
			return c
		}
	}

	t.Fatal("no admin session cookie in login response")
	return nil
}

func adminReq(a *API, cookie *http.Cookie, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(cookie)

	return do(a, req)
}
