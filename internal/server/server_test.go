package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key"

// fakeUploader records uploads instead of talking to object storage.
type fakeUploader struct {
	lastKey  string
	lastType string
	fail     bool
}

func (f *fakeUploader) Upload(_ context.Context, key, contentType string, _ []byte) (string, error) {
	if f.fail {
		return "", fmt.Errorf("storage unavailable")
	}
	f.lastKey = key
	f.lastType = contentType
	return "https://cdn.test/avatars/" + key, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// newTestApp wires a full app over in-memory sqlite with the cache disabled
// and a fake avatar store.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *fakeUploader) {
	t.Helper()
	cache.SetClient(nil)

	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	uploader := &fakeUploader{}

	srv := NewServerWithDeps(
		&config.Config{JWTSecret: testSecret, Env: "test"},
		service.NewPostService(postRepo),
		service.NewUserService(userRepo, postRepo),
		service.NewAdminService(userRepo, postRepo),
		uploader,
	)

	app := fiber.New()
	srv.SetupRoutes(app)
	return app, db, uploader
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role) models.User {
	t.Helper()
	user := models.User{
		Email:        email,
		PasswordHash: "hashed",
		Name:         "Test User",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func makeToken(t *testing.T, id uint, role models.Role) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(id), 10),
		"iss":  tokenIssuer,
		"aud":  tokenAudience,
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// doJSON issues a request with an optional JSON body and bearer token and
// decodes the response body into a generic map.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func jsonDecode(r io.Reader, dest any) error {
	return json.NewDecoder(r).Decode(dest)
}

// doJSONList is doJSON for endpoints that return a top-level JSON array.
func doJSONList(t *testing.T, app *fiber.App, method, path, token string) (int, []map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded []map[string]any
	if len(raw) > 0 && raw[0] == '[' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}
