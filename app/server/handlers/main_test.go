package handlers

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"virtual-hospital/app/server/constants"
	"virtual-hospital/app/server/jwt"
	"virtual-hospital/app/server/password"
	"virtual-hospital/app/server/types"
)

// 测试共享一对 RSA 密钥，避免每个用例都重新生成
var testRSAKey = sync.OnceValue(func() *rsa.PrivateKey {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	return key
})

func newTestApp(t *testing.T) (*App, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	key := testRSAKey()
	j, err := jwt.New(key, &key.PublicKey, time.Hour)
	require.NoError(t, err)

	return NewApp(zap.NewNop(), db, j, false), mock
}

// doRequest 走完整的路由和中间件链，和真实请求一致
func doRequest(t *testing.T, a *App, method string, target string, body string, decorate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.HTTPErrorHandler = a.HTTPErrorHandler
	a.RegisterRoutes(e)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) types.Response {
	t.Helper()

	var resp types.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, constants.APIVersion, resp.APIVersion)

	return resp
}

func signTestToken(t *testing.T, a *App, userID uint) string {
	t.Helper()

	token, err := a.jwt.SignToken(userID)
	require.NoError(t, err)

	return token
}

func withBearer(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func userColumns() []string {
	return []string{"id", "first_name", "last_name", "username", "email", "picture", "role", "hash", "salt", "device_id"}
}

func userRows(id uint, username string, role string) *sqlmock.Rows {
	return sqlmock.NewRows(userColumns()).
		AddRow(id, "azhar", "faturahman", username, username+"@gmail.com", "", role, "", "", "")
}

// expectAuthUser 认证中间件加载当前用户的查询
func expectAuthUser(mock sqlmock.Sqlmock, id uint, role string) {
	mock.ExpectQuery(`SELECT \* FROM "user" WHERE id = \$1`).
		WillReturnRows(userRows(id, "caller", role))
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}

	return nil
}

func hashTestPassword(t *testing.T, plain string) (string, string) {
	t.Helper()

	salt, hash, err := password.Hash(plain)
	require.NoError(t, err)

	return salt, hash
}
