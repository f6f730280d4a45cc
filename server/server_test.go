package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/xxxsen/common/idgen"
	"github.com/xxxsen/common/webapi/auth"
	"github.com/xxxsen/common/webapi/middleware"
	"github.com/xxxsen/ncfolder/config"
	"github.com/xxxsen/ncfolder/dao"
	"github.com/xxxsen/ncfolder/db"
	"github.com/xxxsen/ncfolder/host"
	"github.com/xxxsen/ncfolder/plugin"
	"github.com/xxxsen/ncfolder/schema"
)

var (
	dbfile = "/tmp/sqlite_ncfolder_server_test.db"
)

func TestMain(m *testing.M) {
	_ = os.Remove(dbfile)
	if err := idgen.Init(1); err != nil {
		panic(err)
	}
	if err := db.InitDB(dbfile); err != nil {
		panic(err)
	}
	code := m.Run()
	_ = os.Remove(dbfile)
	if code != 0 {
		os.Exit(code)
	}
}

type fakeNextcloud struct {
	mu      sync.Mutex
	folders map[string]bool
}

func (f *fakeNextcloud) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case "MKCOL":
		f.folders[r.URL.Path] = true
		w.WriteHeader(http.StatusCreated)
	case "PROPFIND":
		if !f.folders[r.URL.Path] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusMultiStatus)
		_, _ = fmt.Fprintf(w, `<d:multistatus xmlns:d="DAV:"><d:response><d:href>%s</d:href></d:response></d:multistatus>`, r.URL.Path)
	case http.MethodDelete:
		if !f.folders[r.URL.Path] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(f.folders, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (f *fakeNextcloud) has(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.folders[path]
}

type commonRsp struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// newTestEngine mounts the api behind the same auth chain webapi.NewEngine installs.
func newTestEngine(svr *Server) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.TryAuthMiddleware(auth.MapUserMatch(svr.c.userMap)))
	svr.initAPI(&engine.RouterGroup)
	return engine
}

func newTestServer(t *testing.T, allowedRoles string) (http.Handler, *fakeNextcloud) {
	nc := &fakeNextcloud{folders: map[string]bool{}}
	ncsvr := httptest.NewServer(nc)
	t.Cleanup(ncsvr.Close)
	s := &schema.Settings{
		NextcloudURL:      ncsvr.URL,
		NextcloudUser:     "alice",
		NextcloudPassword: "secret",
		FolderColumn:      "project",
		AllowedRoles:      allowedRoles,
	}
	h := host.New(dao.NewRowDao(db.GetClient()), plugin.New(), s)
	svr, err := New(":0", WithHost(h), WithUsers(map[string]*config.UserConfig{
		"admin": {Password: "pwd", Role: "admin"},
		"guest": {Password: "pwd", Role: "guest"},
	}))
	assert.NoError(t, err)
	return newTestEngine(svr), nc
}

func doRequest(h http.Handler, user string, method string, path string, body string) (int, *commonRsp) {
	return doRequestWithPassword(h, user, "pwd", method, path, body)
}

func doRequestWithPassword(h http.Handler, user string, pwd string, method string, path string, body string) (int, *commonRsp) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(user) != 0 {
		req.SetBasicAuth(user, pwd)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	rsp := &commonRsp{}
	_ = json.Unmarshal(w.Body.Bytes(), rsp)
	return w.Code, rsp
}

func TestNewWithoutHost(t *testing.T) {
	_, err := New(":0")
	assert.Error(t, err)
}

func TestAuthRequired(t *testing.T) {
	svr, _ := newTestServer(t, "")
	code, _ := doRequest(svr, "", http.MethodGet, "/api/plugin/schema", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = doRequest(svr, "nobody", http.MethodGet, "/api/plugin/schema", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = doRequestWithPassword(svr, "admin", "pwd2", http.MethodGet, "/api/plugin/schema", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestUserRoles(t *testing.T) {
	c := applyOpts(WithUsers(map[string]*config.UserConfig{
		"admin": {Password: "pwd", Role: "admin"},
		"empty": nil,
	}))
	assert.Equal(t, map[string]string{"admin": "pwd"}, c.userMap)
	assert.Equal(t, "admin", c.roleOf("admin"))
	assert.Equal(t, "", c.roleOf("nobody"))
}

func TestGetSchema(t *testing.T) {
	svr, _ := newTestServer(t, "")
	code, rsp := doRequest(svr, "admin", http.MethodGet, "/api/plugin/schema", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, rsp.Code)
	assert.Contains(t, string(rsp.Data), "nextcloud_password")
	assert.Contains(t, string(rsp.Data), "list_files")
}

func TestRowLifecycle(t *testing.T) {
	svr, nc := newTestServer(t, "admin")
	code, rsp := doRequest(svr, "admin", http.MethodPost, "/api/table/projects/insert", `{"project":"Acme"}`)
	assert.Equal(t, http.StatusOK, code)
	ins := struct {
		RowId uint64 `json:"row_id"`
	}{}
	assert.NoError(t, json.Unmarshal(rsp.Data, &ins))
	assert.True(t, nc.has("/remote.php/dav/files/alice/Acme/"))

	body := fmt.Sprintf(`{"table":"projects","row_id":%d}`, ins.RowId)
	code, rsp = doRequest(svr, "admin", http.MethodPost, "/api/action/list_files", body)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(rsp.Data), `"success":true`)

	code, _ = doRequest(svr, "guest", http.MethodPost, "/api/action/delete_folder", body)
	assert.Equal(t, http.StatusForbidden, code)

	code, rsp = doRequest(svr, "admin", http.MethodPost, "/api/action/delete_folder", body)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(rsp.Data), `"success":true`)
	assert.False(t, nc.has("/remote.php/dav/files/alice/Acme/"))

	code, rsp = doRequest(svr, "admin", http.MethodPost, "/api/action/list_files", body)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(rsp.Data), `"success":false`)

	code, _ = doRequest(svr, "admin", http.MethodPost, "/api/action/rename", body)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doRequest(svr, "admin", http.MethodPost, "/api/action/list_files", `{"table":"projects","row_id":1}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doRequest(svr, "admin", http.MethodPost, "/api/action/list_files", `{"table":"projects"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doRequest(svr, "admin", http.MethodPost, "/api/table/projects/insert", `{"_row_id":5}`)
	assert.Equal(t, http.StatusBadRequest, code)

	delBody := fmt.Sprintf(`{"row_id":%d}`, ins.RowId)
	code, _ = doRequest(svr, "admin", http.MethodPost, "/api/table/projects/delete", delBody)
	assert.Equal(t, http.StatusOK, code)
	code, _ = doRequest(svr, "admin", http.MethodPost, "/api/table/projects/delete", delBody)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = doRequest(svr, "admin", http.MethodPost, "/api/action/list_files", body)
	assert.Equal(t, http.StatusNotFound, code)
}
