package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type davRecord struct {
	method string
	path   string
	user   string
	pwd    string
	depth  string
	length int64
}

type fakeDav struct {
	mu      sync.Mutex
	records []davRecord
	folders map[string]bool
	status  int
	body    string
}

func newFakeDav() *fakeDav {
	return &fakeDav{folders: map[string]bool{}}
}

func (f *fakeDav) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, p, _ := r.BasicAuth()
	f.records = append(f.records, davRecord{
		method: r.Method,
		path:   r.URL.EscapedPath(),
		user:   u,
		pwd:    p,
		depth:  r.Header.Get("Depth"),
		length: r.ContentLength,
	})
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.body))
		return
	}
	path := r.URL.Path
	switch r.Method {
	case "MKCOL":
		if f.folders[path] {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		f.folders[path] = true
		w.WriteHeader(http.StatusCreated)
	case "PROPFIND":
		if !f.folders[path] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusMultiStatus)
		_, _ = w.Write([]byte(f.body))
	case http.MethodDelete:
		if !f.folders[path] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(f.folders, path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeDav) recs() []davRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	rs := make([]davRecord, len(f.records))
	copy(rs, f.records)
	return rs
}

func newTestGateway(t *testing.T, dav *fakeDav) (IGateway, *httptest.Server) {
	svr := httptest.NewServer(dav)
	t.Cleanup(svr.Close)
	gw := New(WithBaseURL(svr.URL), WithAuth("alice", "secret"))
	return gw, svr
}

func TestEnsureFolderTargetsRowValue(t *testing.T) {
	dav := newFakeDav()
	gw, _ := newTestGateway(t, dav)
	res := gw.EnsureFolder(context.Background(), "Acme")
	assert.True(t, res.OK)
	assert.NoError(t, res.Err)
	assert.Equal(t, http.StatusCreated, res.Status)
	recs := dav.recs()
	assert.Equal(t, 1, len(recs))
	rec := recs[0]
	assert.Equal(t, "MKCOL", rec.method)
	assert.Equal(t, "/remote.php/dav/files/alice/Acme/", rec.path)
	assert.Equal(t, "alice", rec.user)
	assert.Equal(t, "secret", rec.pwd)
	assert.Equal(t, "", rec.depth)
	assert.Equal(t, int64(0), rec.length)
}

func TestEnsureFolderStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		ok     bool
	}{
		{http.StatusCreated, true},
		{http.StatusMultiStatus, true},
		{http.StatusOK, false},
		{http.StatusNoContent, false},
		{http.StatusMethodNotAllowed, false},
		{http.StatusUnauthorized, false},
		{http.StatusInternalServerError, false},
	}
	for _, tst := range tests {
		dav := newFakeDav()
		dav.status = tst.status
		gw, _ := newTestGateway(t, dav)
		res := gw.EnsureFolder(context.Background(), "a")
		assert.Equal(t, tst.ok, res.OK, "status:%d", tst.status)
		assert.Equal(t, tst.status, res.Status)
		if !tst.ok {
			var serr *StatusError
			assert.True(t, errors.As(res.Err, &serr))
			assert.Equal(t, tst.status, serr.Code)
		}
	}
}

func TestEnsureFolderTwice(t *testing.T) {
	dav := newFakeDav()
	gw, _ := newTestGateway(t, dav)
	ctx := context.Background()
	first := gw.EnsureFolder(ctx, "Acme")
	assert.True(t, first.OK)
	second := gw.EnsureFolder(ctx, "Acme")
	assert.False(t, second.OK)
	assert.Equal(t, http.StatusMethodNotAllowed, second.Status)
	assert.Error(t, second.Err)
}

func TestNetworkError(t *testing.T) {
	svr := httptest.NewServer(http.NotFoundHandler())
	addr := svr.URL
	svr.Close()
	gw := New(WithBaseURL(addr), WithAuth("alice", "secret"))
	ctx := context.Background()

	res := gw.EnsureFolder(ctx, "Acme")
	assert.False(t, res.OK)
	assert.Equal(t, 0, res.Status)
	assert.Error(t, res.Err)

	lst := gw.ListFolder(ctx, "Acme")
	assert.False(t, lst.OK)
	assert.NotNil(t, lst.Data)
	assert.Equal(t, 0, len(lst.Data))

	del := gw.DeleteFolder(ctx, "Acme")
	assert.False(t, del.OK)
	assert.Error(t, del.Err)
}

func TestListFolderReturnsRawBody(t *testing.T) {
	dav := newFakeDav()
	dav.body = `<?xml version="1.0"?><d:multistatus xmlns:d="DAV:"><d:response><d:href>/x/</d:href></d:response></d:multistatus>`
	gw, _ := newTestGateway(t, dav)
	ctx := context.Background()
	assert.True(t, gw.EnsureFolder(ctx, "Acme").OK)
	res := gw.ListFolder(ctx, "Acme")
	assert.True(t, res.OK)
	assert.Equal(t, http.StatusMultiStatus, res.Status)
	assert.Equal(t, dav.body, string(res.Data))
	recs := dav.recs()
	last := recs[len(recs)-1]
	assert.Equal(t, "PROPFIND", last.method)
	assert.Equal(t, "", last.depth)
}

func TestListFolderFailure(t *testing.T) {
	dav := newFakeDav()
	gw, _ := newTestGateway(t, dav)
	res := gw.ListFolder(context.Background(), "missing")
	assert.False(t, res.OK)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.NotNil(t, res.Data)
	assert.Equal(t, 0, len(res.Data))
}

func TestDeleteFolder(t *testing.T) {
	dav := newFakeDav()
	gw, _ := newTestGateway(t, dav)
	ctx := context.Background()
	assert.True(t, gw.EnsureFolder(ctx, "Acme").OK)
	res := gw.DeleteFolder(ctx, "Acme")
	assert.True(t, res.OK)
	assert.Equal(t, http.StatusNoContent, res.Status)

	res = gw.DeleteFolder(ctx, "Acme")
	assert.False(t, res.OK)
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestMissingPasswordFailsAtRequestTime(t *testing.T) {
	dav := newFakeDav()
	svr := httptest.NewServer(dav)
	defer svr.Close()
	var gw IGateway
	assert.NotPanics(t, func() {
		gw = New(WithBaseURL(svr.URL), WithAuth("alice", ""))
	})
	res := gw.EnsureFolder(context.Background(), "Acme")
	assert.False(t, res.OK)
	assert.True(t, errors.Is(res.Err, ErrIncompleteEndpoint))
	assert.Equal(t, 0, len(dav.recs()))
}

func TestInvalidFolderNameNeverRequests(t *testing.T) {
	dav := newFakeDav()
	gw, _ := newTestGateway(t, dav)
	ctx := context.Background()
	for _, name := range []string{"", "  ", ".", "..", "a/b", "../etc", "a\\b", "a\nb", "a\x00b"} {
		res := gw.EnsureFolder(ctx, name)
		assert.False(t, res.OK, "name:%q", name)
		assert.True(t, errors.Is(res.Err, ErrInvalidFolderName), "name:%q", name)
		lst := gw.ListFolder(ctx, name)
		assert.False(t, lst.OK)
		assert.NotNil(t, lst.Data)
		assert.False(t, gw.DeleteFolder(ctx, name).OK)
	}
	assert.Equal(t, 0, len(dav.recs()))
}

func TestTimeoutOption(t *testing.T) {
	gw := New(WithTimeout(0)).(*defaultGateway)
	assert.NotNil(t, gw.c.Client)
	assert.NotSame(t, defaultHttpClient, gw.c.Client)
}

func TestRedirectIsFailure(t *testing.T) {
	target := newFakeDav()
	target.status = http.StatusOK
	target.body = "<html>login</html>"
	tsvr := httptest.NewServer(target)
	defer tsvr.Close()
	front := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, tsvr.URL+r.URL.Path, http.StatusMovedPermanently)
	}))
	defer front.Close()
	ctx := context.Background()
	for _, gw := range []IGateway{
		New(WithBaseURL(front.URL), WithAuth("alice", "secret")),
		New(WithBaseURL(front.URL), WithAuth("alice", "secret"), WithTimeout(5*time.Second)),
	} {
		res := gw.DeleteFolder(ctx, "Acme")
		assert.False(t, res.OK)
		assert.Equal(t, http.StatusMovedPermanently, res.Status)
		var se *StatusError
		assert.True(t, errors.As(res.Err, &se))

		lst := gw.ListFolder(ctx, "Acme")
		assert.False(t, lst.OK)
		assert.Equal(t, 0, len(lst.Data))

		assert.False(t, gw.EnsureFolder(ctx, "Acme").OK)
	}
	assert.Equal(t, 0, len(target.recs()))
}
