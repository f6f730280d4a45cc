package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const (
	methodMkcol    = "MKCOL"
	methodPropfind = "PROPFIND"

	maxErrorBodyLen = 512
)

var (
	defaultHttpClient = &http.Client{
		Timeout:       30 * time.Second,
		CheckRedirect: noRedirect,
		Transport: &http.Transport{
			IdleConnTimeout:     20 * time.Second,
			MaxIdleConns:        5,
			MaxIdleConnsPerHost: 1,
		},
	}
)

// noRedirect hands 3xx back to the caller, net/http would replay MKCOL, PROPFIND and DELETE as GET.
func noRedirect(req *http.Request, via []*http.Request) error {
	return http.ErrUseLastResponse
}

type defaultGateway struct {
	c *config
}

func (d *defaultGateway) call(ctx context.Context, method string, name string) (int, []byte, error) {
	link, err := d.c.Endpoint.FolderURL(name)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, link, http.NoBody)
	if err != nil {
		return 0, nil, err
	}
	req.SetBasicAuth(d.c.Endpoint.User, d.c.Endpoint.Password)
	rsp, err := d.c.Client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("do %s request failed, err:%w", method, err)
	}
	defer rsp.Body.Close()
	raw, err := io.ReadAll(rsp.Body)
	if err != nil {
		return rsp.StatusCode, nil, fmt.Errorf("read %s response failed, err:%w", method, err)
	}
	return rsp.StatusCode, raw, nil
}

func (d *defaultGateway) statusError(method string, code int, body []byte) error {
	if len(body) > maxErrorBodyLen {
		body = body[:maxErrorBodyLen]
	}
	return &StatusError{Method: method, Code: code, Body: string(body)}
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func (d *defaultGateway) EnsureFolder(ctx context.Context, name string) *Result {
	code, body, err := d.call(ctx, methodMkcol, name)
	if err == nil && code != http.StatusCreated && code != http.StatusMultiStatus {
		err = d.statusError(methodMkcol, code, body)
	}
	if err != nil {
		logutil.GetLogger(ctx).Error("nextcloud create folder failed", zap.String("folder", name), zap.Int("status", code), zap.Error(err))
		return &Result{OK: false, Status: code, Err: err}
	}
	logutil.GetLogger(ctx).Debug("nextcloud create folder succ", zap.String("folder", name), zap.Int("status", code))
	return &Result{OK: true, Status: code}
}

func (d *defaultGateway) ListFolder(ctx context.Context, name string) *ListResult {
	code, body, err := d.call(ctx, methodPropfind, name)
	if err == nil && !isSuccess(code) {
		err = d.statusError(methodPropfind, code, body)
	}
	if err != nil {
		logutil.GetLogger(ctx).Error("nextcloud list folder failed", zap.String("folder", name), zap.Int("status", code), zap.Error(err))
		return &ListResult{Result: Result{OK: false, Status: code, Err: err}, Data: []byte{}}
	}
	if body == nil {
		body = []byte{}
	}
	return &ListResult{Result: Result{OK: true, Status: code}, Data: body}
}

func (d *defaultGateway) DeleteFolder(ctx context.Context, name string) *Result {
	code, body, err := d.call(ctx, http.MethodDelete, name)
	if err == nil && !isSuccess(code) {
		err = d.statusError(http.MethodDelete, code, body)
	}
	if err != nil {
		logutil.GetLogger(ctx).Error("nextcloud delete folder failed", zap.String("folder", name), zap.Int("status", code), zap.Error(err))
		return &Result{OK: false, Status: code, Err: err}
	}
	return &Result{OK: true, Status: code}
}
