package webdav

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
)

const defaultContentType = "application/octet-stream"

func Parse(raw []byte) ([]*Entry, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []*Entry{}, nil
	}
	ms := &Multistatus{}
	if err := xml.Unmarshal(raw, ms); err != nil {
		return nil, fmt.Errorf("decode multistatus failed, err:%w", err)
	}
	rs := make([]*Entry, 0, len(ms.Responses))
	for _, item := range ms.Responses {
		prop, ok := pickOKProp(item)
		if !ok {
			continue
		}
		rs = append(rs, convResponseToEntry(item.Href, prop))
	}
	return rs, nil
}

// CountChildren returns how many entries are not the collection at self.
func CountChildren(ents []*Entry, self string) int {
	self = normalizeHref(self)
	var cnt int
	for _, ent := range ents {
		if normalizeHref(ent.Href) == self {
			continue
		}
		cnt++
	}
	return cnt
}

func pickOKProp(item *Response) (*Prop, bool) {
	for _, ps := range item.Propstats {
		if len(ps.Status) == 0 || strings.Contains(ps.Status, " 200 ") {
			return &ps.Prop, true
		}
	}
	return nil, false
}

func convResponseToEntry(href string, prop *Prop) *Entry {
	name := prop.DisplayName
	if len(name) == 0 {
		name = path.Base(normalizeHref(href))
	}
	ent := &Entry{
		Href:  href,
		Name:  name,
		IsDir: prop.ResourceType.Collection != nil,
	}
	if t, err := http.ParseTime(prop.LastModified); err == nil {
		ent.Mtime = t.UnixMilli()
	}
	if ent.IsDir {
		return ent
	}
	ent.Size = prop.ContentLength
	ent.ContentType = prop.ContentType
	if len(ent.ContentType) == 0 {
		ent.ContentType = determineMimeType(name)
	}
	return ent
}

func normalizeHref(href string) string {
	if u, err := url.Parse(href); err == nil {
		href = u.Path
	}
	href = strings.TrimSuffix(href, "/")
	if len(href) == 0 {
		return "/"
	}
	return href
}

func determineMimeType(filename string) string {
	mimeType := mime.TypeByExtension(path.Ext(filename))
	if mimeType == "" {
		return defaultContentType
	}
	return mimeType
}
