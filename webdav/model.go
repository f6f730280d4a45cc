package webdav

import "encoding/xml"

// Multistatus is the DAV:multistatus root returned by PROPFIND.
type Multistatus struct {
	XMLName   xml.Name    `xml:"DAV: multistatus"`
	Responses []*Response `xml:"DAV: response"`
}

type Response struct {
	Href      string      `xml:"DAV: href"`
	Propstats []*Propstat `xml:"DAV: propstat"`
}

type Propstat struct {
	Prop   Prop   `xml:"DAV: prop"`
	Status string `xml:"DAV: status"`
}

type Prop struct {
	DisplayName   string       `xml:"DAV: displayname"`
	LastModified  string       `xml:"DAV: getlastmodified"`
	ContentLength int64        `xml:"DAV: getcontentlength"`
	ContentType   string       `xml:"DAV: getcontenttype"`
	ETag          string       `xml:"DAV: getetag"`
	ResourceType  ResourceType `xml:"DAV: resourcetype"`
}

type ResourceType struct {
	Collection *struct{} `xml:"DAV: collection"`
}

type Entry struct {
	Href        string
	Name        string
	Size        int64
	ContentType string
	Mtime       int64
	IsDir       bool
}
