package schema

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/xxxsen/ncfolder/gateway"
)

var ErrInvalidSettings = errors.New("invalid settings")

type Settings struct {
	NextcloudURL        string `json:"nextcloud_url"`
	NextcloudUser       string `json:"nextcloud_user"`
	NextcloudPassword   string `json:"nextcloud_password"`
	FolderColumn        string `json:"folder_column"`
	MaxFiles            int    `json:"max_files"`
	AllowedRoles        string `json:"allowed_roles"`
	EnableNotifications bool   `json:"enable_notifications"`
	FileTags            bool   `json:"file_tags"`
}

// Decode converts the untyped configuration object kept by the host.
// Missing keys are left empty, they are reported by Validate or at request time.
func Decode(in map[string]interface{}) (*Settings, error) {
	s := &Settings{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           s,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(in); err != nil {
		return nil, fmt.Errorf("decode plugin configuration failed, err:%w", err)
	}
	return s, nil
}

func (s *Settings) Validate() error {
	vals := map[string]string{
		KeyNextcloudURL:      s.NextcloudURL,
		KeyNextcloudUser:     s.NextcloudUser,
		KeyNextcloudPassword: s.NextcloudPassword,
		KeyFolderColumn:      s.FolderColumn,
	}
	var miss []string
	for _, key := range RequiredKeys() {
		if len(strings.TrimSpace(vals[key])) == 0 {
			miss = append(miss, key)
		}
	}
	if len(miss) != 0 {
		return fmt.Errorf("missing required keys:%s, err:%w", strings.Join(miss, ","), ErrInvalidSettings)
	}
	u, err := url.Parse(s.NextcloudURL)
	if err != nil {
		return fmt.Errorf("parse nextcloud url failed, err:%w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || len(u.Host) == 0 {
		return fmt.Errorf("nextcloud url should be http(s), url:%s, err:%w", s.NextcloudURL, ErrInvalidSettings)
	}
	if s.MaxFiles < 0 {
		return fmt.Errorf("max_files should not be negative, err:%w", ErrInvalidSettings)
	}
	return nil
}

func (s *Settings) Endpoint() gateway.Endpoint {
	return gateway.Endpoint{
		BaseURL:  s.NextcloudURL,
		User:     s.NextcloudUser,
		Password: s.NextcloudPassword,
	}
}

// Roles splits allowed_roles, an empty result means every role is allowed.
func (s *Settings) Roles() []string {
	items := strings.Split(s.AllowedRoles, ",")
	rs := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if len(item) == 0 {
			continue
		}
		rs = append(rs, item)
	}
	return rs
}

func (s *Settings) IsRoleAllowed(role string) bool {
	roles := s.Roles()
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// String hides the password so settings can be logged.
func (s *Settings) String() string {
	pwd := ""
	if len(s.NextcloudPassword) != 0 {
		pwd = "******"
	}
	return fmt.Sprintf("url:%s, user:%s, password:%s, folder_column:%s, max_files:%d, allowed_roles:%s, notify:%t, file_tags:%t",
		s.NextcloudURL, s.NextcloudUser, pwd, s.FolderColumn, s.MaxFiles, s.AllowedRoles, s.EnableNotifications, s.FileTags)
}
