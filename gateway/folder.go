package gateway

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

const davFilesPath = "/remote.php/dav/files/"

func ValidateFolderName(name string) error {
	if len(strings.TrimSpace(name)) == 0 {
		return fmt.Errorf("empty name:%w", ErrInvalidFolderName)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("relative name:%s, err:%w", name, ErrInvalidFolderName)
	}
	for _, r := range name {
		if r == '/' || r == '\\' {
			return fmt.Errorf("separator in name:%q, err:%w", name, ErrInvalidFolderName)
		}
		if unicode.IsControl(r) {
			return fmt.Errorf("control char in name:%q, err:%w", name, ErrInvalidFolderName)
		}
	}
	return nil
}

func (ep Endpoint) validate() error {
	var miss []string
	if len(ep.BaseURL) == 0 {
		miss = append(miss, "base_url")
	}
	if len(ep.User) == 0 {
		miss = append(miss, "user")
	}
	if len(ep.Password) == 0 {
		miss = append(miss, "password")
	}
	if len(miss) != 0 {
		return fmt.Errorf("missing:%s, err:%w", strings.Join(miss, ","), ErrIncompleteEndpoint)
	}
	return nil
}

// FolderURL builds {base}/remote.php/dav/files/{user}/{name}/ with both segments escaped.
func (ep Endpoint) FolderURL(name string) (string, error) {
	if err := ep.validate(); err != nil {
		return "", err
	}
	if err := ValidateFolderName(name); err != nil {
		return "", err
	}
	base := strings.TrimRight(ep.BaseURL, "/")
	return base + davFilesPath + url.PathEscape(ep.User) + "/" + url.PathEscape(name) + "/", nil
}
