package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type UserConfig struct {
	Password string `json:"password"`
	Role     string `json:"role"`
}

type NotifyConfig struct {
	Kind string      `json:"kind"`
	Args interface{} `json:"args"`
}

type Config struct {
	Bind    string                 `json:"bind"`
	LogInfo logger.LogConfig       `json:"log_info"`
	DBFile  string                 `json:"db_file"`
	Timeout int64                  `json:"timeout"` //nextcloud request timeout, in second
	Users   map[string]*UserConfig `json:"users"`
	Plugin  map[string]interface{} `json:"plugin"`
	Notify  NotifyConfig           `json:"notify"`
}

func Parse(f string) (*Config, error) {
	raw, err := os.ReadFile(f)
	if err != nil {
		return nil, fmt.Errorf("read file:%w", err)
	}
	c := &Config{
		Bind:    ":9902",
		DBFile:  "./ncfolder.db",
		Timeout: 30,
		LogInfo: logger.LogConfig{
			Level:   "info",
			Console: true,
		},
		Notify: NotifyConfig{
			Kind: "log",
		},
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("decode json failed, err:%w", err)
	}
	return c, nil
}
