package host

import (
	"sync"

	"github.com/xxxsen/ncfolder/dao"
	"github.com/xxxsen/ncfolder/plugin"
	"github.com/xxxsen/ncfolder/schema"
)

// Host owns the tables and attaches the plugin to each table on creation.
type Host struct {
	dao      dao.IRowDao
	plg      *plugin.Plugin
	settings *schema.Settings

	mu     sync.Mutex
	tables map[string]*Table
}

func New(d dao.IRowDao, plg *plugin.Plugin, s *schema.Settings) *Host {
	return &Host{
		dao:      d,
		plg:      plg,
		settings: s,
		tables:   make(map[string]*Table),
	}
}

func (h *Host) Plugin() *plugin.Plugin {
	return h.plg
}

func (h *Host) Settings() *schema.Settings {
	return h.settings
}

func (h *Host) Table(name string) *Table {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.tables[name]; ok {
		return t
	}
	t := NewTable(name, h.dao)
	h.plg.OnTableCreate(t, h.settings)
	h.tables[name] = t
	return t
}
