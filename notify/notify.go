package notify

import (
	"context"
	"fmt"
	"sort"
)

type Message struct {
	Key  string // messages sharing a key may be suppressed as duplicates
	Text string
}

type INotifier interface {
	Name() string
	Notify(ctx context.Context, msg *Message) error
}

type CreateFunc func(args interface{}) (INotifier, error)

var mp = make(map[string]CreateFunc)

func Register(name string, fn CreateFunc) {
	mp[name] = fn
}

func Create(name string, args interface{}) (INotifier, error) {
	fn, ok := mp[name]
	if !ok {
		return nil, fmt.Errorf("notifier type not found, name:%s", name)
	}
	return fn(args)
}

func List() []string {
	rs := make([]string, 0, len(mp))
	for name := range mp {
		rs = append(rs, name)
	}
	sort.Strings(rs)
	return rs
}
