package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xxxsen/common/utils"
	"github.com/xxxsen/ncfolder/notify"
)

const (
	Name = "telegram"
)

type config struct {
	Chatid      int64  `json:"chatid"`
	Token       string `json:"token"`
	DedupSize   int    `json:"dedup_size"`
	DedupTTLSec int64  `json:"dedup_ttl_sec"`
}

type tgNotifier struct {
	chatid int64
	bot    *tgbotapi.BotAPI
}

func New(chatid int64, token string) (notify.INotifier, error) {
	if chatid == 0 || len(token) == 0 {
		return nil, fmt.Errorf("chatid and token are required")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init bot fail, err:%w", err)
	}
	return &tgNotifier{
		chatid: chatid,
		bot:    bot,
	}, nil
}

func (t *tgNotifier) Name() string {
	return Name
}

func (t *tgNotifier) Notify(ctx context.Context, msg *notify.Message) error {
	m := tgbotapi.NewMessage(t.chatid, msg.Text)
	m.DisableWebPagePreview = true
	if _, err := t.bot.Send(m); err != nil {
		return fmt.Errorf("send message fail, err:%w", err)
	}
	return nil
}

func create(args interface{}) (notify.INotifier, error) {
	c := &config{}
	if err := utils.ConvStructJson(args, c); err != nil {
		return nil, err
	}
	n, err := New(c.Chatid, c.Token)
	if err != nil {
		return nil, err
	}
	return notify.WithDedup(n, c.DedupSize, time.Duration(c.DedupTTLSec)*time.Second), nil
}

func init() {
	notify.Register(Name, create)
}
