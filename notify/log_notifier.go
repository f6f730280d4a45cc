package notify

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const LogNotifierName = "log"

type logNotifier struct{}

func NewLogNotifier() INotifier {
	return &logNotifier{}
}

func (l *logNotifier) Name() string {
	return LogNotifierName
}

func (l *logNotifier) Notify(ctx context.Context, msg *Message) error {
	logutil.GetLogger(ctx).Info("folder notification", zap.String("key", msg.Key), zap.String("text", msg.Text))
	return nil
}

func init() {
	Register(LogNotifierName, func(args interface{}) (INotifier, error) {
		return NewLogNotifier(), nil
	})
}
