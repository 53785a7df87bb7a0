package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bundle-bot/internal/catalog"
	"bundle-bot/internal/metrics"
)

const cmdStart = "start"

// Router maps incoming updates onto the order flow.
type Router struct {
	flow    *Controller
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewRouter(flow *Controller, m *metrics.Metrics, logger *zap.Logger) *Router {
	return &Router{flow: flow, metrics: m, logger: logger}
}

// HandleUpdate processes one update. The returned error is for logging only:
// whatever the user needs to know has already been sent.
func (r *Router) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.Message != nil:
		return r.processMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		return r.processCallback(ctx, update.CallbackQuery)
	default:
		r.metrics.Updates.WithLabelValues("other").Inc()
		r.logger.Debug("Ignoring update", zap.Int("update_id", update.UpdateID))
		return nil
	}
}

func (r *Router) processMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil || msg.Chat == nil {
		r.metrics.Updates.WithLabelValues("other").Inc()
		return nil
	}
	userID, chatID := msg.From.ID, msg.Chat.ID

	if msg.IsCommand() {
		if msg.Command() == cmdStart {
			r.metrics.Updates.WithLabelValues("start").Inc()
			return r.flow.BeginOrder(ctx, userID, chatID)
		}
		r.metrics.Updates.WithLabelValues("command").Inc()
		r.logger.Debug("Ignoring command",
			zap.Int64("chat_id", chatID),
			zap.String("command", msg.Command()))
		return nil
	}

	if msg.Text == "" {
		r.metrics.Updates.WithLabelValues("other").Inc()
		return nil
	}

	r.metrics.Updates.WithLabelValues("text").Inc()
	r.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.Int64("user_id", userID))
	return r.flow.SubmitPhoneNumber(ctx, userID, chatID, msg.Text)
}

func (r *Router) processCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb.From == nil {
		r.metrics.Updates.WithLabelValues("other").Inc()
		return nil
	}

	userID := cb.From.ID
	chatID := userID
	messageID := 0
	if cb.Message != nil && cb.Message.Chat != nil {
		chatID = cb.Message.Chat.ID
		messageID = cb.Message.MessageID
	}

	r.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", cb.Data))

	switch {
	case catalog.CodePattern.MatchString(cb.Data):
		r.metrics.Updates.WithLabelValues("bundle").Inc()
		r.flow.answerCallback(cb.ID, "")
		return r.flow.SelectBundle(ctx, userID, chatID, messageID, cb.Data)

	default:
		if orderUserID, ok := parsePaymentCallback(cb.Data); ok {
			r.metrics.Updates.WithLabelValues("payment").Inc()
			return r.flow.AcknowledgePayment(ctx, cb.ID, chatID, orderUserID)
		}
		r.metrics.Updates.WithLabelValues("callback").Inc()
		r.flow.answerCallback(cb.ID, "")
		r.logger.Warn("Unknown callback data",
			zap.Int64("user_id", userID),
			zap.String("data", cb.Data))
		return nil
	}
}
