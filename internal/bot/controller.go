package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bundle-bot/internal/catalog"
	"bundle-bot/internal/metrics"
	"bundle-bot/internal/order"
)

var (
	ErrNoPendingOrder = errors.New("no bundle selected")
	ErrOrderSubmitted = errors.New("order already submitted")
	ErrNotOwnerChat   = errors.New("payment acknowledged outside the owner chat")
)

const (
	recipientWorker = "worker"
	recipientOwner  = "owner"
)

// Recipients are the fixed parties of every order.
type Recipients struct {
	WorkerChatID int64
	OwnerChatID  int64
	MomoNumber   string
}

// Controller drives a user from bundle choice to a submitted order.
//
// Concurrent updates for the same user are not serialized: the store is
// last-write-wins, so two racing updates for one user may interleave.
type Controller struct {
	api        Messenger
	store      order.Store
	catalog    *catalog.Catalog
	recipients Recipients
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewController(
	api Messenger,
	store order.Store,
	cat *catalog.Catalog,
	recipients Recipients,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		api:        api,
		store:      store,
		catalog:    cat,
		recipients: recipients,
		metrics:    m,
		logger:     logger,
	}
}

// BeginOrder resets the user's order and shows the bundle catalog.
func (c *Controller) BeginOrder(ctx context.Context, userID, chatID int64) error {
	if err := c.store.Save(ctx, order.NewPendingOrder(userID)); err != nil {
		c.sendText(chatID, msgInternalError)
		return fmt.Errorf("begin order: %w", err)
	}

	msg := tgbotapi.NewMessage(chatID, msgChooseBundle)
	msg.ReplyMarkup = createBundleKeyboard(c.catalog.Bundles())
	c.sendMessage(msg)
	return nil
}

// SelectBundle records the chosen bundle and asks for the beneficiary's phone.
// A non-zero messageID is the keyboard message, which gets replaced by the prompt.
func (c *Controller) SelectBundle(ctx context.Context, userID, chatID int64, messageID int, code string) error {
	bundle, err := c.catalog.Lookup(code)
	if err != nil {
		c.sendText(chatID, msgUnknownBundle)
		return err
	}

	o := order.NewPendingOrder(userID)
	o.ChooseBundle(bundle)
	if err := c.store.Save(ctx, o); err != nil {
		c.sendText(chatID, msgInternalError)
		return fmt.Errorf("select bundle: %w", err)
	}

	c.logger.Info("Bundle selected",
		zap.Int64("user_id", userID),
		zap.String("bundle", bundle.Code))

	text := selectedBundleText(bundle.Code, bundle.Price)
	if messageID == 0 {
		c.sendText(chatID, text)
		return nil
	}

	if _, err := c.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		c.logger.Warn("Failed to edit bundle message, sending a new one",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err))
		c.sendText(chatID, text)
	}
	return nil
}

// SubmitPhoneNumber validates the phone, completes the order and notifies
// the worker and the owner. An invalid phone only re-prompts the user.
func (c *Controller) SubmitPhoneNumber(ctx context.Context, userID, chatID int64, text string) error {
	if !IsValidPhoneNumber(text) {
		c.metrics.InvalidPhoneNumbers.Inc()
		c.sendText(chatID, msgInvalidPhone)
		return nil
	}

	o, err := c.store.Get(ctx, userID)
	switch {
	case errors.Is(err, order.ErrNotFound):
		c.sendText(chatID, msgNoPendingOrder)
		return ErrNoPendingOrder
	case err != nil:
		c.sendText(chatID, msgInternalError)
		return fmt.Errorf("submit phone number: %w", err)
	}

	switch o.State {
	case order.StateAwaitingBundle:
		c.sendText(chatID, msgNoPendingOrder)
		return ErrNoPendingOrder
	case order.StateSubmitted:
		c.sendText(chatID, msgAlreadySubmitted)
		return ErrOrderSubmitted
	}

	if err := o.AttachPhone(text); err != nil {
		c.sendText(chatID, msgInternalError)
		return fmt.Errorf("submit phone number: %w", err)
	}
	if err := c.store.Save(ctx, o); err != nil {
		c.sendText(chatID, msgInternalError)
		return fmt.Errorf("submit phone number: %w", err)
	}

	c.logger.Info("Order submitted",
		zap.Int64("user_id", userID),
		zap.String("bundle", o.BundleCode),
		zap.String("phone_number", o.PhoneNumber))
	c.metrics.OrdersSubmitted.WithLabelValues(o.BundleCode).Inc()

	c.notify(recipientWorker, tgbotapi.NewMessage(
		c.recipients.WorkerChatID,
		workerOrderText(o.BundleCode, o.PhoneNumber),
	))

	ownerMsg := tgbotapi.NewMessage(
		c.recipients.OwnerChatID,
		ownerOrderText(o.BundleCode, o.Price, o.PhoneNumber),
	)
	ownerMsg.ReplyMarkup = createPaymentKeyboard(userID)
	c.notify(recipientOwner, ownerMsg)

	c.sendText(chatID, paymentInstructionsText(o.Price, c.recipients.MomoNumber))
	return nil
}

// AcknowledgePayment answers the owner's "Payment Made" press. Nothing is verified.
// Presses from any chat but the owner's are ignored.
func (c *Controller) AcknowledgePayment(ctx context.Context, callbackID string, chatID, orderUserID int64) error {
	if chatID != c.recipients.OwnerChatID {
		c.answerCallback(callbackID, "")
		return fmt.Errorf("%w: chat %d", ErrNotOwnerChat, chatID)
	}

	c.logger.Info("Payment marked as made",
		zap.Int64("user_id", orderUserID))

	c.answerCallback(callbackID, paymentNotedText(orderUserID))
	return nil
}

func (c *Controller) notify(recipient string, msg tgbotapi.MessageConfig) {
	if _, err := c.api.Send(msg); err != nil {
		c.metrics.NotificationFailures.WithLabelValues(recipient).Inc()
		c.logger.Error("Failed to send order notification",
			zap.String("recipient", recipient),
			zap.Int64("chat_id", msg.ChatID),
			zap.Error(err))
	}
}

func (c *Controller) answerCallback(callbackID, text string) {
	if callbackID == "" {
		return
	}
	if _, err := c.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		c.logger.Warn("Failed to answer callback query",
			zap.String("callback_id", callbackID),
			zap.Error(err))
	}
}

func (c *Controller) sendText(chatID int64, text string) {
	c.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (c *Controller) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := c.api.Send(msg); err != nil {
		c.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("text", msg.Text),
			zap.Error(err))
	}
}

// IsUserError reports whether err was already explained to the user and
// needs no operator attention.
func IsUserError(err error) bool {
	return errors.Is(err, catalog.ErrUnknownBundle) ||
		errors.Is(err, ErrNoPendingOrder) ||
		errors.Is(err, ErrOrderSubmitted) ||
		errors.Is(err, ErrNotOwnerChat)
}
