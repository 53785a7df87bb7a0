package bot

import (
	"fmt"
	"regexp"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"bundle-bot/internal/catalog"
)

const bundlesPerRow = 2

var paymentCallbackRe = regexp.MustCompile(`^payment_(\d+)$`)

func createBundleKeyboard(bundles []catalog.Bundle) tgbotapi.InlineKeyboardMarkup {
	buttons := lo.Map(bundles, func(b catalog.Bundle, _ int) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(b.Label(), b.Code)
	})
	return tgbotapi.NewInlineKeyboardMarkup(lo.Chunk(buttons, bundlesPerRow)...)
}

func createPaymentKeyboard(userID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnPaymentMade, paymentCallbackData(userID)),
		),
	)
}

func paymentCallbackData(userID int64) string {
	return fmt.Sprintf("payment_%d", userID)
}

// parsePaymentCallback extracts the ordering user id from "payment_<id>".
func parsePaymentCallback(data string) (int64, bool) {
	m := paymentCallbackRe.FindStringSubmatch(data)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
