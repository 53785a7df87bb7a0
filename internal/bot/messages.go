package bot

import "fmt"

const (
	msgChooseBundle     = "Please choose a data bundle package:"
	msgInvalidPhone     = "Please enter a valid phone number (digits only)."
	msgNoPendingOrder   = "Please choose a data bundle first. Send /start to see the packages."
	msgAlreadySubmitted = "Your order has already been submitted. Send /start to place a new order."
	msgUnknownBundle    = "Sorry, that data bundle is not available. Send /start to choose again."
	msgInternalError    = "Sorry, something went wrong. Please try again with /start."

	btnPaymentMade = "Payment Made"
)

func selectedBundleText(code, price string) string {
	return fmt.Sprintf("Selected bundle: %s - %s\nPlease enter the beneficiary's phone number:", code, price)
}

func workerOrderText(code, phone string) string {
	return fmt.Sprintf("New order received\nBundle: %s\nBeneficiary's phone number: %s", code, phone)
}

func ownerOrderText(code, price, phone string) string {
	return fmt.Sprintf("New order received\nBundle: %s - %s\nBeneficiary's phone number: %s", code, price, phone)
}

func paymentInstructionsText(price, momo string) string {
	return fmt.Sprintf("Please make the payment of %s to the following MoMo number: %s", price, momo)
}

func paymentNotedText(userID int64) string {
	return fmt.Sprintf("Payment noted for user %d", userID)
}
