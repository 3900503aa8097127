package notification

import "fmt"

// Email builders for the transactional mails the order flow sends. Kept as
// plain HTML strings rather than template files so the sink stays a leaf.

func OrderPlacedEmail(to, sellerName, productName, orderID string, total float64) EmailMessage {
	return EmailMessage{
		To:      to,
		Subject: "You have a new order",
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>You received a new order <b>%s</b> for <b>%s</b> (total %.2f). Open your chats to confirm it.</p>",
			sellerName, orderID, productName, total,
		),
	}
}

func OrderConfirmedEmail(to, buyerName, productName, orderID string) EmailMessage {
	return EmailMessage{
		To:      to,
		Subject: "Your order was confirmed",
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>The seller confirmed your order <b>%s</b> for <b>%s</b>. You will pay on delivery.</p>",
			buyerName, orderID, productName,
		),
	}
}

func OrderStatusEmail(to, buyerName, productName, orderID, status string) EmailMessage {
	return EmailMessage{
		To:      to,
		Subject: "Order status update",
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your order <b>%s</b> for <b>%s</b> is now <b>%s</b>.</p>",
			buyerName, orderID, productName, status,
		),
	}
}
