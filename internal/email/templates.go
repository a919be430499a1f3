package email

import (
	"fmt"
	"strings"
)

// OrderLine represents one order line for email purposes
type OrderLine struct {
	ProductID     string
	Name          string
	Quantity      int
	UnitPrice     int
	Customization string
}

// OrderSummary carries the pricing breakdown shown in the confirmation email
type OrderSummary struct {
	Subtotal        int
	GiftWrapFee     int
	OfferDiscount   int
	LoyaltyDiscount int
	DeliveryFee     int
	FinalTotal      int
	PointsEarned    int
}

// BuildOrderConfirmationBody builds the HTML body for order confirmation email
func BuildOrderConfirmationBody(orderID string, summary OrderSummary, lines []OrderLine) string {
	var linesHTML strings.Builder
	for _, line := range lines {
		name := line.Name
		if name == "" {
			name = line.ProductID
		}
		if line.Customization != "" {
			name = fmt.Sprintf("%s (%s)", name, line.Customization)
		}
		linesHTML.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">₹%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">₹%s</td>
			</tr>`,
			name,
			line.Quantity,
			formatNumber(line.UnitPrice),
			formatNumber(line.UnitPrice*line.Quantity),
		))
	}

	var breakdownHTML strings.Builder
	breakdownRow := func(label string, amount int, negative bool) {
		sign := ""
		if negative {
			sign = "-"
		}
		breakdownHTML.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 6px 12px; color: #666;">%s</td>
				<td style="padding: 6px 12px; text-align: right;">%s₹%s</td>
			</tr>`,
			label, sign, formatNumber(amount),
		))
	}
	breakdownRow("Subtotal", summary.Subtotal, false)
	if summary.GiftWrapFee > 0 {
		breakdownRow("Gift wrap", summary.GiftWrapFee, false)
	}
	if summary.OfferDiscount > 0 {
		breakdownRow("Offer discount", summary.OfferDiscount, true)
	}
	if summary.LoyaltyDiscount > 0 {
		breakdownRow("Loyalty discount", summary.LoyaltyDiscount, true)
	}
	if summary.DeliveryFee > 0 {
		breakdownRow("Delivery", summary.DeliveryFee, false)
	} else {
		breakdownHTML.WriteString(
			`<tr>
				<td style="padding: 6px 12px; color: #666;">Delivery</td>
				<td style="padding: 6px 12px; text-align: right; color: #2e7d32;">FREE</td>
			</tr>`)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Thanks for your order!</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Your stickers and keychains are on their way to being made.</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Order number</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
		</div>

		<h2 style="font-size: 18px; border-bottom: 2px solid #667eea; padding-bottom: 10px;">Order details</h2>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left; font-weight: 600;">Item</th>
					<th style="padding: 12px; text-align: center; font-weight: 600;">Qty</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Price</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Total</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
		</table>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0; background: #f8f9fa; border-radius: 5px;">
			%s
		</table>

		<div style="text-align: right; padding: 20px; background: #f8f9fa; border-radius: 5px;">
			<span style="font-size: 14px; color: #666;">Total paid</span>
			<span style="font-size: 24px; font-weight: bold; color: #667eea; margin-left: 10px;">₹%s</span>
		</div>

		<p style="text-align: center; color: #667eea; font-weight: 600;">You earned %d loyalty points with this order.</p>

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This email was sent automatically. If anything looks wrong, reply and our support team will help.
		</p>
	</div>
</body>
</html>`, orderID, linesHTML.String(), breakdownHTML.String(), formatNumber(summary.FinalTotal), summary.PointsEarned)
}

// formatNumber formats a number with comma separators
func formatNumber(n int) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	remainder := len(str) % 3
	if remainder > 0 {
		result.WriteString(str[:remainder])
		if len(str) > remainder {
			result.WriteString(",")
		}
	}

	for i := remainder; i < len(str); i += 3 {
		result.WriteString(str[i : i+3])
		if i+3 < len(str) {
			result.WriteString(",")
		}
	}

	return result.String()
}
