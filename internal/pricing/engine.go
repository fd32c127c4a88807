package pricing

// Money is an amount in whole rupees. Gateway amounts use paise (Money * 100).
type Money = int64

// Item is a priced cart line for totalling.
type Item struct {
	Qty       int64
	UnitPrice Money
}

// Summary is the totals breakdown shown to the customer and charged at checkout.
type Summary struct {
	Subtotal    Money `json:"subtotal"`
	Discount    Money `json:"discount"`
	DeliveryFee Money `json:"deliveryFee"`
	Total       Money `json:"total"`
}

// Compute derives the order summary from the cart lines and applied promo terms.
// discountPercent applies to the item subtotal only, never the delivery fee.
// The fee is charged only when delivery is selected and not waived by a promo.
func Compute(items []Item, discountPercent int64, deliveryFee Money, delivery, feeWaived bool) Summary {
	var subtotal Money
	for _, it := range items {
		if it.Qty <= 0 || it.UnitPrice <= 0 {
			continue
		}
		subtotal += it.Qty * it.UnitPrice
	}
	if discountPercent < 0 {
		discountPercent = 0
	}
	if discountPercent > 100 {
		discountPercent = 100
	}
	discount := subtotal * discountPercent / 100
	fee := Money(0)
	if delivery && !feeWaived {
		fee = deliveryFee
	}
	total := subtotal - discount + fee
	if total < 0 {
		total = 0
	}
	return Summary{
		Subtotal:    subtotal,
		Discount:    discount,
		DeliveryFee: fee,
		Total:       total,
	}
}

// Paise converts a rupee amount to the smallest currency unit used by the gateway.
func Paise(amount Money) int64 {
	return amount * 100
}
