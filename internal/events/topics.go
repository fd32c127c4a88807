package events

// Event topics emitted by the checkout flow.
const (
	TopicOrderCreated = "order.created"
	TopicOrderSettled = "order.settled"
	TopicOrderFailed  = "order.failed"
)
