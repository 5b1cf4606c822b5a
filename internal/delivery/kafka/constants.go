package kafka

// Topics carrying the marketplace's observable side effects. Partitioning
// keys keep per-aggregate ordering: market and poll events key on the event
// name's subject id where present, so consumers replay a single aggregate in
// order.
const (
	TopicMarketEvents  = "ticketing.market.events"
	TopicLotteryEvents = "ticketing.lottery.events"
	TopicPollEvents    = "ticketing.poll.events"
)
