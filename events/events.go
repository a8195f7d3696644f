package events

import (
	"github.com/ethereum/go-ethereum/event"
	"github.com/rotblauer/sinuosity/types/channel"
)

// ProcessedChannelFeed is emitted for every channel table that completed the pipeline,
// before it is written anywhere.
var ProcessedChannelFeed = event.FeedOf[*channel.Table]{}
