package discord

// Embed colors
const (
	colorWinner        = 0xFFD700 // gold
	colorDrawRequested = 0x5865F2 // blurple
	colorPayoutFailed  = 0xED4245 // red
	colorDrawReset     = 0xFEE75C // yellow
	colorStatus        = 0x57F287 // green
)

const embedFooter = "Lotto"

// weiPerEther scales wei amounts for display
const weiPerEther = 1e18

// Command names
const (
	CommandPool   = "pool"
	CommandWinner = "winner"
)

// Log messages
const (
	LogMsgNotificationSent   = "Discord notification sent"
	LogMsgNotificationFailed = "Failed to send Discord notification"
	LogMsgPayloadInvalid     = "Discord notifier could not decode event payload"
	LogMsgBotReady           = "Discord bot is ready"
	LogMsgBotStarted         = "Discord bot is now running"
	LogMsgCommandsUnchanged  = "Discord commands unchanged, skipping registration"
	LogMsgCommandsUpdated    = "Discord commands updated"
	LogMsgRespondFailed      = "Failed to respond to Discord interaction"
	LogMsgPoolLoadFailed     = "Failed to load pool for Discord command"
)

// Friendly message constants for Discord responses
const (
	MsgPoolUnavailable = "❌ The pool is not reachable right now."
	MsgNoWinnerYet     = "🎟️ No draw has been settled yet."
)
