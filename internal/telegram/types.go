package telegram

import (
	"sync"

	"eth-telegram-bot/internal/commands"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const markdownV2 = "MarkdownV2"

// BotConfig configuration of the bot
type BotConfig struct {
	Token          string
	Debug          bool
	UpdatesTimeout int
	// WebhookURL switches from long polling to a webhook when set. It is the public base URL;
	// updates are posted to <WebhookURL>/webhook/<token>.
	WebhookURL string
}

// api is the part of *tgbotapi.BotAPI the bot uses.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot telegram interaction client
type Bot struct {
	api      api
	Config   BotConfig
	commands *commands.Commands

	mu      sync.Mutex
	webhook chan tgbotapi.Update
}

// Message a telegram message struct
type Message struct {
	ChatID    int64
	MessageID int
	Text      string
	ParseMode string
}

// Reply is the answer to one command: a text message, or a photo when Photo is set with Text as
// its caption.
type Reply struct {
	Text      string
	ParseMode string
	Photo     []byte
}
