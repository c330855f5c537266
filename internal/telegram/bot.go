package telegram

import (
	"encoding/json"
	"net/http"
	"strings"

	"eth-telegram-bot/internal/commands"
	"eth-telegram-bot/internal/types"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const webhookBuffer = 100

// NewBot creates new telegram bot
func NewBot(c BotConfig, cmds *commands.Commands) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug
	log.Infof("🤖 Authorized on account %s", bot.Self.UserName)

	return &Bot{
		api:      bot,
		Config:   c,
		commands: cmds,
	}, nil
}

// WebhookPath is where Telegram posts updates in webhook mode. It embeds the token so only
// Telegram knows it.
func (b *Bot) WebhookPath() string {
	return "/webhook/" + b.Config.Token
}

// GetUpdatesChannel gets new updates, by long polling or from the webhook when one is configured.
func (b *Bot) GetUpdatesChannel() (tgbotapi.UpdatesChannel, error) {
	if b.Config.WebhookURL == "" {
		if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			log.Warnf("⚠️ Could not remove webhook: %v", err)
		}

		updatesConfig := tgbotapi.NewUpdate(0)
		if b.Config.UpdatesTimeout > 0 {
			updatesConfig.Timeout = b.Config.UpdatesTimeout
		}
		return b.api.GetUpdatesChan(updatesConfig), nil
	}

	wh, err := tgbotapi.NewWebhook(strings.TrimSuffix(b.Config.WebhookURL, "/") + b.WebhookPath())
	if err != nil {
		return nil, errors.Wrap(err, "invalid webhook url")
	}
	if _, err := b.api.Request(wh); err != nil {
		return nil, errors.Wrap(err, "could not register webhook")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.webhook == nil {
		b.webhook = make(chan tgbotapi.Update, webhookBuffer)
	}
	log.Info("🌐 Webhook registered.")
	return b.webhook, nil
}

// ServeHTTP receives webhook updates and queues them on the updates channel.
func (b *Bot) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	b.mu.Lock()
	ch := b.webhook
	b.mu.Unlock()
	if ch == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("❌ Bad webhook payload: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	select {
	case ch <- update:
		w.WriteHeader(http.StatusOK)
	case <-r.Context().Done():
		w.WriteHeader(http.StatusServiceUnavailable)
	}
}

// Stop ends long polling. Webhook updates stop arriving once the HTTP server shuts down.
func (b *Bot) Stop() {
	if b.Config.WebhookURL == "" {
		b.api.StopReceivingUpdates()
	}
}

// SendMessage sends a telegram message
func (b *Bot) SendMessage(m Message) error {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.ReplyToMessageID = m.MessageID
	msg.DisableWebPagePreview = true
	msg.ParseMode = m.ParseMode
	_, err := b.api.Send(msg)
	return errors.Wrapf(err, "could not send message to %d", m.ChatID)
}

// SendPhoto sends a PNG with a MarkdownV2 caption.
func (b *Bot) SendPhoto(chatID int64, replyTo int, png []byte, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
		Name:  "chart.png",
		Bytes: png,
	})
	photo.Caption = caption
	photo.ParseMode = markdownV2
	photo.ReplyToMessageID = replyTo
	_, err := b.api.Send(photo)
	return errors.Wrapf(err, "could not send photo to %d", chatID)
}

// Notify sends a plain text notification. Failures are returned, never retried.
func (b *Bot) Notify(chatID types.ChatID, text string) error {
	return b.SendMessage(Message{ChatID: int64(chatID), Text: text})
}
