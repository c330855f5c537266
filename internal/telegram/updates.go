package telegram

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"time"

	"eth-telegram-bot/internal/metrics"
	"github.com/davecgh/go-spew/spew"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

const commandTimeout = 30 * time.Second

// HandleUpdates answers commands from updates until ctx is done or the channel closes.
func (b *Bot) HandleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handle(ctx, update)
		}
	}
}

func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || !update.Message.IsCommand() {
		if log.IsLevelEnabled(log.DebugLevel) {
			log.Debugf("Received non-message or non-command: %s", spew.Sdump(update))
		}
		return
	}

	chatID := update.Message.Chat.ID
	chatName := update.Message.Chat.Title
	if chatName == "" {
		chatName = fmt.Sprintf("%s-%d", "PrivateChat", chatID)
	}
	metrics.Default.TrackChannel(chatID, chatName)

	b.handleCommand(ctx, update)
}

func (b *Bot) handleCommand(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			stackBuf := make([]byte, 4096)
			stackSize := runtime.Stack(stackBuf, false)
			stackTrace := bytes.TrimRight(stackBuf[:stackSize], "\x00")
			log.Errorf("Recovered from panic: %v\nStack trace: %s", r, stackTrace)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	reply := b.HandleUpdate(ctx, update)
	chatID := update.Message.Chat.ID
	replyTo := update.Message.MessageID

	var err error
	switch {
	case reply.Photo != nil:
		err = b.SendPhoto(chatID, replyTo, reply.Photo, reply.Text)
	case reply.Text != "":
		err = b.SendMessage(Message{
			ChatID:    chatID,
			MessageID: replyTo,
			Text:      reply.Text,
			ParseMode: reply.ParseMode,
		})
	default:
		return
	}

	if err != nil {
		log.Errorf("Failed to send message: %v", err)
		return
	}
	metrics.Default.CommandsProcessed.Inc()
}
