package reporter

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-xhs-note-automation/internal/collector"
	"go-xhs-note-automation/internal/config"
)

// TelegramReporter pushes the end-of-run summary to a chat. It is
// optional: the run works the same without a configured bot.
type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(cfg *config.Config) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{
		bot:    bot,
		chatID: cfg.TelegramChatID,
	}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramReporter) SendRunSummary(result collector.RunResult, status collector.Status) error {
	icon := "✅"
	if !result.Success {
		icon = "⚠️"
	}
	text := fmt.Sprintf(
		"%s <b>Note collection finished</b>\n"+
			"📦 Collected: %d notes\n"+
			"🗂 Processed titles: %d\n"+
			"📄 Pages visited: %d\n"+
			"💬 %s",
		icon,
		status.CollectedCount,
		status.ProcessedCount,
		status.CurrentPage,
		result.Message,
	)
	return t.SendMessage(text)
}

func (t *TelegramReporter) SendError(errReq error) error {
	text := fmt.Sprintf("⚠️ <b>Note collector error</b>:\n%v", errReq)
	return t.SendMessage(text)
}
