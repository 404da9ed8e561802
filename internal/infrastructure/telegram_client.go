package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"greeterbot/internal/entities"
	"greeterbot/internal/interfaces"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var _ interfaces.Sender = (*TelegramClient)(nil)

// telegramAPI is the part of *tgbotapi.BotAPI the client needs
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramClient struct {
	api    telegramAPI
	logger *slog.Logger
}

func NewTelegramClient(api telegramAPI, logger *slog.Logger) *TelegramClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &TelegramClient{api: api, logger: logger}
}

// Send delivers msg as plain text. The first image element is sent as a photo
// with the text as caption; when Telegram rejects the photo the text is sent
// with the image URLs appended.
func (t *TelegramClient) Send(_ context.Context, to string, msg entities.Outbound) error {
	chatID, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", to, err)
	}

	text := msg.Content
	images := msg.Images()
	if len(images) > 0 {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(images[0].URL))
		photo.Caption = msg.Content
		_, err := t.api.Send(photo)
		switch {
		case err != nil:
			t.logger.Warn("Telegram rejected photo, sending text", "chat", chatID, "image", images[0].Name, "error", err)
			text = appendImageLinks(msg.Content, images)
		case len(images) == 1:
			return nil
		default:
			text = appendImageLinks("", images[1:])
		}
	}

	_, err = t.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// appendImageLinks renders image elements as "name: url" lines after text
func appendImageLinks(text string, images []entities.Element) string {
	var sb strings.Builder
	sb.WriteString(text)
	for _, img := range images {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", img.Name, img.URL))
	}
	return sb.String()
}
