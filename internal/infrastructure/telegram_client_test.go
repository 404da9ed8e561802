package infrastructure

import (
	"context"
	"errors"
	"testing"

	"greeterbot/internal/entities"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTelegramAPI struct {
	sent     []tgbotapi.Chattable
	photoErr error
}

func (f *fakeTelegramAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if _, ok := c.(tgbotapi.PhotoConfig); ok && f.photoErr != nil {
		return tgbotapi.Message{}, f.photoErr
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func TestTelegramClient_SendText(t *testing.T) {
	api := &fakeTelegramAPI{}
	client := NewTelegramClient(api, nil)

	require.NoError(t, client.Send(context.Background(), "42", entities.Outbound{Content: "Luigi's *menu*"}))

	require.Len(t, api.sent, 1)
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "Luigi's *menu*", msg.Text)
	assert.Empty(t, msg.ParseMode)
}

func TestTelegramClient_SendPhoto(t *testing.T) {
	api := &fakeTelegramAPI{}
	client := NewTelegramClient(api, nil)

	out := entities.Outbound{
		Content:  "Welcome",
		Elements: []entities.Element{entities.NewImage("https://cdn.example.com/logo.png", "restaurant_logo")},
	}
	require.NoError(t, client.Send(context.Background(), "42", out))

	require.Len(t, api.sent, 1)
	photo, ok := api.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), photo.ChatID)
	assert.Equal(t, "Welcome", photo.Caption)
	assert.Equal(t, tgbotapi.FileURL("https://cdn.example.com/logo.png"), photo.File)
}

func TestTelegramClient_PhotoRejectedFallsBackToText(t *testing.T) {
	api := &fakeTelegramAPI{photoErr: errors.New("Bad Request: wrong file identifier/HTTP URL specified")}
	client := NewTelegramClient(api, nil)

	out := entities.Outbound{
		Content:  "Welcome",
		Elements: []entities.Element{entities.NewImage("Default URL", "restaurant_logo")},
	}
	require.NoError(t, client.Send(context.Background(), "42", out))

	require.Len(t, api.sent, 1)
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, "Welcome\nrestaurant_logo: Default URL", msg.Text)
}

func TestTelegramClient_InvalidChatID(t *testing.T) {
	client := NewTelegramClient(&fakeTelegramAPI{}, nil)
	assert.Error(t, client.Send(context.Background(), "not-a-number", entities.Outbound{Content: "x"}))
}
