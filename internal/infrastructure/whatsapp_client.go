package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"greeterbot/internal/entities"
	"greeterbot/internal/interfaces"

	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var _ interfaces.Sender = (*WhatsAppClient)(nil)

type WhatsAppClient struct {
	Client *whatsmeow.Client
	logger *slog.Logger

	qrCode string
	qrLock sync.RWMutex
}

// NewWhatsAppClient opens the SQLite device store at dbPath and builds a client
// for its first device
func NewWhatsAppClient(ctx context.Context, dbPath, logLevel string, logger *slog.Logger) (*WhatsAppClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create device directory: %w", err)
	}

	dbLog := waLog.Stdout("Database", waLogLevel(logLevel), true)
	container, err := sqlstore.New(ctx, "sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)", dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to device store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	clientLog := waLog.Stdout("Client", waLogLevel(logLevel), true)
	return &WhatsAppClient{
		Client: whatsmeow.NewClient(deviceStore, clientLog),
		logger: logger,
	}, nil
}

// waLogLevel maps our level names onto whatsmeow's
func waLogLevel(level string) string {
	switch level {
	case "trace", "debug":
		return "DEBUG"
	case "info":
		return "INFO"
	case "error":
		return "ERROR"
	default:
		return "WARN"
	}
}

// Connect connects the client. Without a stored session a pairing QR code is
// kept available through GetQR until the device is linked.
func (w *WhatsAppClient) Connect(ctx context.Context) error {
	if w.Client.Store.ID != nil {
		if err := w.Client.Connect(); err != nil {
			return err
		}
		w.logger.Info("WhatsApp connected with existing session")
		return nil
	}

	qrChan, err := w.Client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to get qr channel: %w", err)
	}
	if err := w.Client.Connect(); err != nil {
		return err
	}

	go func() {
		for evt := range qrChan {
			if evt.Event == "code" {
				w.setQR(evt.Code)
				w.logger.Info("New pairing QR code available")
				continue
			}
			w.setQR("")
			w.logger.Info("Login event", "event", evt.Event)
		}
	}()
	return nil
}

func (w *WhatsAppClient) setQR(code string) {
	w.qrLock.Lock()
	defer w.qrLock.Unlock()
	w.qrCode = code
}

func (w *WhatsAppClient) GetQR() string {
	w.qrLock.RLock()
	defer w.qrLock.RUnlock()
	return w.qrCode
}

func (w *WhatsAppClient) IsLoggedIn() bool {
	return w.Client.Store.ID != nil
}

// GetUserInfo returns connected user's phone number and push name
func (w *WhatsAppClient) GetUserInfo() (string, string) {
	if w.Client.Store.ID == nil {
		return "", ""
	}
	return w.Client.Store.ID.User, w.Client.Store.PushName
}

func (w *WhatsAppClient) Disconnect() {
	w.Client.Disconnect()
}

func (w *WhatsAppClient) AddHandler(handler func(interface{})) {
	w.Client.AddEventHandler(handler)
}

// Send delivers msg as a conversation message; image elements become trailing URL lines.
// to is the full chat JID, e.g. 628123@s.whatsapp.net or 123456789012345@lid.
func (w *WhatsAppClient) Send(ctx context.Context, to string, msg entities.Outbound) error {
	jid, err := parseChatJID(to)
	if err != nil {
		return err
	}

	text := renderWhatsAppText(msg)
	_, err = w.Client.SendMessage(ctx, jid, &waProto.Message{
		Conversation: &text,
	})
	return err
}

func renderWhatsAppText(msg entities.Outbound) string {
	return appendImageLinks(msg.Content, msg.Images())
}

// parseChatJID parses a chat JID as produced by parseWhatsAppMessage. The
// server part is kept so replies to LID-addressed chats stay on the lid server.
func parseChatJID(chat string) (types.JID, error) {
	jid, err := types.ParseJID(chat)
	if err != nil {
		return types.JID{}, fmt.Errorf("invalid chat jid %q: %w", chat, err)
	}
	if jid.User == "" || jid.Server == "" {
		return types.JID{}, fmt.Errorf("invalid chat jid %q", chat)
	}
	return jid, nil
}

// parseWhatsAppMessage returns the chat JID to reply to and the text of evt
func parseWhatsAppMessage(evt *events.Message) (string, string) {
	chat := evt.Info.Chat.String()
	if evt.Info.Chat.IsEmpty() {
		chat = ""
	}
	if evt.Message == nil {
		return chat, ""
	}
	if c := evt.Message.GetConversation(); c != "" {
		return chat, c
	}
	return chat, evt.Message.GetExtendedTextMessage().GetText()
}
