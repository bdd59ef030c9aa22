package notify

import (
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v3"

	"smmdesk/internal/models"
)

// Telegram sends admin alerts to a Telegram chat. The bot is used send-only;
// no poller is attached.
type Telegram struct {
	bot    *tele.Bot
	chatID int64
}

// NewTelegram creates a Telegram notifier for the given admin chat.
func NewTelegram(token, adminChatID string) (*Telegram, error) {
	chatID, err := strconv.ParseInt(adminChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid admin chat id %q: %w", adminChatID, err)
	}

	bot, err := tele.NewBot(tele.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) send(text string) error {
	_, err := t.bot.Send(tele.ChatID(t.chatID), text, tele.ModeHTML)
	return err
}

func (t *Telegram) AdminNewRefillRequest(order *models.Order, user *models.User, req *models.RefillRequest) error {
	return t.send(refillRequestText(order, user, req))
}

func (t *Telegram) AdminNewCancelRequest(order *models.Order, user *models.User, req *models.CancelRequest) error {
	return t.send(cancelRequestText(order, user, req))
}

func (t *Telegram) AdminSupportTicket(ticket *models.SupportTicket, user *models.User) error {
	return t.send(supportTicketText(ticket, user))
}

func (t *Telegram) AdminDailyReport(text string) error {
	return t.send(text)
}
