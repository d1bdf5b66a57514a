package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/classpad/classpad/internal/model"
)

// Notifier pushes class activity into Telegram chats. Implementations
// must be safe to call after a document mutation has committed; callers
// log failures and move on, delivery is best effort.
type Notifier interface {
	// PostAssignment announces an assignment in its class group and
	// returns the posted message id.
	PostAssignment(chatID int64, a *model.Assignment) (int, error)
	// EditAssignment rewrites a previously posted announcement.
	EditAssignment(chatID int64, messageID int, a *model.Assignment) error
	SendReminder(chatID int64, a *model.Assignment) error
	// SendSnapshot DMs a recent-activity digest to a teacher and pins it.
	SendSnapshot(teacherTgID int64, text string) error
}

// AssignmentText renders the group announcement for an assignment. The
// same text is used when posting and when editing after an update.
func AssignmentText(a *model.Assignment) string {
	lines := []string{
		fmt.Sprintf("📌 *Assignment* — *%s*", a.AssignmentID),
		fmt.Sprintf("*%s*", a.Title),
	}
	if a.DueAt != nil && *a.DueAt != "" {
		lines = append(lines, fmt.Sprintf("🗓 Due: %s", *a.DueAt))
	}
	if a.InstructionsMD != "" {
		lines = append(lines, "\n"+a.InstructionsMD)
	}
	lines = append(lines, "\nReply to *this message* with your document/file.")
	return strings.Join(lines, "\n")
}

// ReminderText renders the reminder message for an assignment.
func ReminderText(a *model.Assignment) string {
	text := fmt.Sprintf("⏰ Reminder: *%s* (ID: %s)", a.Title, a.AssignmentID)
	if a.DueAt != nil && *a.DueAt != "" {
		text += fmt.Sprintf("\nDue: %s", *a.DueAt)
	}
	return text
}

type telegramNotifier struct {
	api *tgbotapi.BotAPI
}

// NewTelegramNotifier wraps a bot API client as a Notifier.
func NewTelegramNotifier(api *tgbotapi.BotAPI) Notifier {
	return &telegramNotifier{api: api}
}

func (n *telegramNotifier) PostAssignment(chatID int64, a *model.Assignment) (int, error) {
	msg := tgbotapi.NewMessage(chatID, AssignmentText(a))
	msg.ParseMode = tgbotapi.ModeMarkdown
	sent, err := n.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("post assignment: %w", err)
	}
	n.pin(chatID, sent.MessageID)
	return sent.MessageID, nil
}

func (n *telegramNotifier) EditAssignment(chatID int64, messageID int, a *model.Assignment) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, AssignmentText(a))
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.api.Send(edit); err != nil {
		return fmt.Errorf("edit assignment: %w", err)
	}
	return nil
}

func (n *telegramNotifier) SendReminder(chatID int64, a *model.Assignment) error {
	msg := tgbotapi.NewMessage(chatID, ReminderText(a))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	return nil
}

func (n *telegramNotifier) SendSnapshot(teacherTgID int64, text string) error {
	sent, err := n.api.Send(tgbotapi.NewMessage(teacherTgID, text))
	if err != nil {
		return fmt.Errorf("send snapshot: %w", err)
	}
	n.pin(teacherTgID, sent.MessageID)
	return nil
}

// pin is best effort; the bot may lack pin rights in a chat.
func (n *telegramNotifier) pin(chatID int64, messageID int) {
	_, err := n.api.Request(tgbotapi.PinChatMessageConfig{
		ChatID:              chatID,
		MessageID:           messageID,
		DisableNotification: true,
	})
	if err != nil {
		log.Debug().Err(err).Int64("chat_id", chatID).Msg("pin failed")
	}
}

// NopNotifier backs tests and token-less development runs.
type NopNotifier struct{}

func (NopNotifier) PostAssignment(int64, *model.Assignment) (int, error) { return 0, nil }
func (NopNotifier) EditAssignment(int64, int, *model.Assignment) error   { return nil }
func (NopNotifier) SendReminder(int64, *model.Assignment) error          { return nil }
func (NopNotifier) SendSnapshot(int64, string) error                     { return nil }
