package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/classpad/classpad/internal/model"
	"github.com/classpad/classpad/internal/repository"
	"github.com/classpad/classpad/internal/service"
)

// Bot is the chat front end: teachers link classes from their group
// chats, everyone opens the mini-app from /dashboard, and replies to a
// posted assignment become submissions.
type Bot struct {
	api         *tgbotapi.BotAPI
	webAppURL   string
	classes     repository.ClassRepository
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	snapshots   service.SnapshotService
}

func New(
	api *tgbotapi.BotAPI,
	webAppURL string,
	classes repository.ClassRepository,
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	snapshots service.SnapshotService,
) *Bot {
	return &Bot{
		api:         api,
		webAppURL:   webAppURL,
		classes:     classes,
		assignments: assignments,
		submissions: submissions,
		snapshots:   snapshots,
	}
}

// Run long-polls updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)
	log.Info().Str("bot", b.api.Self.UserName).Msg("Bot polling started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(update.Message)
		}
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart(msg)
		case "dashboard":
			b.handleDashboard(msg)
		case "init_class":
			b.handleInitClass(msg)
		}
		return
	}
	b.handleReplyCapture(msg)
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	if _, err := b.api.Send(out); err != nil {
		log.Warn().Err(err).Int64("chat_id", msg.Chat.ID).Msg("Failed to send reply")
	}
}

func fullName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	b.reply(msg, fmt.Sprintf(
		"Hi %s — classpad.\n"+
			"Teachers: use /dashboard to open the in-Telegram app, then link your class.\n"+
			"Tip: disable bot privacy mode for reply-based submissions.",
		fullName(msg.From)))
}

func (b *Bot) handleDashboard(msg *tgbotapi.Message) {
	if b.webAppURL == "" {
		b.reply(msg, "Mini App URL not configured.")
		return
	}
	out := tgbotapi.NewMessage(msg.Chat.ID, "Open the dashboard:")
	out.ReplyMarkup = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.KeyboardButton{
			Text:   "Open LMS Dashboard",
			WebApp: &tgbotapi.WebAppInfo{URL: b.webAppURL},
		}),
	)
	if _, err := b.api.Send(out); err != nil {
		log.Warn().Err(err).Msg("Failed to send dashboard keyboard")
	}
}

func (b *Bot) handleInitClass(msg *tgbotapi.Message) {
	if msg.Chat.IsPrivate() {
		b.reply(msg, "Run this command in your class group.")
		return
	}
	teacherID := msg.From.ID
	title := msg.Chat.Title
	if title == "" {
		title = fmt.Sprintf("Class %d", msg.Chat.ID)
	}
	if _, err := b.classes.EnsureTeacher(teacherID, fullName(msg.From)); err != nil {
		log.Error().Err(err).Msg("Failed to ensure teacher")
		return
	}
	class, err := b.classes.LinkClass(msg.Chat.ID, title, teacherID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to link class")
		return
	}
	b.reply(msg, fmt.Sprintf("✅ Class linked: %s\nCourse code: %s\nUse /dashboard (Mini App) to create assignments.", class.Title, class.CourseCode))
	b.snapshots.SendTeacherSnapshot(teacherID)
}

// handleReplyCapture turns a group reply to a posted assignment into a
// submission carrying whatever file the message had.
func (b *Bot) handleReplyCapture(msg *tgbotapi.Message) {
	if msg.ReplyToMessage == nil || msg.From == nil {
		return
	}
	if !msg.Chat.IsGroup() && !msg.Chat.IsSuperGroup() {
		return
	}
	classID := model.UserKey(msg.Chat.ID)
	assignments, err := b.assignments.ListAssignments(classID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list assignments for reply capture")
		return
	}
	var found *model.Assignment
	for _, a := range assignments {
		if a.PostedMessageID != nil && *a.PostedMessageID == msg.ReplyToMessage.MessageID {
			found = a
			break
		}
	}
	if found == nil {
		return
	}

	fileMeta := extractFile(msg)
	messageID := msg.MessageID
	sub, err := b.submissions.AddSubmission(found.AssignmentID, msg.From.ID, fullName(msg.From), msg.Text, fileMeta, &messageID)
	if err != nil {
		log.Error().Err(err).Str("assignment_id", found.AssignmentID).Msg("Failed to record reply submission")
		return
	}
	b.reply(msg, fmt.Sprintf("✅ Submission received for %s (ID: %s).", found.AssignmentID, sub.SubmissionID))

	if class, err := b.classes.GetClass(classID); err == nil {
		b.snapshots.SendTeacherSnapshot(class.TeacherTgID)
	}
}

// extractFile picks the attachment out of a message; photos keep only
// the largest size. Files stay on Telegram's servers, so LocalPath is
// empty.
func extractFile(msg *tgbotapi.Message) *model.FileMeta {
	switch {
	case msg.Document != nil:
		return &model.FileMeta{
			FileID: msg.Document.FileID,
			Mime:   msg.Document.MimeType,
			Size:   int64(msg.Document.FileSize),
		}
	case len(msg.Photo) > 0:
		p := msg.Photo[len(msg.Photo)-1]
		return &model.FileMeta{
			FileID: p.FileID,
			Mime:   "image/jpeg",
			Size:   int64(p.FileSize),
		}
	case msg.Video != nil:
		return &model.FileMeta{
			FileID: msg.Video.FileID,
			Mime:   msg.Video.MimeType,
			Size:   int64(msg.Video.FileSize),
		}
	default:
		return nil
	}
}
