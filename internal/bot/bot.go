package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/edubase/remote-console/internal/report"
)

// Bot relays tagged reports from the testers group to the admin and tracks
// their status. Updates are processed one at a time off the polling channel.
type Bot struct {
	api   *tgbotapi.BotAPI
	store report.Store
	cfg   Config
	log   *logrus.Entry
}

func New(api *tgbotapi.BotAPI, store report.Store, cfg Config, log *logrus.Entry) *Bot {
	return &Bot{
		api:   api,
		store: store,
		cfg:   cfg,
		log:   log,
	}
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.log.Infof("report bot started: admin=%d group=%d topic=%d testers=%d",
		b.cfg.AdminID, b.cfg.GroupID, b.cfg.TopicID, len(b.cfg.MainTesterIDs))
	if b.cfg.GroupID == 0 {
		b.log.Warn("TELEGRAM_GROUP_ID is not set, group messages will be ignored")
	}

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case upd := <-updates:
			b.handleUpdate(ctx, upd)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.Message != nil:
		b.handleMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	if m.IsCommand() {
		b.handleCommand(ctx, m)
		return
	}
	if m.Chat.IsPrivate() {
		b.handlePrivateMessage(ctx, m)
		return
	}
	b.handleGroupMessage(ctx, m)
}

// handleGroupMessage relays tagged messages from the configured testers
// group.
func (b *Bot) handleGroupMessage(ctx context.Context, m *tgbotapi.Message) {
	if !m.Chat.IsGroup() && !m.Chat.IsSuperGroup() {
		return
	}
	if b.cfg.GroupID == 0 || m.Chat.ID != b.cfg.GroupID {
		return
	}

	text := messageText(m)
	if text == "" {
		return
	}
	tags := ExtractTags(text)
	if len(tags) == 0 {
		return
	}

	// Главный тестировщик шлёт репорты через личку: из группы пропускаем.
	if b.cfg.IsMainTester(m.From.ID) {
		b.log.Infof("skipping group message from main tester %d", m.From.ID)
		return
	}

	b.relayReport(ctx, m, tags[0], false)
}

// handlePrivateMessage accepts reports from main testers in the bot's private
// chat. Anyone else's private messages are ignored.
func (b *Bot) handlePrivateMessage(ctx context.Context, m *tgbotapi.Message) {
	if !b.cfg.IsMainTester(m.From.ID) {
		return
	}

	text := messageText(m)
	if text == "" {
		return
	}
	tags := ExtractTags(text)
	if len(tags) == 0 {
		return
	}

	b.relayReport(ctx, m, tags[0], true)
}

// relayReport stores the report and forwards it to the admin with the status
// keyboard. Duplicates are a no-op.
func (b *Bot) relayReport(ctx context.Context, m *tgbotapi.Message, tag string, fromPrivate bool) {
	rep := &report.Report{
		ReportID:        report.ID(m.Chat.ID, m.MessageID),
		OriginChatID:    m.Chat.ID,
		OriginMessageID: m.MessageID,
		AuthorID:        m.From.ID,
		AuthorUsername:  m.From.UserName,
		AuthorFirstName: m.From.FirstName,
		Tag:             tag,
		Content:         messageText(m),
	}

	added, err := b.store.Add(ctx, rep)
	if err != nil {
		b.log.Errorf("add report %s: %v", rep.ReportID, err)
		if fromPrivate {
			b.replyTo(m, "❌ Ошибка при сохранении репорта. Попробуйте позже.")
		}
		return
	}
	if !added {
		b.log.Infof("report %s already exists, skipping", rep.ReportID)
		if fromPrivate {
			b.replyTo(m, "✅ Репорт уже был обработан ранее")
		}
		return
	}

	keyboard := statusKeyboard(rep.ReportID, false)
	sent, err := b.sendToAdmin(m, newReportText(rep, mediaLabel(m), fromPrivate), keyboard)
	if err != nil {
		b.log.Errorf("forward report %s to admin: %v", rep.ReportID, err)
		if fromPrivate {
			b.replyTo(m, "❌ Ошибка при отправке репорта. Попробуйте позже.")
		}
		return
	}

	adminMessageID := int64(sent.MessageID)
	adminChatID := b.cfg.AdminID
	if _, err := b.store.UpdateStatus(ctx, rep.ReportID, report.StatusNew, &adminMessageID, &adminChatID); err != nil {
		b.log.Errorf("backfill admin message id for %s: %v", rep.ReportID, err)
	}

	b.log.Infof("report %s (%s) relayed to admin", rep.ReportID, tag)
	if fromPrivate {
		b.replyTo(m, fmt.Sprintf("✅ Репорт %s отправлен администратору", displayID(rep)))
	}
}

// sendToAdmin forwards the report with its media attachment when present.
func (b *Bot) sendToAdmin(m *tgbotapi.Message, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	chatID := b.cfg.AdminID

	switch {
	case len(m.Photo) > 0:
		// Самый большой размер — последний в списке.
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(m.Photo[len(m.Photo)-1].FileID))
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeHTML
		photo.ReplyMarkup = keyboard
		return b.api.Send(photo)
	case m.Video != nil:
		video := tgbotapi.NewVideo(chatID, tgbotapi.FileID(m.Video.FileID))
		video.Caption = text
		video.ParseMode = tgbotapi.ModeHTML
		video.ReplyMarkup = keyboard
		return b.api.Send(video)
	case m.Document != nil:
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileID(m.Document.FileID))
		doc.Caption = text
		doc.ParseMode = tgbotapi.ModeHTML
		doc.ReplyMarkup = keyboard
		return b.api.Send(doc)
	case m.Audio != nil:
		audio := tgbotapi.NewAudio(chatID, tgbotapi.FileID(m.Audio.FileID))
		audio.Caption = text
		audio.ParseMode = tgbotapi.ModeHTML
		audio.ReplyMarkup = keyboard
		return b.api.Send(audio)
	case m.Voice != nil:
		voice := tgbotapi.NewVoice(chatID, tgbotapi.FileID(m.Voice.FileID))
		voice.Caption = text
		voice.ParseMode = tgbotapi.ModeHTML
		voice.ReplyMarkup = keyboard
		return b.api.Send(voice)
	default:
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.ReplyMarkup = keyboard
		return b.api.Send(msg)
	}
}

// notifyOrigin posts the status change back where the report came from:
// into the configured topic when set, otherwise as a reply to the original
// message.
func (b *Bot) notifyOrigin(rep *report.Report, status report.Status) error {
	text := statusUpdateText(rep, status)

	if b.cfg.TopicID != 0 && rep.OriginChatID == b.cfg.GroupID {
		params := tgbotapi.Params{}
		params.AddNonZero64("chat_id", rep.OriginChatID)
		params.AddNonEmpty("text", text)
		params.AddNonEmpty("parse_mode", tgbotapi.ModeHTML)
		params.AddNonZero64("message_thread_id", b.cfg.TopicID)
		_, err := b.api.MakeRequest("sendMessage", params)
		return err
	}

	msg := tgbotapi.NewMessage(rep.OriginChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyToMessageID = rep.OriginMessageID
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) replyTo(m *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(m.Chat.ID, text)
	msg.ReplyToMessageID = m.MessageID
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorf("reply failed: %v", err)
	}
}

// messageText returns the text or, for media, the caption.
func messageText(m *tgbotapi.Message) string {
	if m.Text != "" {
		return m.Text
	}
	return m.Caption
}
