package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/edubase/remote-console/internal/report"
)

const notFoundText = "❌ Репорт не найден"

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		b.log.Debugf("callback answer failed: %v", err)
	}

	data := q.Data
	switch {
	case strings.HasPrefix(data, callbackStatusPrefix):
		b.handleStatusCallback(ctx, q)
	case strings.HasPrefix(data, callbackDetailsPrefix):
		b.showReport(ctx, q, strings.TrimPrefix(data, callbackDetailsPrefix), true)
	case strings.HasPrefix(data, callbackBackPrefix):
		b.showReport(ctx, q, strings.TrimPrefix(data, callbackBackPrefix), false)
	case strings.HasPrefix(data, callbackViewPrefix):
		b.showReportFromList(ctx, q, strings.TrimPrefix(data, callbackViewPrefix))
	case strings.HasPrefix(data, callbackListTagPrefix):
		b.showList(ctx, q, strings.TrimPrefix(data, callbackListTagPrefix))
	case data == callbackListAll:
		b.showList(ctx, q, "")
	default:
		b.log.Warnf("unknown callback payload: %q", data)
		b.editCallbackMessage(q, notFoundText, nil)
	}
}

// handleStatusCallback runs one admin-triggered status transition: store
// update, origin notification, admin message annotation.
func (b *Bot) handleStatusCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	reportID, status, ok := parseStatusCallback(q.Data)
	if !ok {
		b.log.Warnf("malformed status callback: %q", q.Data)
		b.editCallbackMessage(q, notFoundText, nil)
		return
	}

	rep, err := b.store.Get(ctx, reportID)
	if err != nil {
		b.log.Errorf("get report %s: %v", reportID, err)
		return
	}
	if rep == nil {
		b.editCallbackMessage(q, notFoundText, nil)
		return
	}

	if _, err := b.store.UpdateStatus(ctx, reportID, status, nil, nil); err != nil {
		b.log.Errorf("update status of %s: %v", reportID, err)
		b.editCallbackMessage(q, "❌ Ошибка при обновлении статуса", nil)
		return
	}

	if err := b.notifyOrigin(rep, status); err != nil {
		b.log.Errorf("notify origin chat for %s: %v", reportID, err)
		b.editCallbackMessage(q, "❌ Ошибка при отправке обновления в группу", nil)
		return
	}

	current := messageText(q.Message)
	b.editCallbackMessage(q, current+"\n\n✅ <b>Статус изменен на:</b> "+status.Label(), nil)
	b.log.Infof("report %s moved to %s", reportID, status)
}

// showReport renders the detailed or short report card in place.
func (b *Bot) showReport(ctx context.Context, q *tgbotapi.CallbackQuery, reportID string, details bool) {
	rep, err := b.store.Get(ctx, reportID)
	if err != nil {
		b.log.Errorf("get report %s: %v", reportID, err)
		return
	}
	if rep == nil {
		b.editCallbackMessage(q, notFoundText, nil)
		return
	}

	text := shortText(rep)
	if details {
		text = detailsText(rep)
	}
	keyboard := statusKeyboard(reportID, details)
	b.editCallbackMessage(q, text, &keyboard)
}

// showReportFromList is the list's view button: detail card with a way back
// to the list.
func (b *Bot) showReportFromList(ctx context.Context, q *tgbotapi.CallbackQuery, reportID string) {
	rep, err := b.store.Get(ctx, reportID)
	if err != nil {
		b.log.Errorf("get report %s: %v", reportID, err)
		return
	}
	if rep == nil {
		b.editCallbackMessage(q, notFoundText, nil)
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 В работе", statusCallback(reportID, report.StatusInProgress)),
			tgbotapi.NewInlineKeyboardButtonData("✅ Решено", statusCallback(reportID, report.StatusResolved)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отклонено", statusCallback(reportID, report.StatusRejected)),
			tgbotapi.NewInlineKeyboardButtonData("◀️ Назад к списку", callbackListAll),
		),
	)
	b.editCallbackMessage(q, detailsText(rep), &keyboard)
}

func (b *Bot) showList(ctx context.Context, q *tgbotapi.CallbackQuery, tag string) {
	text, keyboard, err := b.buildListView(ctx, tag)
	if err != nil {
		b.log.Errorf("build report list: %v", err)
		return
	}
	b.editCallbackMessage(q, text, keyboard)
}

// buildListView is shared by the /list command and the list callbacks.
func (b *Bot) buildListView(ctx context.Context, tag string) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	filter := report.Filter{Tag: tag, Limit: 10}
	reports, err := b.store.List(ctx, filter)
	if err != nil {
		return "", nil, err
	}
	total, err := b.store.Count(ctx, filter)
	if err != nil {
		return "", nil, err
	}

	if len(reports) == 0 {
		suffix := ""
		if tag != "" {
			suffix = " с тегом " + tag
		}
		return "📋 Репортов" + suffix + " не найдено", nil, nil
	}
	return listText(reports, total, tag), listKeyboard(reports, tag), nil
}

// editCallbackMessage edits the message the pressed button belongs to,
// whether it is a plain message or a media caption.
func (b *Bot) editCallbackMessage(q *tgbotapi.CallbackQuery, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	if q.Message == nil {
		return
	}
	chatID := q.Message.Chat.ID
	messageID := q.Message.MessageID

	var cfg tgbotapi.Chattable
	if q.Message.Text != "" || q.Message.Caption == "" {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
		edit.ParseMode = tgbotapi.ModeHTML
		edit.ReplyMarkup = keyboard
		cfg = edit
	} else {
		edit := tgbotapi.NewEditMessageCaption(chatID, messageID, text)
		edit.ParseMode = tgbotapi.ModeHTML
		edit.ReplyMarkup = keyboard
		cfg = edit
	}

	if _, err := b.api.Send(cfg); err != nil {
		b.log.Errorf("edit message failed: %v", err)
	}
}
