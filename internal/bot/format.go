package bot

import (
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/edubase/remote-console/internal/report"
)

var statusEmoji = map[report.Status]string{
	report.StatusNew:        "🆕",
	report.StatusInProgress: "🔄",
	report.StatusResolved:   "✅",
	report.StatusRejected:   "❌",
}

// mediaLabel describes the attachment type for the admin message.
func mediaLabel(m *tgbotapi.Message) string {
	switch {
	case len(m.Photo) > 0:
		return "📷 Фото"
	case m.Video != nil:
		return "🎥 Видео"
	case m.Document != nil:
		return "📄 Документ"
	case m.Audio != nil:
		return "🎵 Аудио"
	case m.Voice != nil:
		return "🎤 Голосовое"
	case m.VideoNote != nil:
		return "📹 Видеосообщение"
	case m.Sticker != nil:
		return "😀 Стикер"
	default:
		return ""
	}
}

func authorLine(rep *report.Report) string {
	name := rep.AuthorFirstName
	if name == "" {
		name = "Неизвестно"
	}
	line := "👤 <b>Автор:</b> " + html.EscapeString(name)
	if rep.AuthorUsername != "" {
		line += "\n@" + html.EscapeString(rep.AuthorUsername)
	}
	return line
}

func displayID(rep *report.Report) string {
	if rep.NumericID > 0 {
		return fmt.Sprintf("#%d", rep.NumericID)
	}
	return fmt.Sprintf("<code>%s</code>", rep.ReportID)
}

// newReportText — сообщение админу о новом репорте.
func newReportText(rep *report.Report, media string, fromMainTester bool) string {
	origin := ""
	if fromMainTester {
		origin = " <i>(от главного тестировщика)</i>"
	}
	mediaInfo := ""
	if media != "" {
		mediaInfo = "\n📎 <b>Тип:</b> " + media
	}

	return fmt.Sprintf(`%s <b>Новый репорт</b> %s%s

%s%s

📝 <b>Содержание:</b>
%s

🆔 <b>ID:</b> %s
📅 <b>Дата:</b> %s`,
		rep.Tag, displayID(rep), origin,
		authorLine(rep), mediaInfo,
		html.EscapeString(truncate(rep.Content, 500)),
		displayID(rep),
		time.Now().Format("02.01.2006 15:04"),
	)
}

// detailsText — полная карточка репорта.
func detailsText(rep *report.Report) string {
	return fmt.Sprintf(`%s <b>Детали репорта</b> %s

%s

📝 <b>Полное содержание:</b>
%s

📊 <b>Статус:</b> %s
🆔 <b>ID:</b> %s
📅 <b>Создан:</b> %s
🔄 <b>Обновлен:</b> %s`,
		rep.Tag, displayID(rep),
		authorLine(rep),
		html.EscapeString(rep.Content),
		rep.Status.Label(),
		displayID(rep),
		rep.CreatedAt.Format("02.01.2006 15:04"),
		rep.UpdatedAt.Format("02.01.2006 15:04"),
	)
}

// shortText — краткая карточка (кнопка «Назад»).
func shortText(rep *report.Report) string {
	return fmt.Sprintf(`%s <b>Репорт</b> %s

%s

📝 <b>Содержание:</b>
%s

🆔 <b>ID:</b> %s
📅 <b>Дата:</b> %s`,
		rep.Tag, displayID(rep),
		authorLine(rep),
		html.EscapeString(truncate(rep.Content, 500)),
		displayID(rep),
		rep.CreatedAt.Format("02.01.2006 15:04"),
	)
}

// statusUpdateText — уведомление в группу о смене статуса.
func statusUpdateText(rep *report.Report, status report.Status) string {
	return fmt.Sprintf(`%s <b>Статус обновлен</b> %s

📝 <b>Репорт:</b> %s

%s

🆔 <b>ID:</b> %s`,
		rep.Tag, displayID(rep),
		html.EscapeString(truncate(rep.Content, 200)),
		status.Label(),
		displayID(rep),
	)
}

// listText renders up to a page of reports, newest first.
func listText(reports []report.Report, total int, tag string) string {
	filter := ""
	if tag != "" {
		filter = fmt.Sprintf(" (%s)", tag)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>Список репортов</b>%s\n\n", filter)
	for _, rep := range reports {
		preview := truncate(strings.ReplaceAll(rep.Content, "\n", " "), 60)
		fmt.Fprintf(&b, "%s <b>%s</b> %s - %s\n   %s\n\n",
			statusEmoji[rep.Status], displayID(&rep), rep.Tag,
			rep.Status.Label(), html.EscapeString(preview))
	}
	fmt.Fprintf(&b, "<i>Показано %d из %d</i>", len(reports), total)
	return b.String()
}

// statusKeyboard — кнопки смены статуса; последняя кнопка либо «Детали»,
// либо «Назад».
func statusKeyboard(reportID string, details bool) tgbotapi.InlineKeyboardMarkup {
	last := tgbotapi.NewInlineKeyboardButtonData("📋 Детали", callbackDetailsPrefix+reportID)
	if details {
		last = tgbotapi.NewInlineKeyboardButtonData("◀️ Назад", callbackBackPrefix+reportID)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 В работе", statusCallback(reportID, report.StatusInProgress)),
			tgbotapi.NewInlineKeyboardButtonData("✅ Решено", statusCallback(reportID, report.StatusResolved)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отклонено", statusCallback(reportID, report.StatusRejected)),
			last,
		),
	)
}

func statusCallback(reportID string, status report.Status) string {
	return callbackStatusPrefix + reportID + "_" + string(status)
}

// listKeyboard — фильтры по тегам плюс кнопки просмотра первых репортов.
func listKeyboard(reports []report.Report, activeTag string) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	var filters []tgbotapi.InlineKeyboardButton
	for _, tag := range TrackedTags {
		if tag == activeTag {
			continue
		}
		filters = append(filters,
			tgbotapi.NewInlineKeyboardButtonData(tag, callbackListTagPrefix+tag))
	}
	if len(filters) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(filters...))
	}
	if activeTag != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Все репорты", callbackListAll)))
	}

	var viewRow []tgbotapi.InlineKeyboardButton
	for i, rep := range reports {
		if i == 5 {
			break
		}
		viewRow = append(viewRow, tgbotapi.NewInlineKeyboardButtonData(
			displayID(&rep), callbackViewPrefix+rep.ReportID))
		if len(viewRow) == 2 {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(viewRow...))
			viewRow = nil
		}
	}
	if len(viewRow) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(viewRow...))
	}

	if len(rows) == 0 {
		return nil
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
