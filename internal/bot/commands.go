package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/edubase/remote-console/internal/report"
)

func (b *Bot) handleCommand(ctx context.Context, m *tgbotapi.Message) {
	switch m.Command() {
	case "start":
		b.startCommand(m)
	case "stats":
		b.statsCommand(ctx, m)
	case "list":
		b.listCommand(ctx, m)
	case "getid":
		b.getIDCommand(m)
	}
}

func (b *Bot) startCommand(m *tgbotapi.Message) {
	var sb strings.Builder
	sb.WriteString("🤖 Бот-трекер репортов запущен!\n\n")
	sb.WriteString("Бот отслеживает сообщения в группе тестировщиков по тегам:\n")
	sb.WriteString("• #BUG - ошибка функционала\n")
	sb.WriteString("• #UIFIX - ошибка интерфейса/верстки\n")
	sb.WriteString("• #FEATURE - предложение по функционалу\n\n")

	if b.cfg.IsMainTester(m.From.ID) {
		sb.WriteString("✅ Вы главный тестировщик!\n")
		sb.WriteString("Вы можете отправлять репорты прямо в эту личку.\n")
		sb.WriteString("Просто напишите сообщение с тегом (#BUG, #UIFIX или #FEATURE).\n\n")
		sb.WriteString("Репорты будут автоматически отправлены администратору.")
	} else {
		sb.WriteString("Репорты автоматически пересылаются админу в личку.")
	}

	if b.cfg.IsAdmin(m.From.ID) {
		sb.WriteString("\n\n📋 <b>Команды:</b>\n")
		sb.WriteString("/list - список всех репортов\n")
		sb.WriteString("/list bug - список репортов #BUG\n")
		sb.WriteString("/list uifix - список репортов #UIFIX\n")
		sb.WriteString("/list feature - список репортов #FEATURE\n")
		sb.WriteString("/stats - статистика репортов")
	}

	b.replyTo(m, sb.String())
}

func (b *Bot) statsCommand(ctx context.Context, m *tgbotapi.Message) {
	if !b.cfg.IsAdmin(m.From.ID) || b.cfg.IsMainTester(m.From.ID) {
		b.replyTo(m, "❌ Эта команда доступна только администратору")
		return
	}

	counts := make(map[report.Status]int, len(report.Statuses()))
	total := 0
	for _, status := range report.Statuses() {
		n, err := b.store.Count(ctx, report.Filter{Status: status})
		if err != nil {
			b.log.Errorf("count reports by status %s: %v", status, err)
			b.replyTo(m, "❌ Ошибка при получении статистики")
			return
		}
		counts[status] = n
		total += n
	}

	b.replyTo(m, fmt.Sprintf(`📊 <b>Статистика репортов</b>

🆕 Новые: %d
🔄 В работе: %d
✅ Решено: %d
❌ Отклонено: %d

<b>Всего:</b> %d`,
		counts[report.StatusNew],
		counts[report.StatusInProgress],
		counts[report.StatusResolved],
		counts[report.StatusRejected],
		total,
	))
}

func (b *Bot) listCommand(ctx context.Context, m *tgbotapi.Message) {
	if !b.cfg.IsAdmin(m.From.ID) || b.cfg.IsMainTester(m.From.ID) {
		b.replyTo(m, "❌ Эта команда доступна только администратору")
		return
	}

	tag := ""
	if arg := strings.TrimSpace(m.CommandArguments()); arg != "" {
		candidate := "#" + strings.ToUpper(arg)
		for _, tracked := range TrackedTags {
			if candidate == tracked {
				tag = tracked
				break
			}
		}
	}

	text, keyboard, err := b.buildListView(ctx, tag)
	if err != nil {
		b.log.Errorf("build report list: %v", err)
		b.replyTo(m, "❌ Ошибка при получении списка репортов")
		return
	}

	msg := tgbotapi.NewMessage(m.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorf("send report list: %v", err)
	}
}

// getIDCommand echoes chat identifiers for initial setup.
func (b *Bot) getIDCommand(m *tgbotapi.Message) {
	title := m.Chat.Title
	if title == "" {
		title = "Личный чат"
	}

	b.replyTo(m, fmt.Sprintf(`📋 <b>Информация о чате</b>

🆔 <b>ID чата:</b> <code>%d</code>
📝 <b>Тип:</b> %s
🏷️ <b>Название:</b> %s

<b>Для настройки бота установите:</b>
<code>TELEGRAM_GROUP_ID="%d"</code>`,
		m.Chat.ID, m.Chat.Type, title, m.Chat.ID,
	))
}
