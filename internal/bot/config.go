package bot

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config — настройки бота из переменных окружения.
type Config struct {
	Token         string
	AdminID       int64
	GroupID       int64
	TopicID       int64
	MainTesterIDs []int64
}

// LoadConfig reads the bot configuration. Token and admin id are required,
// the rest is optional: without a group id the bot ignores group messages,
// without a topic id status updates go to the main chat.
func LoadConfig() (Config, error) {
	cfg := Config{
		Token: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
	}
	if cfg.Token == "" {
		return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}

	adminID, err := parseID(os.Getenv("TELEGRAM_ADMIN_ID"))
	if err != nil || adminID == 0 {
		return Config{}, fmt.Errorf("TELEGRAM_ADMIN_ID must be a telegram user id: %v", err)
	}
	cfg.AdminID = adminID

	// Необязательные поля: кривое значение — это ошибка конфигурации,
	// отсутствие — нет.
	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_GROUP_ID")); raw != "" {
		if cfg.GroupID, err = parseID(raw); err != nil {
			return Config{}, fmt.Errorf("TELEGRAM_GROUP_ID: %v", err)
		}
	}
	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_TOPIC_ID")); raw != "" {
		if cfg.TopicID, err = parseID(raw); err != nil {
			return Config{}, fmt.Errorf("TELEGRAM_TOPIC_ID: %v", err)
		}
	}

	for _, name := range []string{"TELEGRAM_MAIN_TESTER_ID", "TELEGRAM_MAIN_TESTER_ID_2"} {
		raw := strings.TrimSpace(os.Getenv(name))
		if raw == "" {
			continue
		}
		id, err := parseID(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %v", name, err)
		}
		cfg.MainTesterIDs = append(cfg.MainTesterIDs, id)
	}

	return cfg, nil
}

// IsMainTester reports whether userID belongs to a configured main tester.
// Main testers report through the bot's private chat; their group messages
// are skipped on purpose.
func (c Config) IsMainTester(userID int64) bool {
	for _, id := range c.MainTesterIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (c Config) IsAdmin(userID int64) bool {
	return c.AdminID != 0 && c.AdminID == userID
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}
