package botapi

import (
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotInfo is the identity behind a bot token.
type BotInfo struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
}

// TokenVerifier checks that a bot token is live and returns its identity.
type TokenVerifier func(token string) (*BotInfo, error)

// VerifyToken performs a getMe round trip against baseURL. Used as a
// pre-flight check before a token is stored or proxied for the first time.
func VerifyToken(baseURL string) TokenVerifier {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	endpoint := baseURL + "/bot%s/%s"
	return func(token string) (*BotInfo, error) {
		bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{
			Timeout: time.Second * 10,
		})
		if err != nil {
			return nil, fmt.Errorf("token verification failed: %w", err)
		}
		return &BotInfo{
			ID:        bot.Self.ID,
			Username:  bot.Self.UserName,
			FirstName: bot.Self.FirstName,
		}, nil
	}
}
