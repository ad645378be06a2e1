package botapi

import "errors"

// Method is a Telegram Bot API method name. The set is closed: requests
// naming anything outside it are rejected before a remote call is built,
// so an attacker-controlled string can never select an unintended call.
type Method string

const (
	MethodGetMe       Method = "getMe"
	MethodSendMessage Method = "sendMessage"
	MethodGetUpdates  Method = "getUpdates"
)

var methods = map[Method]struct{}{
	MethodGetMe:              {},
	"logOut":                 {},
	"close":                  {},
	MethodSendMessage:        {},
	"forwardMessage":         {},
	"copyMessage":            {},
	"sendPhoto":              {},
	"sendAudio":              {},
	"sendDocument":           {},
	"sendVideo":              {},
	"sendAnimation":          {},
	"sendVoice":              {},
	"sendLocation":           {},
	"sendVenue":              {},
	"sendContact":            {},
	"sendPoll":               {},
	"sendDice":               {},
	"sendChatAction":         {},
	MethodGetUpdates:         {},
	"setWebhook":             {},
	"deleteWebhook":          {},
	"getWebhookInfo":         {},
	"getUserProfilePhotos":   {},
	"getFile":                {},
	"banChatMember":          {},
	"unbanChatMember":        {},
	"restrictChatMember":     {},
	"promoteChatMember":      {},
	"getChat":                {},
	"getChatAdministrators":  {},
	"getChatMemberCount":     {},
	"getChatMember":          {},
	"leaveChat":              {},
	"setChatTitle":           {},
	"setChatDescription":     {},
	"setChatPhoto":           {},
	"deleteChatPhoto":        {},
	"pinChatMessage":         {},
	"unpinChatMessage":       {},
	"unpinAllChatMessages":   {},
	"exportChatInviteLink":   {},
	"answerCallbackQuery":    {},
	"answerInlineQuery":      {},
	"editMessageText":        {},
	"editMessageCaption":     {},
	"editMessageReplyMarkup": {},
	"deleteMessage":          {},
	"setMyCommands":          {},
	"getMyCommands":          {},
	"deleteMyCommands":       {},
}

// ErrUnknownMethod is returned by ParseMethod for names outside the set.
var ErrUnknownMethod = errors.New("unknown bot API method")

// ParseMethod validates name against the closed method set.
func ParseMethod(name string) (Method, error) {
	m := Method(name)
	if _, ok := methods[m]; !ok {
		return "", ErrUnknownMethod
	}
	return m, nil
}
