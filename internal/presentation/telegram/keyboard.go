package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Anzel0/New-Bot/internal/domain"
)

// Reply keyboard labels. They are bilingual so they work before a language is picked.
const (
	LanguageButton = "🌐 Idioma / Language"
	HelpButton     = "📖 Ayuda / Help"
)

const langPrefix = "lang_"

// CreateMainKeyboard creates the main keyboard with language and help buttons
func CreateMainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(LanguageButton),
			tgbotapi.NewKeyboardButton(HelpButton),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// CreateLanguageKeyboard creates the language selection keyboard
func CreateLanguageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇪🇸 Español", langPrefix+domain.LangSpanish),
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", langPrefix+domain.LangEnglish),
		),
	)
}
