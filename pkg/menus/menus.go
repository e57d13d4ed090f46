package menus

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var (
	buttonBackTo = "Back to"
)

// Menuer is anything owning a reply keyboard an app can return to.
type Menuer interface {
	Menu() tgbotapi.ReplyKeyboardMarkup
}

type ApplicationMenu struct {
	Name string
	From string
	prev Menuer
}

func NewApplicationMenu(name, from string, prev Menuer) ApplicationMenu {
	return ApplicationMenu{
		Name: name,
		From: from,
		prev: prev,
	}
}

func (am ApplicationMenu) ButtonBackTo() string {
	return buttonBackTo + " " + am.From
}

func (am ApplicationMenu) PrevMenu() tgbotapi.ReplyKeyboardMarkup {
	return am.prev.Menu()
}

// BackKeyboard is a keyboard with the single back button of am.
func (am ApplicationMenu) BackKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(am.ButtonBackTo()),
		),
	)
}
