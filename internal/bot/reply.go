package bot

import (
	"fmt"

	"github.com/spigell/career-center-bot/internal/store"
	"github.com/spigell/career-center-bot/internal/telegram"
)

// Applicant-facing texts, kept exactly as the bot speaks to its users.
const (
	textWelcome      = "Добро пожаловать! Выберите опцию:"
	textMainMenu     = "Главное меню:"
	textVacancyList  = "Список вакансий:"
	textVacancyGone  = "Вакансия не найдена."
	textConfirmation = "Спасибо! Ваш отклик отправлен."
	textUnavailable  = "Временно недоступно"
	textUnknown      = "Неизвестное действие. Вернитесь в главное меню."
	textNoopHint     = "Пожалуйста, сначала выберите вакансию или ивент, а потом нажмите «Откликнуться»."

	buttonRespond  = "Откликнуться"
	buttonMainMenu = "Главное меню"
	buttonPrev     = "Назад"
	buttonNext     = "Далее"
)

// eventTitles enumerates the informational sections offered on the main menu.
var eventTitles = map[string]string{
	"career":   "Центр Карьеры",
	"practice": "Практика",
}

// Reply is the single outbound render of one router invocation. Exactly one
// of the fields set is meaningful: a Text screen (with optional keyboard) or
// a transient Alert that leaves the current screen in place. A nil *Reply
// means silent suppression.
type Reply struct {
	Text     string
	Keyboard *telegram.InlineKeyboardMarkup
	Alert    string
	// ShowAlert requests a blocking popup instead of a toast.
	ShowAlert bool
}

func alert(text string, show bool) *Reply {
	return &Reply{Alert: text, ShowAlert: show}
}

func screen(text string, rows ...[]telegram.InlineKeyboardButton) *Reply {
	return &Reply{
		Text:     text,
		Keyboard: &telegram.InlineKeyboardMarkup{InlineKeyboard: rows},
	}
}

func button(text, token string) telegram.InlineKeyboardButton {
	return telegram.InlineKeyboardButton{Text: text, CallbackData: token}
}

func mainMenu(text string) *Reply {
	return screen(text,
		[]telegram.InlineKeyboardButton{
			button(eventTitles["career"], eventToken("career")),
			button(eventTitles["practice"], eventToken("practice")),
		},
		[]telegram.InlineKeyboardButton{
			button("Вакансии", tokenAllVacancies),
			button(buttonRespond, tokenNoop),
		},
	)
}

func eventScreen(key string) *Reply {
	description := fmt.Sprintf("Описание для %s", eventTitles[key])

	return screen(description,
		[]telegram.InlineKeyboardButton{
			button(buttonRespond, respondToken(RespondModeEvent, key)),
			button(buttonMainMenu, tokenMain),
		},
	)
}

func vacancyListScreen(vacancies []*store.Vacancy, page, total int) *Reply {
	rows := make([][]telegram.InlineKeyboardButton, 0, len(vacancies)+2)
	for _, v := range vacancies {
		rows = append(rows, []telegram.InlineKeyboardButton{
			button(v.Title, vacancyToken(v.ID)),
		})
	}

	var nav []telegram.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, button(buttonPrev, pageToken(page-1)))
	}
	if store.HasNextPage(page, total) {
		nav = append(nav, button(buttonNext, pageToken(page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	rows = append(rows, []telegram.InlineKeyboardButton{button(buttonMainMenu, tokenMain)})

	return &Reply{
		Text:     textVacancyList,
		Keyboard: &telegram.InlineKeyboardMarkup{InlineKeyboard: rows},
	}
}

func vacancyDetailScreen(v *store.Vacancy) *Reply {
	text := fmt.Sprintf("%s\n%s\nГород: %s", v.Title, v.Description, v.City)

	return screen(text,
		[]telegram.InlineKeyboardButton{
			button(buttonRespond, respondToken(RespondModeVacancy, vacancyKey(v.ID))),
			button(buttonMainMenu, tokenMain),
		},
	)
}

func vacancyNotFoundScreen() *Reply {
	return screen(textVacancyGone,
		[]telegram.InlineKeyboardButton{button(buttonMainMenu, tokenMain)},
	)
}

func confirmationScreen() *Reply {
	return screen(textConfirmation,
		[]telegram.InlineKeyboardButton{button(buttonMainMenu, tokenMain)},
	)
}
