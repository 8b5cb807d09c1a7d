package dialog

// Keyboard labels. Incoming texts are matched against them exactly.
const (
	BtnAddWord       = "Добавить слово"
	BtnDeleteWord    = "Удалить слово"
	BtnStartTraining = "Начать тренировку"
	BtnBack          = "Назад"
	BtnCancel        = "Отмена"
)

const (
	msgChooseAction  = "Выберите действие:"
	msgWelcomeNew    = "Привет, %s! Добро пожаловать в EnglishCardBot! Вы новый пользователь, вы зарегистрированы."
	msgWelcomeBack   = "Привет, %s! С возвращением в EnglishCardBot!"
	msgNotUnderstood = "Я не понимаю эту команду."
	msgFailure       = "Произошла ошибка. Попробуйте позже."
	msgRegisterFirst = "Пожалуйста, сначала используйте команду /start."

	msgNoWords      = "В базе данных еще нет слов. Добавьте новые слова кнопкой «Добавить слово»."
	msgTooFewWords  = "Для тренировки нужно хотя бы 4 разных слова. Добавьте новые слова кнопкой «Добавить слово»."
	msgQuestion     = "Как переводится слово '%s'?"
	msgCorrect      = "Правильно!"
	msgIncorrect    = "Неправильно. Попробуйте еще раз."
	msgWordNotFound = "Слово не найдено."

	msgEnterEnglish = "Введите английское слово:"
	msgEnterRussian = "Введите русский перевод:"
	msgWordAdded    = "Слово '%s' добавлено! Вы изучаете %d слов."
	msgWordExists   = "Слово '%s' уже есть в вашем списке."

	msgNothingToDelete = "В вашем списке нет слов для удаления."
	msgChooseDelete    = "Выберите слово для удаления:"
	msgDeleteCancelled = "Удаление отменено."
	msgWordDeleted     = "Слово '%s' удалено."
	msgDeleteNotFound  = "Слово не найдено в вашем списке."
)

// MainMenu is the set of choices offered whenever the dialog is idle
func MainMenu() []string {
	return []string{BtnAddWord, BtnDeleteWord, BtnStartTraining}
}

func isMenuCommand(text string) bool {
	switch text {
	case BtnAddWord, BtnDeleteWord, BtnStartTraining:
		return true
	}
	return false
}
