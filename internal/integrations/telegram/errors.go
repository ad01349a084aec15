package telegram

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("telegram client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе Bot API
	ErrInvalidResponse = errors.New("telegram client: invalid response")

	// ErrChatNotFound чат недоступен: пользователь не начинал диалог или заблокировал бота
	ErrChatNotFound = errors.New("telegram client: chat not found or bot blocked")
)
