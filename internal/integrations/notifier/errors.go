package notifier

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках отправителя
	ErrInternal = errors.New("notifier: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса отправки
	ErrInvalidResponse = errors.New("notifier: invalid response")

	// ErrPublish возвращается, когда брокер не принял сообщение
	ErrPublish = errors.New("notifier: publish failed")
)
