package service

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	// ErrNoCompletedWorks — генерация акта без доступных выполненных
	// работ. Пользовательская ситуация, не сбой системы: транзакция
	// чисто откатывается, номер акта не расходуется.
	ErrNoCompletedWorks = errors.New("no completed works for act")
)
