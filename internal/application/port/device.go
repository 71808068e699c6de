package port

import "context"

// DeviceExecutor определяет интерфейс выполнения диагностических команд на
// устройстве (Port). Транспорт непрозрачный: команда уходит как список
// аргументов shell, обратно приходит объединённый stdout+stderr как текст.
// Ненулевой код выхода возвращает захваченный вывод, а не ошибку; таймаут
// возвращает пустой текст. Парсеры выше обязаны переживать любой мусор.
type DeviceExecutor interface {
	// Shell выполняет команду на устройстве и возвращает её вывод
	Shell(ctx context.Context, args ...string) string
}
