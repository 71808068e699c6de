package device

import (
	"context"
	"os/exec"
	"time"
)

// AdbExecutor выполняет диагностические команды на устройстве через adb.
// Реализует port.DeviceExecutor.
type AdbExecutor struct {
	serial  string
	timeout time.Duration
}

// NewAdbExecutor создает новый adb executor. Пустой serial означает
// единственное подключенное устройство.
func NewAdbExecutor(serial string, timeout time.Duration) *AdbExecutor {
	return &AdbExecutor{
		serial:  serial,
		timeout: timeout,
	}
}

// Shell выполняет shell-команду на устройстве и возвращает объединенный
// stdout+stderr. Ненулевой код выхода возвращает захваченный вывод: dumpsys
// иногда завершается с ошибкой, но полезный текст уже напечатан. Таймаут и
// отмена контекста возвращают пустой текст.
func (e *AdbExecutor) Shell(ctx context.Context, args ...string) string {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, "adb", e.commandArgs(args)...).CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ""
		}
		// Вывод до ошибки все равно пригоден для парсеров.
		return string(output)
	}

	return string(output)
}

// commandArgs собирает список аргументов adb с учетом serial устройства.
func (e *AdbExecutor) commandArgs(shellArgs []string) []string {
	args := make([]string, 0, len(shellArgs)+3)
	if e.serial != "" {
		args = append(args, "-s", e.serial)
	}
	args = append(args, "shell")
	return append(args, shellArgs...)
}
