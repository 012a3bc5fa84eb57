// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown объединяет логику корректного завершения компонентов конвейера.
type GracefulShutdown interface {
	// Shutdown останавливает циклы потребителей и освобождает ресурсы фасада.
	// Возвращает ошибку при неудаче.
	Shutdown() error
}
