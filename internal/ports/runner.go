package ports

import "context"

// Runner — фоновый компонент с собственным циклом (владелец состояния сессии).
type Runner interface {
	Run(ctx context.Context) error
	Close() error
}
