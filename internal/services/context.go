package services

import (
	"context"
	"time"
)

// Каждый поход в хранилище ограничен по времени, чтобы не вешать запрос.
const storeTimeout = 10 * time.Second

func storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
