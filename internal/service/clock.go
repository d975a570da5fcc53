package service

import "time"

// Clock источник текущего времени. Подменяется в тестах для проверки границ дедлайна.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now()
}
