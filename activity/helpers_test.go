package activity

import "time"

func at(hour, min int) time.Time {
	return time.Date(2024, 3, 1, hour, min, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}
