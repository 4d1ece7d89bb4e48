package util

// Of 返回值的指针
func Of[T any](t T) *T {
	return &t
}
