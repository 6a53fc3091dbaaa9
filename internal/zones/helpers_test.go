package zones

func ptrTo[T any](value T) *T { return &value }
