package repositories

type ErrNotFound struct {
}

func (e *ErrNotFound) Error() string {
	return "not found"
}

func IsNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}

type ErrNameExists struct {
}

func (e *ErrNameExists) Error() string {
	return "name already exists"
}

func IsNameExists(err error) bool {
	_, ok := err.(*ErrNameExists)
	return ok
}
