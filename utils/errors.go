package utils

// Permanent is implemented by errors that must never be retried,
// e.g. decode failures where re-reading the same bytes cannot help.
type Permanent interface {
	IsPermanent() bool
}

type PermError string

func (e PermError) Error() string {
	return string(e)
}

func (e PermError) IsPermanent() bool {
	return true
}

// IsPermanent reports whether err is marked permanent.
func IsPermanent(err error) bool {
	p, ok := err.(Permanent)
	return ok && p.IsPermanent()
}
