package util

// CheckerFunc returns false to stop the next CheckerFunc from running.
type CheckerFunc func() (bool, error)

// Checker runs the functions in order until one of them stops it or
// returns error.
type Checker struct {
	name string
	fns  []CheckerFunc
}

func NewChecker(name string, fns []CheckerFunc) Checker {
	return Checker{
		name: name,
		fns:  fns,
	}
}

func (ck Checker) Name() string {
	return ck.name
}

func (ck Checker) Check() error {
	for _, fn := range ck.fns {
		keep, err := fn()
		if err != nil {
			return err
		}

		if !keep {
			return nil
		}
	}

	return nil
}
