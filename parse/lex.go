package parse

import "github.com/google/shlex"

// Split breaks a command line into argument pieces, honoring shell quoting,
// so that quoted multi-word values survive as single pieces. No further
// splitting is performed downstream - '='-handling belongs to the matcher.
func Split(s string) ([]string, error) {
	args, err := shlex.Split(s)
	if err != nil {
		return nil, err
	}

	return args, nil
}
