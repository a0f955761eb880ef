package domain

// Command is an external program invocation.
type Command struct {
	// Args holds the program name followed by its arguments.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds variables set on top of the inherited environment.
	Env map[string]string
	// Path lists directories searched before the inherited PATH.
	Path []string
	// TTY runs the program attached to a pseudo terminal so it keeps its
	// colored output. Stdout and stderr are merged in that mode.
	TTY bool
}

// Name returns the program name, or an empty string for an empty command.
func (c *Command) Name() string {
	if c == nil || len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}
