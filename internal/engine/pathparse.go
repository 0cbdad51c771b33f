package engine

import "strconv"

// pathCommand is one parsed path instruction. The op byte keeps its
// original case: uppercase is absolute, lowercase relative.
type pathCommand struct {
	op   byte
	args []float64
}

// parsePath tokenizes path data into commands. Parsing is deliberately
// forgiving: unrecognized command letters and the numbers trailing them
// are skipped, partial argument groups are dropped, and scanning always
// resumes at the next recognized command. Nothing here returns an error.
func parsePath(d string) []pathCommand {
	var cmds []pathCommand
	i, n := 0, len(d)
	for i < n {
		c := d[i]
		switch {
		case isPathSep(c):
			i++
		case commandArity(c) >= 0:
			i++
			var args []float64
			args, i = scanArgs(d, i)
			cmds = appendCommands(cmds, c, args)
		default:
			// Junk byte, or numbers with no command to claim them.
			i++
		}
	}
	return cmds
}

func isPathSep(c byte) bool {
	return c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r'
}

// commandArity returns the argument count per command, or -1 for a byte
// that is not a recognized command letter.
func commandArity(c byte) int {
	switch c {
	case 'M', 'm', 'L', 'l':
		return 2
	case 'H', 'h', 'V', 'v':
		return 1
	case 'C', 'c':
		return 6
	case 'Q', 'q':
		return 4
	case 'A', 'a':
		return 7
	case 'Z', 'z':
		return 0
	}
	return -1
}

// scanArgs consumes as many numbers as it can, stopping at the next
// command letter or unparseable byte.
func scanArgs(d string, i int) ([]float64, int) {
	var args []float64
	n := len(d)
	for i < n {
		for i < n && isPathSep(d[i]) {
			i++
		}
		if i >= n {
			break
		}
		v, next, ok := scanNumber(d, i)
		if !ok {
			break
		}
		args = append(args, v)
		i = next
	}
	return args, i
}

// scanNumber accepts the permissive forms path data carries in the wild:
// leading decimals (".5"), signed leading decimals ("-.33"), and
// exponents. A second dot ends the number, so "1.5.5" scans as 1.5
// followed by .5.
func scanNumber(d string, i int) (float64, int, bool) {
	start := i
	n := len(d)
	if i < n && (d[i] == '+' || d[i] == '-') {
		i++
	}
	digits := false
	for i < n && isDigit(d[i]) {
		i++
		digits = true
	}
	if i < n && d[i] == '.' {
		i++
		for i < n && isDigit(d[i]) {
			i++
			digits = true
		}
	}
	if !digits {
		return 0, start, false
	}
	if i < n && (d[i] == 'e' || d[i] == 'E') {
		j := i + 1
		if j < n && (d[j] == '+' || d[j] == '-') {
			j++
		}
		if j < n && isDigit(d[j]) {
			i = j
			for i < n && isDigit(d[i]) {
				i++
			}
		}
	}
	v, err := strconv.ParseFloat(d[start:i], 64)
	if err != nil {
		return 0, start, false
	}
	return v, i, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// appendCommands splits a run of arguments into fixed-arity commands,
// applying implicit repetition: extra pairs after a moveto continue as
// linetos, other commands repeat themselves. Leftover arguments that do
// not fill a group are dropped.
func appendCommands(cmds []pathCommand, op byte, args []float64) []pathCommand {
	arity := commandArity(op)
	if arity == 0 {
		return append(cmds, pathCommand{op: op})
	}
	cur := op
	for len(args) >= arity {
		cmds = append(cmds, pathCommand{op: cur, args: args[:arity:arity]})
		args = args[arity:]
		switch cur {
		case 'M':
			cur = 'L'
		case 'm':
			cur = 'l'
		}
	}
	return cmds
}
