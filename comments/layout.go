package comments

// HasNewlineAfter checks if there is a line break after the offset, with only spaces or tabs in between.
func HasNewlineAfter(text string, offset int) bool {
	for i := offset; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t':
			continue
		case '\n', '\r':
			return true
		}
		return false
	}
	return false
}

// HasNewlineBefore checks if there is a line break before the offset, with only spaces or tabs in between.
func HasNewlineBefore(text string, offset int) bool {
	if offset > len(text) {
		offset = len(text)
	}
	for i := offset - 1; i >= 0; i-- {
		switch text[i] {
		case ' ', '\t':
			continue
		case '\n', '\r':
			return true
		}
		return false
	}
	return false
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// onlySpaces checks if the text contains only whitespace.
func onlySpaces(text string) bool {
	for i := 0; i < len(text); i++ {
		if !isSpace(text[i]) {
			return false
		}
	}
	return true
}
