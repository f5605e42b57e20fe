package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

var (
	errStdinUnavailable = errors.New("stdin unavailable")
	errEchoUnsupported  = errors.New("hiding terminal input is not supported on this platform")
)

// readPinNoEcho reads one line from stdin with terminal echo switched off.
func readPinNoEcho(stdin *os.File) (string, error) {
	if stdin == nil {
		return "", errStdinUnavailable
	}

	restore, err := disableEcho(stdin)
	if err != nil {
		return "", err
	}
	defer restore()

	return readPromptLine(bufio.NewReader(stdin))
}

func readPromptLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
