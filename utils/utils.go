package utils

import (
	"bufio"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/ansel1/merry"
	"golang.org/x/term"
)

var ErrLoginCancelled = merry.New("login cancelled")

func GetHTTPBody(c *http.Client, req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.Do(req)
	if err != nil {
		return nil, nil, merry.Wrap(err)
	}
	defer resp.Body.Close()
	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, merry.Wrap(err)
	}
	return resp, buf, nil
}

// ReadPassword prompts for a password without echo when stdin is a
// terminal and falls back to reading a plain line otherwise (pipes).
// An aborted or closed prompt counts as cancellation.
func ReadPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		os.Stderr.WriteString(prompt + " ")
		buf, err := term.ReadPassword(fd)
		os.Stderr.WriteString("\n")
		if err != nil {
			return "", ErrLoginCancelled.Here().Append(err.Error())
		}
		return string(buf), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", ErrLoginCancelled.Here().Append(err.Error())
	}
	return strings.TrimRight(line, "\r\n"), nil
}
