// Package util holds small pieces of ambient infrastructure shared across
// the compiler's stages — currently just source-file reading. The worker-
// thread output multiplexer the teacher kept here (Writer/ListenWrite) was
// for streaming parallel assembler output; see DESIGN.md for why it was
// dropped rather than adapted.
package util

import (
	"bufio"
	"errors"
	"io"
	"os"
	"time"
)

// ReadSource reads source code from a file, or from stdin if path is empty.
func ReadSource(path string) (string, error) {
	if len(path) > 0 {
		b, err := os.ReadFile(path)
		return string(b), err
	}

	c := make(chan string)
	cerr := make(chan error)
	go func(c chan string, cerr chan error) {
		defer close(c)
		defer close(cerr)
		reader := bufio.NewReader(os.Stdin)
		text, err := reader.ReadString(0)
		if err == nil || err == io.EOF {
			c <- text
		} else {
			cerr <- err
		}
	}(c, cerr)

	select {
	case <-time.After(500 * time.Millisecond):
		return "", errors.New("expected input from stdin, got none")
	case s := <-c:
		return s, nil
	case err := <-cerr:
		return "", err
	}
}
