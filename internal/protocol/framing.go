package protocol

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxFrameSize bounds a single request frame, delimiter excluded.
const MaxFrameSize = 1024

// ErrFrameTooLarge is returned by ReadFrame when a line exceeds
// MaxFrameSize. The oversize line is consumed in full so the connection
// can keep serving subsequent frames.
var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// NewFrameReader returns a bufio.Reader sized to the frame limit.
func NewFrameReader(r io.Reader) *bufio.Reader {
	return bufio.NewReaderSize(r, MaxFrameSize)
}

// ReadFrame reads one newline-delimited frame. The returned slice does
// not include the trailing newline.
func ReadFrame(r *bufio.Reader) ([]byte, error) {
	var frame []byte
	for {
		chunk, err := r.ReadSlice('\n')
		frame = append(frame, chunk...)
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			if len(frame) > MaxFrameSize {
				if derr := drainLine(r); derr != nil {
					return nil, derr
				}
				return nil, ErrFrameTooLarge
			}
			continue
		}
		if errors.Is(err, io.EOF) && len(frame) > 0 {
			// Final frame without a trailing newline.
			break
		}
		return nil, err
	}

	frame = trimNewline(frame)
	if len(frame) > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	return frame, nil
}

// WriteFrame marshals v and writes it as one newline-terminated frame.
func WriteFrame(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// drainLine discards input up to and including the next newline.
func drainLine(r *bufio.Reader) error {
	for {
		_, err := r.ReadSlice('\n')
		if err == nil {
			return nil
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return err
		}
	}
}

func trimNewline(line []byte) []byte {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}
