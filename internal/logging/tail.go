package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

const followInterval = 100 * time.Millisecond

// TailLog copies the last n lines of path to w (all lines if n <= 0). With
// follow set it keeps copying appended data until ctx is done.
func TailLog(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if n > 0 {
		if err := seekLastLines(file, n); err != nil {
			return fmt.Errorf("seek to tail position: %w", err)
		}
	}

	if _, err := io.Copy(w, file); err != nil {
		return err
	}
	if !follow {
		return nil
	}

	ticker := time.NewTicker(followInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := io.Copy(w, file); err != nil {
				return err
			}
		}
	}
}

// seekLastLines positions file at the start of its last n lines.
func seekLastLines(file *os.File, n int) error {
	const chunk = 4096

	stat, err := file.Stat()
	if err != nil {
		return err
	}
	size := stat.Size()
	if size == 0 {
		return nil
	}

	// A trailing newline terminates the last line rather than starting a
	// new, empty one.
	end := size
	last := make([]byte, 1)
	if _, err := file.ReadAt(last, size-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		end--
	}

	buf := make([]byte, chunk)
	found := 0
	for pos := end; pos > 0; {
		readLen := int64(chunk)
		if pos < readLen {
			readLen = pos
		}
		pos -= readLen
		if _, err := file.ReadAt(buf[:readLen], pos); err != nil && err != io.EOF {
			return err
		}
		data := buf[:readLen]
		for i := len(data) - 1; i >= 0; i-- {
			if data[i] != '\n' {
				continue
			}
			found++
			if found == n {
				_, err := file.Seek(pos+int64(i)+1, io.SeekStart)
				return err
			}
		}
	}

	_, err = file.Seek(0, io.SeekStart)
	return err
}
