// Package iowords installs the interpreter's external I/O, terminal,
// and user/environment vocabulary: the words spec.md §6 names as
// external collaborators that consume only the host API, given a
// concrete implementation on top of the standard library plus the
// teacher's golang.org/x/term and github.com/atotto/clipboard
// dependencies. cmd/sorth registers this package's words alongside
// pkg/builtins and pkg/ffi at startup; pkg/builtins itself never
// imports iowords, keeping the core vocabulary free of terminal/OS
// concerns.
package iowords

import (
	"bufio"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/value"
)

// File open flags, grounded on io_words.rs's flags_to_options bitmask
// (bit 0 read, bit 1 write).
const (
	FlagReadOnly  = 0b0001
	FlagWriteOnly = 0b0010
	FlagReadWrite = 0b0011
)

// fdCounter hands out new descriptors starting at 4, leaving 0-3
// reserved for stdin/stdout/stderr and one pad slot, matching
// io_words.rs's FD_COUNTER.
var fdCounter = func() *atomic.Int64 {
	var c atomic.Int64
	c.Store(4)
	return &c
}()

var (
	fileTableMu sync.Mutex
	fileTable   = map[int64]*os.File{}
)

func generateFD() int64 { return fdCounter.Add(1) - 1 }

func addFile(fd int64, f *os.File) {
	fileTableMu.Lock()
	defer fileTableMu.Unlock()
	fileTable[fd] = f
}

func getFile(i *interp.Interpreter, fd int64) (*os.File, error) {
	fileTableMu.Lock()
	defer fileTableMu.Unlock()
	f, ok := fileTable[fd]
	if !ok {
		return nil, i.Errorf("File struct for fd %d not found.", fd)
	}
	return f, nil
}

func removeFile(i *interp.Interpreter, fd int64) error {
	fileTableMu.Lock()
	defer fileTableMu.Unlock()
	if _, ok := fileTable[fd]; !ok {
		return i.Errorf("File struct not found for fd %d.", fd)
	}
	delete(fileTable, fd)
	return nil
}

func flagsToOS(flags int64, create bool) int {
	mode := 0
	switch flags & FlagReadWrite {
	case FlagReadOnly:
		mode = os.O_RDONLY
	case FlagWriteOnly:
		mode = os.O_WRONLY
	default:
		mode = os.O_RDWR
	}
	if create {
		mode |= os.O_CREATE | os.O_TRUNC
	}
	return mode
}

// RegisterFileWords installs the file.* file-descriptor-table words,
// grounded on io_words.rs's register_io_words. Sockets are not
// ported: spec.md never names sockets as part of the runtime, and
// UnixStream's closest Go analogue (net.Conn) would need its own type
// in the fd table for no grounded benefit, so only plain files are
// exposed and no socket.* words are installed.
func RegisterFileWords(i *interp.Interpreter) {
	word(i, "file.open", "Open an existing file and return a fd.", "path flags -- fd",
		func(i *interp.Interpreter) error {
			flags, err := i.PopAsInt()
			if err != nil {
				return err
			}
			path, err := i.PopAsString()
			if err != nil {
				return err
			}
			f, err := os.OpenFile(path, flagsToOS(flags, false), 0o644)
			if err != nil {
				return i.Errorf("Could not open file %s: %s", path, err)
			}
			fd := generateFD()
			addFile(fd, f)
			i.Push(value.NewInt(fd))
			return nil
		})

	word(i, "file.create", "Create/open a file and return a fd.", "path flags -- fd",
		func(i *interp.Interpreter) error {
			flags, err := i.PopAsInt()
			if err != nil {
				return err
			}
			path, err := i.PopAsString()
			if err != nil {
				return err
			}
			f, err := os.OpenFile(path, flagsToOS(flags, true), 0o644)
			if err != nil {
				return i.Errorf("Could not open file %s: %s", path, err)
			}
			fd := generateFD()
			addFile(fd, f)
			i.Push(value.NewInt(fd))
			return nil
		})

	word(i, "file.close", "Take a fd and close it.", "fd -- ",
		func(i *interp.Interpreter) error {
			fd, err := i.PopAsInt()
			if err != nil {
				return err
			}
			f, err := getFile(i, fd)
			if err != nil {
				return err
			}
			if err := removeFile(i, fd); err != nil {
				return err
			}
			return f.Close()
		})

	word(i, "file.delete", "Delete the specified file.", "file_path -- ",
		func(i *interp.Interpreter) error {
			path, err := i.PopAsString()
			if err != nil {
				return err
			}
			return os.Remove(path)
		})

	word(i, "file.size@", "Return the size of a file represented by a fd.", "fd -- size",
		func(i *interp.Interpreter) error {
			fd, err := i.PopAsInt()
			if err != nil {
				return err
			}
			f, err := getFile(i, fd)
			if err != nil {
				return err
			}
			info, err := f.Stat()
			if err != nil {
				return err
			}
			i.Push(value.NewInt(info.Size()))
			return nil
		})

	word(i, "file.exists?", "Does the file at the given path exist?", "path -- bool",
		func(i *interp.Interpreter) error {
			path, err := i.PopAsString()
			if err != nil {
				return err
			}
			_, statErr := os.Stat(path)
			i.Push(value.NewBool(statErr == nil))
			return nil
		})

	word(i, "file.is_open?", "Is the fd currently valid?", "fd -- bool",
		func(i *interp.Interpreter) error {
			fd, err := i.PopAsInt()
			if err != nil {
				return err
			}
			fileTableMu.Lock()
			_, ok := fileTable[fd]
			fileTableMu.Unlock()
			i.Push(value.NewBool(ok))
			return nil
		})

	word(i, "file.is_eof?", "Is the file pointer at the end of the file?", "fd -- bool",
		func(i *interp.Interpreter) error {
			fd, err := i.PopAsInt()
			if err != nil {
				return err
			}
			f, err := getFile(i, fd)
			if err != nil {
				return err
			}
			pos, err := f.Seek(0, io.SeekCurrent)
			if err != nil {
				return err
			}
			info, err := f.Stat()
			if err != nil {
				return err
			}
			i.Push(value.NewBool(pos == info.Size()))
			return nil
		})

	word(i, "file.char@", "Read a character from a given file.", "fd -- character",
		func(i *interp.Interpreter) error {
			fd, err := i.PopAsInt()
			if err != nil {
				return err
			}
			f, err := getFile(i, fd)
			if err != nil {
				return err
			}
			buf := make([]byte, 1)
			n, err := f.Read(buf)
			if err != nil && err != io.EOF {
				return i.Errorf("Could not read from file: %s.", err)
			}
			if n == 0 {
				i.Push(value.NewString(""))
				return nil
			}
			i.Push(value.NewString(string(buf[:n])))
			return nil
		})

	word(i, "file.string@", "Read a file to a string.", "fd -- string",
		func(i *interp.Interpreter) error {
			fd, err := i.PopAsInt()
			if err != nil {
				return err
			}
			f, err := getFile(i, fd)
			if err != nil {
				return err
			}
			data, err := io.ReadAll(f)
			if err != nil {
				return i.Errorf("Could not read from file: %s.", err)
			}
			i.Push(value.NewString(string(data)))
			return nil
		})

	word(i, "file.!", "Write a value as text to a file.", "value fd -- ",
		func(i *interp.Interpreter) error {
			fd, err := i.PopAsInt()
			if err != nil {
				return err
			}
			text, err := i.PopAsString()
			if err != nil {
				return err
			}
			f, err := getFile(i, fd)
			if err != nil {
				return err
			}
			if _, err := f.Write([]byte(text)); err != nil {
				return i.Errorf("Could not write to file: %s.", err)
			}
			return nil
		})

	word(i, "file.line@", "Read a full line from a file.", "fd -- string",
		func(i *interp.Interpreter) error {
			fd, err := i.PopAsInt()
			if err != nil {
				return err
			}
			f, err := getFile(i, fd)
			if err != nil {
				return err
			}
			reader := bufio.NewReader(f)
			line, err := reader.ReadString('\n')
			if err != nil && err != io.EOF {
				return i.Errorf("Could not read from file: %s.", err)
			}
			for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
				line = line[:len(line)-1]
			}
			i.Push(value.NewString(line))
			return nil
		})

	word(i, "file.line!", "Write a string as a line to the file.", "string fd -- ",
		func(i *interp.Interpreter) error {
			fd, err := i.PopAsInt()
			if err != nil {
				return err
			}
			text, err := i.PopAsString()
			if err != nil {
				return err
			}
			f, err := getFile(i, fd)
			if err != nil {
				return err
			}
			if _, err := f.Write([]byte(text + "\n")); err != nil {
				return i.Errorf("Could not write to file: %s.", err)
			}
			return nil
		})

	word(i, "file.r/o", "Constant for opening a file as read only.", " -- flag",
		func(i *interp.Interpreter) error { i.Push(value.NewInt(FlagReadOnly)); return nil })

	word(i, "file.w/o", "Constant for opening a file as write only.", " -- flag",
		func(i *interp.Interpreter) error { i.Push(value.NewInt(FlagWriteOnly)); return nil })

	word(i, "file.r/w", "Constant for opening a file for both reading and writing.", " -- flag",
		func(i *interp.Interpreter) error { i.Push(value.NewInt(FlagReadWrite)); return nil })
}
