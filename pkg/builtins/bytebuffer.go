package builtins

import (
	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/value"
)

func checkBufferSpace(i *interp.Interpreter, buf *value.ByteBuffer, byteSize int) error {
	if buf.Position+byteSize > buf.Len() {
		return i.Errorf("Writing a value size %d at a position %d would exceed the buffer size %d.",
			byteSize, buf.Position, buf.Len())
	}
	return nil
}

func validIntByteSize(n int) bool { return n == 1 || n == 2 || n == 4 || n == 8 }

func validFloatByteSize(n int) bool { return n == 4 || n == 8 }

// RegisterByteBufferWords installs the `buffer.*` word family,
// grounded on base_words/byte_buffer_words.rs.
func RegisterByteBufferWords(i *interp.Interpreter) {
	word(i, "buffer.new", "Create a new byte buffer.", "size -- buffer",
		func(i *interp.Interpreter) error {
			size, err := i.PopAsInt()
			if err != nil {
				return err
			}
			i.Push(value.NewPtr(value.KindByteBuffer, value.NewByteBuffer(int(size))))
			return nil
		})

	word(i, "buffer.size@", "Get the size of a byte buffer.", "buffer -- size",
		func(i *interp.Interpreter) error {
			b, err := i.PopAsByteBuffer()
			if err != nil {
				return err
			}
			i.Push(value.NewInt(int64(b.Len())))
			return nil
		})

	word(i, "buffer.size!", "Resize an existing byte buffer.", "size buffer -- ",
		func(i *interp.Interpreter) error {
			b, err := i.PopAsByteBuffer()
			if err != nil {
				return err
			}
			size, err := i.PopAsInt()
			if err != nil {
				return err
			}
			b.Resize(int(size))
			return nil
		})

	word(i, "buffer.int!", "Write an integer of a given size to the buffer.", "value buffer byte_size -- ",
		func(i *interp.Interpreter) error {
			byteSize, err := i.PopAsInt()
			if err != nil {
				return err
			}
			buf, err := i.PopAsByteBuffer()
			if err != nil {
				return err
			}
			v, err := i.PopAsInt()
			if err != nil {
				return err
			}
			if err := checkBufferSpace(i, buf, int(byteSize)); err != nil {
				return err
			}
			if !validIntByteSize(int(byteSize)) {
				return i.Errorf("Invalid byte size %d for integer value.", byteSize)
			}
			buf.WriteInt(int(byteSize), v)
			return nil
		})

	word(i, "buffer.int@", "Read an integer of a given size from the buffer.", "buffer byte_size is_signed -- value",
		func(i *interp.Interpreter) error {
			signed, err := i.PopAsBool()
			if err != nil {
				return err
			}
			byteSize, err := i.PopAsInt()
			if err != nil {
				return err
			}
			buf, err := i.PopAsByteBuffer()
			if err != nil {
				return err
			}
			if err := checkBufferSpace(i, buf, int(byteSize)); err != nil {
				return err
			}
			if !validIntByteSize(int(byteSize)) {
				return i.Errorf("Invalid byte size %d for integer value.", byteSize)
			}
			i.Push(value.NewInt(buf.ReadInt(int(byteSize), signed)))
			return nil
		})

	word(i, "buffer.float!", "Write a float of a given size to the buffer.", "value buffer byte_size -- ",
		func(i *interp.Interpreter) error {
			byteSize, err := i.PopAsInt()
			if err != nil {
				return err
			}
			buf, err := i.PopAsByteBuffer()
			if err != nil {
				return err
			}
			v, err := i.PopAsFloat()
			if err != nil {
				return err
			}
			if !validFloatByteSize(int(byteSize)) {
				return i.Errorf("Invalid byte size %d for floating point value.", byteSize)
			}
			if err := checkBufferSpace(i, buf, int(byteSize)); err != nil {
				return err
			}
			buf.WriteFloat(int(byteSize), v)
			return nil
		})

	word(i, "buffer.float@", "read a float of a given size from the buffer.", "buffer byte_size -- value",
		func(i *interp.Interpreter) error {
			byteSize, err := i.PopAsInt()
			if err != nil {
				return err
			}
			buf, err := i.PopAsByteBuffer()
			if err != nil {
				return err
			}
			if err := checkBufferSpace(i, buf, int(byteSize)); err != nil {
				return err
			}
			if !validFloatByteSize(int(byteSize)) {
				return i.Errorf("Invalid byte size %d for floating point value.", byteSize)
			}
			i.Push(value.NewFloat(buf.ReadFloat(int(byteSize))))
			return nil
		})

	word(i, "buffer.string!", "Write a string of given size to the buffer.  Padded with 0s if needed.", "value buffer size -- ",
		func(i *interp.Interpreter) error {
			byteSize, err := i.PopAsInt()
			if err != nil {
				return err
			}
			buf, err := i.PopAsByteBuffer()
			if err != nil {
				return err
			}
			v, err := i.PopAsString()
			if err != nil {
				return err
			}
			if err := checkBufferSpace(i, buf, int(byteSize)); err != nil {
				return err
			}
			buf.WriteString(int(byteSize), v)
			return nil
		})

	word(i, "buffer.string@", "Read a string of a given max size from the buffer.", "buffer size -- value",
		func(i *interp.Interpreter) error {
			byteSize, err := i.PopAsInt()
			if err != nil {
				return err
			}
			buf, err := i.PopAsByteBuffer()
			if err != nil {
				return err
			}
			if err := checkBufferSpace(i, buf, int(byteSize)); err != nil {
				return err
			}
			i.Push(value.NewString(buf.ReadString(int(byteSize))))
			return nil
		})

	word(i, "buffer.position!", "Set the position of the buffer pointer.", "position buffer -- ",
		func(i *interp.Interpreter) error {
			buf, err := i.PopAsByteBuffer()
			if err != nil {
				return err
			}
			pos, err := i.PopAsInt()
			if err != nil {
				return err
			}
			if int(pos) > buf.Len() {
				return i.Errorf("Setting buffer position %d beyond buffer size %d.", pos, buf.Len())
			}
			buf.SetPosition(int(pos))
			return nil
		})

	word(i, "buffer.position@", "Get the position of the buffer pointer.", "buffer -- position",
		func(i *interp.Interpreter) error {
			buf, err := i.PopAsByteBuffer()
			if err != nil {
				return err
			}
			i.Push(value.NewInt(int64(buf.Position)))
			return nil
		})
}
