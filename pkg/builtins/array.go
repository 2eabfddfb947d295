package builtins

import (
	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/value"
)

func checkArrayBounds(i *interp.Interpreter, array *value.Array, index int64) error {
	if index < 0 || int(index) > array.Len() {
		return i.Errorf("Index %d is out of bounds for array of size %d.", index, array.Len())
	}
	return nil
}

func checkArrayReadBounds(i *interp.Interpreter, array *value.Array, index int64) error {
	if index < 0 || int(index) >= array.Len() {
		return i.Errorf("Index %d is out of bounds for array of size %d.", index, array.Len())
	}
	return nil
}

// RegisterArrayWords installs the `[].*` array word family, grounded
// on base_words/array_words.rs.
func RegisterArrayWords(i *interp.Interpreter) {
	word(i, "[].new", "Create a new array with the given default size.", "size -- array",
		func(i *interp.Interpreter) error {
			size, err := i.PopAsInt()
			if err != nil {
				return err
			}
			i.Push(value.NewPtr(value.KindArray, value.NewArray(int(size))))
			return nil
		})

	word(i, "[].size@", "Read the size of the array object.", "array -- size",
		func(i *interp.Interpreter) error {
			a, err := i.PopAsArray()
			if err != nil {
				return err
			}
			i.Push(value.NewInt(int64(a.Len())))
			return nil
		})

	word(i, "[]!", "Write to a value in the array.", "value index array -- ",
		func(i *interp.Interpreter) error {
			a, err := i.PopAsArray()
			if err != nil {
				return err
			}
			index, err := i.PopAsInt()
			if err != nil {
				return err
			}
			v, err := i.Pop()
			if err != nil {
				return err
			}
			if err := checkArrayReadBounds(i, a, index); err != nil {
				return err
			}
			a.Set(int(index), v)
			return nil
		})

	word(i, "[]@", "Read a value from the array.", "index array -- value",
		func(i *interp.Interpreter) error {
			a, err := i.PopAsArray()
			if err != nil {
				return err
			}
			index, err := i.PopAsInt()
			if err != nil {
				return err
			}
			if err := checkArrayReadBounds(i, a, index); err != nil {
				return err
			}
			v, _ := a.Get(int(index))
			i.Push(v)
			return nil
		})

	word(i, "[].size!", "Grow or shrink the array to the new size.", "new_size array -- ",
		func(i *interp.Interpreter) error {
			a, err := i.PopAsArray()
			if err != nil {
				return err
			}
			newSize, err := i.PopAsInt()
			if err != nil {
				return err
			}
			a.Resize(int(newSize))
			return nil
		})

	word(i, "[].insert", "Grow an array by inserting a value at the given location.", "value index array -- ",
		func(i *interp.Interpreter) error {
			a, err := i.PopAsArray()
			if err != nil {
				return err
			}
			index, err := i.PopAsInt()
			if err != nil {
				return err
			}
			v, err := i.Pop()
			if err != nil {
				return err
			}
			if err := checkArrayBounds(i, a, index); err != nil {
				return err
			}
			a.Insert(int(index), v)
			return nil
		})

	word(i, "[].delete", "Shrink an array by removing the value at the given location.", "index array -- ",
		func(i *interp.Interpreter) error {
			a, err := i.PopAsArray()
			if err != nil {
				return err
			}
			index, err := i.PopAsInt()
			if err != nil {
				return err
			}
			if err := checkArrayReadBounds(i, a, index); err != nil {
				return err
			}
			a.Delete(int(index))
			return nil
		})

	word(i, "[].+", "Take two arrays and deep copy the contents from the second into the first.", "dest source -- dest",
		func(i *interp.Interpreter) error {
			source, err := i.PopAsArray()
			if err != nil {
				return err
			}
			dest, err := i.PopAsArray()
			if err != nil {
				return err
			}
			dest.Extend(source)
			i.Push(value.NewPtr(value.KindArray, dest))
			return nil
		})

	word(i, "[].=", "Take two arrays and compare the contents to each other.", "a b -- bool",
		func(i *interp.Interpreter) error {
			b, err := i.PopAsArray()
			if err != nil {
				return err
			}
			a, err := i.PopAsArray()
			if err != nil {
				return err
			}
			i.Push(value.NewBool(a.Equals(b)))
			return nil
		})

	word(i, "[].push_front!", "Push a value to the front of an array.", "value array -- ",
		func(i *interp.Interpreter) error {
			a, err := i.PopAsArray()
			if err != nil {
				return err
			}
			v, err := i.Pop()
			if err != nil {
				return err
			}
			a.PushFront(v)
			return nil
		})

	word(i, "[].push_back!", "Push a value to the end of an array.", "value array -- ",
		func(i *interp.Interpreter) error {
			a, err := i.PopAsArray()
			if err != nil {
				return err
			}
			v, err := i.Pop()
			if err != nil {
				return err
			}
			a.PushBack(v)
			return nil
		})

	word(i, "[].pop_front!", "Pop a value from the front of an array.", "array -- value",
		func(i *interp.Interpreter) error {
			a, err := i.PopAsArray()
			if err != nil {
				return err
			}
			v, ok := a.PopFront()
			if !ok {
				return i.Errorf("[].pop_front from an empty array.")
			}
			i.Push(v)
			return nil
		})

	word(i, "[].pop_back!", "Pop a value from the back of an array.", "array -- value",
		func(i *interp.Interpreter) error {
			a, err := i.PopAsArray()
			if err != nil {
				return err
			}
			v, ok := a.PopBack()
			if !ok {
				return i.Errorf("[].pop_back from an empty array.")
			}
			i.Push(v)
			return nil
		})
}
