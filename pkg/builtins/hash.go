package builtins

import (
	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/value"
)

// RegisterHashTableWords installs the `{}` hash-table word family,
// grounded on base_words/hash_table_words.rs.
func RegisterHashTableWords(i *interp.Interpreter) {
	word(i, "{}.new", "Create a new hash table.", " -- new_hash_table",
		func(i *interp.Interpreter) error {
			i.Push(value.NewPtr(value.KindHashMap, value.NewHashMap()))
			return nil
		})

	word(i, "{}!", "Write a value to a given key in the table.", "value key table -- ",
		func(i *interp.Interpreter) error {
			table, err := i.PopAsHashMap()
			if err != nil {
				return err
			}
			key, err := i.Pop()
			if err != nil {
				return err
			}
			v, err := i.Pop()
			if err != nil {
				return err
			}
			table.Set(key, v)
			return nil
		})

	word(i, "{}@", "Read a value from a given key in the table.", "key table -- value",
		func(i *interp.Interpreter) error {
			table, err := i.PopAsHashMap()
			if err != nil {
				return err
			}
			key, err := i.Pop()
			if err != nil {
				return err
			}
			v, ok := table.Get(key)
			if !ok {
				return i.Errorf("Key %s not found in hash table.", key.String())
			}
			i.Push(v)
			return nil
		})

	word(i, "{}?", "Check if a given key exists in the table.", "key table -- bool",
		func(i *interp.Interpreter) error {
			table, err := i.PopAsHashMap()
			if err != nil {
				return err
			}
			key, err := i.Pop()
			if err != nil {
				return err
			}
			_, ok := table.Get(key)
			i.Push(value.NewBool(ok))
			return nil
		})

	word(i, "{}.+", "Take two hashes and deep copy the contents from the second into the first.", "dest source -- dest",
		func(i *interp.Interpreter) error {
			source, err := i.PopAsHashMap()
			if err != nil {
				return err
			}
			dest, err := i.PopAsHashMap()
			if err != nil {
				return err
			}
			dest.Extend(source)
			i.Push(value.NewPtr(value.KindHashMap, dest))
			return nil
		})

	word(i, "{}.=", "Take two hashes and compare their contents.", "a b -- was-match",
		func(i *interp.Interpreter) error {
			b, err := i.PopAsHashMap()
			if err != nil {
				return err
			}
			a, err := i.PopAsHashMap()
			if err != nil {
				return err
			}
			i.Push(value.NewBool(a.Equals(b)))
			return nil
		})

	word(i, "{}.size@", "Get the size of the hash table.", "table -- size",
		func(i *interp.Interpreter) error {
			table, err := i.PopAsHashMap()
			if err != nil {
				return err
			}
			i.Push(value.NewInt(int64(table.Len())))
			return nil
		})

	word(i, "{}.iterate", "Iterate through a hash table and call a word for each item.", "word_index hash_table -- ",
		func(i *interp.Interpreter) error {
			table, err := i.PopAsHashMap()
			if err != nil {
				return err
			}
			wordIndex, err := i.PopAsInt()
			if err != nil {
				return err
			}

			var iterErr error
			table.Iterate(func(key, val value.Value) {
				if iterErr != nil {
					return
				}
				i.Push(key)
				i.Push(val)
				iterErr = i.ExecuteWordIndex(nil, int(wordIndex))
			})
			return iterErr
		})
}
