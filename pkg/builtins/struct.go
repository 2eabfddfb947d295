package builtins

import (
	"github.com/sorth-lang/sorth/pkg/dictionary"
	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/value"
)

func checkFieldIndex(i *interp.Interpreter, obj *value.DataObject, index int64) error {
	if index < 0 || int(index) >= len(obj.Fields) {
		return i.Errorf("Field index %d is out of range for structure %s.", index, obj.Definition.Name)
	}
	return nil
}

// createDataDefinitionWords installs the per-struct constructor and
// field accessor words a `#` definition generates: `<name>.new` and,
// for each field, `<name>.<field>@`/`<name>.<field>!`, grounded on the
// naming convention data_structure_words.rs's `word_data_definition`
// hands off to (the generator itself lives outside the filtered
// original_source code pack; the accessor-per-field shape is grounded
// on the `#@`/`#!` index-based primitives it registers alongside).
func createDataDefinitionWords(i *interp.Interpreter, def *value.DataObjectDefinition, hidden bool) {
	visibility := dictionary.Visible
	if hidden {
		visibility = dictionary.Hidden
	}

	i.AddWord(i.Here(), def.Name+".new", func(i *interp.Interpreter) error {
		i.Push(value.NewPtr(value.KindDataObject, value.NewDataObject(def)))
		return nil
	}, "Create a new "+def.Name+" structure.", " -- structure",
		dictionary.Normal, visibility, dictionary.Native)

	for idx, field := range def.FieldNames {
		fieldIndex := idx
		fieldName := field

		i.AddWord(i.Here(), def.Name+"."+fieldName+"@", func(i *interp.Interpreter) error {
			obj, err := i.PopAsDataObject()
			if err != nil {
				return err
			}
			i.Push(obj.Fields[fieldIndex])
			return nil
		}, "Read the "+fieldName+" field.", "structure -- value",
			dictionary.Normal, visibility, dictionary.Native)

		i.AddWord(i.Here(), def.Name+"."+fieldName+"!", func(i *interp.Interpreter) error {
			obj, err := i.PopAsDataObject()
			if err != nil {
				return err
			}
			v, err := i.Pop()
			if err != nil {
				return err
			}
			obj.Fields[fieldIndex] = v
			return nil
		}, "Write the "+fieldName+" field.", "value structure -- ",
			dictionary.Normal, visibility, dictionary.Native)
	}
}

// RegisterDataStructureWords installs the `#` struct-definition word
// family, grounded on base_words/data_structure_words.rs.
func RegisterDataStructureWords(i *interp.Interpreter) {
	word(i, "#", "Beginning of a structure definition.", "[defaults] name fields is_hidden found_initializers -- ",
		func(i *interp.Interpreter) error {
			foundInitializers, err := i.PopAsBool()
			if err != nil {
				return err
			}
			isHidden, err := i.PopAsBool()
			if err != nil {
				return err
			}
			fields, err := i.PopAsArray()
			if err != nil {
				return err
			}
			name, err := i.PopAsString()
			if err != nil {
				return err
			}

			var defaults *value.Array
			if foundInitializers {
				defaults, err = i.PopAsArray()
				if err != nil {
					return err
				}
			} else {
				defaults = value.NewArray(fields.Len())
			}

			fieldNames := make([]string, fields.Len())
			for idx := 0; idx < fields.Len(); idx++ {
				f, _ := fields.Get(idx)
				if !f.IsStringable() {
					return i.Errorf("Field names must be strings.")
				}
				fieldNames[idx], _ = f.AsString()
			}

			defaultValues := make([]value.Value, defaults.Len())
			copy(defaultValues, defaults.Items)

			def := &value.DataObjectDefinition{
				Name:       name,
				FieldNames: fieldNames,
				Defaults:   defaultValues,
			}

			createDataDefinitionWords(i, def, isHidden)
			return nil
		})

	word(i, "#@", "Read a field from a structure.", "field_index structure -- value",
		func(i *interp.Interpreter) error {
			obj, err := i.PopAsDataObject()
			if err != nil {
				return err
			}
			index, err := i.PopAsInt()
			if err != nil {
				return err
			}
			if err := checkFieldIndex(i, obj, index); err != nil {
				return err
			}
			i.Push(obj.Fields[index])
			return nil
		})

	word(i, "#!", "Write to a field of a structure.", "value field_index structure -- ",
		func(i *interp.Interpreter) error {
			obj, err := i.PopAsDataObject()
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
			if err := checkFieldIndex(i, obj, index); err != nil {
				return err
			}
			obj.Fields[index] = v
			return nil
		})

	word(i, "#.iterate", "Call an iterator for each member of a structure.", "word_index structure -- ",
		func(i *interp.Interpreter) error {
			obj, err := i.PopAsDataObject()
			if err != nil {
				return err
			}
			wordIndex, err := i.PopAsInt()
			if err != nil {
				return err
			}
			for idx, name := range obj.Definition.FieldNames {
				i.Push(value.NewString(name))
				i.Push(obj.Fields[idx])
				if err := i.ExecuteWordIndex(nil, int(wordIndex)); err != nil {
					return err
				}
			}
			return nil
		})

	word(i, "#.field-exists?", "Check if the named structure field exits.", "field_name structure -- boolean",
		func(i *interp.Interpreter) error {
			obj, err := i.PopAsDataObject()
			if err != nil {
				return err
			}
			name, err := i.PopAsString()
			if err != nil {
				return err
			}
			_, found := obj.Definition.FieldIndex(name)
			i.Push(value.NewBool(found))
			return nil
		})

	word(i, "#.=", "Check if two structures are the same.", "a b -- boolean",
		func(i *interp.Interpreter) error {
			b, err := i.PopAsDataObject()
			if err != nil {
				return err
			}
			a, err := i.PopAsDataObject()
			if err != nil {
				return err
			}
			i.Push(value.NewBool(a.Equals(b)))
			return nil
		})
}
