package sysdef

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type tableFile struct {
	Syscalls []syscallEntry `yaml:"syscalls"`
}

type syscallEntry struct {
	Name     string     `yaml:"name"`
	Ordinal  *int       `yaml:"ordinal"`
	Args     []argEntry `yaml:"args"`
	Return   string     `yaml:"return"`
	Category Category   `yaml:"category"`
	Blocking bool       `yaml:"blocking"`
	NoReturn bool       `yaml:"noreturn"`
	Const    bool       `yaml:"const"`
}

type argEntry struct {
	Name    string      `yaml:"name"`
	Type    string      `yaml:"type"`
	Pointer PointerKind `yaml:"pointer"`
}

// LoadFile reads the syscall table at path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Load parses a syscall table from r.
//
// Entries without an explicit ordinal are assigned the smallest ordinal not
// used by any other entry, in the order they appear in the table. Tables which
// are part of an ABI should always spell out their ordinals.
func Load(r io.Reader) (*Table, error) {
	var file tableFile
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(&file); err != nil && err != io.EOF {
		return nil, err
	}

	table := &Table{Syscalls: make([]*Syscall, 0, len(file.Syscalls))}
	names := make(map[string]int, len(file.Syscalls))
	ordinals := make(map[int]int, len(file.Syscalls))

	for i, entry := range file.Syscalls {
		if !identifier.MatchString(entry.Name) {
			return nil, fmt.Errorf("syscall #%d: %w: %q", i, ErrInvalidName, entry.Name)
		}
		if j, dup := names[entry.Name]; dup {
			return nil, fmt.Errorf("syscall #%d (%s): %w (first declared by syscall #%d)", i, entry.Name, ErrDuplicateName, j)
		}
		names[entry.Name] = i

		if entry.Ordinal != nil {
			n := *entry.Ordinal
			if n < 0 {
				return nil, fmt.Errorf("syscall #%d (%s): negative ordinal: %d", i, entry.Name, n)
			}
			if j, dup := ordinals[n]; dup {
				return nil, fmt.Errorf("syscall #%d (%s): %w %d (already used by %s)", i, entry.Name, ErrDuplicateOrdinal, n, file.Syscalls[j].Name)
			}
			ordinals[n] = i
		}

		sc, err := entry.resolve()
		if err != nil {
			return nil, fmt.Errorf("syscall #%d (%s): %w", i, entry.Name, err)
		}
		table.Syscalls = append(table.Syscalls, sc)
	}

	next := 0
	for i, entry := range file.Syscalls {
		if entry.Ordinal != nil {
			continue
		}
		for {
			if _, used := ordinals[next]; !used {
				break
			}
			next++
		}
		ordinals[next] = i
		table.Syscalls[i].Ordinal = next
	}

	return table, nil
}

func (entry *syscallEntry) resolve() (*Syscall, error) {
	sc := &Syscall{
		Name:     entry.Name,
		Return:   Void,
		Category: entry.Category,
		Blocking: entry.Blocking,
		NoReturn: entry.NoReturn,
		Const:    entry.Const,
	}
	if entry.Ordinal != nil {
		sc.Ordinal = *entry.Ordinal
	}

	if entry.Return != "" {
		t, err := LookupType(entry.Return)
		if err != nil {
			return nil, fmt.Errorf("return type: %w", err)
		}
		if t == Any {
			return nil, fmt.Errorf("return type: %w: %q can only be used behind a pointer", ErrUnknownType, t.Name)
		}
		sc.Return = t
	}

	seen := make(map[string]struct{}, len(entry.Args))
	for _, a := range entry.Args {
		if !identifier.MatchString(a.Name) {
			return nil, fmt.Errorf("%w: invalid name %q", ErrInvalidArgument, a.Name)
		}
		if _, dup := seen[a.Name]; dup {
			return nil, fmt.Errorf("argument %s: %w", a.Name, ErrDuplicateName)
		}
		seen[a.Name] = struct{}{}

		t, err := LookupType(a.Type)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", a.Name, err)
		}
		switch {
		case t == Void:
			return nil, fmt.Errorf("argument %s: %w: arguments cannot be void", a.Name, ErrInvalidArgument)
		case t == Any && a.Pointer == NotPointer:
			return nil, fmt.Errorf("argument %s: %w: %q can only be used behind a pointer", a.Name, ErrInvalidArgument, t.Name)
		}
		sc.Args = append(sc.Args, Arg{Name: a.Name, Type: t, Pointer: a.Pointer})
	}

	return sc, nil
}
