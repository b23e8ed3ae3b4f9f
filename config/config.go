// Package config loads instruction set definitions from YAML and TOML files
// and writes them back out.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/muasm/isa"
)

// FileFormat names a definition file syntax.
type FileFormat string

const (
	YAML FileFormat = "yaml"
	TOML FileFormat = "toml"
)

// FormatFromPath picks the file format from the extension of path.
func FormatFromPath(path string) (FileFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", errors.Errorf(
			"cannot tell the format of %s; use a .yaml, .yml or .toml extension",
			path)
	}
}

// ParseFileFormat parses a format name such as "yaml".
func ParseFileFormat(name string) (FileFormat, error) {
	switch f := FileFormat(strings.ToLower(name)); f {
	case YAML, TOML:
		return f, nil
	case "yml":
		return YAML, nil
	default:
		return "", errors.Errorf("unknown definition format %q", name)
	}
}

// FormatDef is one instruction format in a definition file.
type FormatDef struct {
	Mnemonic string `yaml:"mnemonic" toml:"mnemonic"`
	Fields   string `yaml:"fields" toml:"fields"`
	Group    uint8  `yaml:"group" toml:"group"`
	Opcode   uint8  `yaml:"opcode" toml:"opcode"`
}

// ISAFile is the document layout of a definition file.
type ISAFile struct {
	Name      string      `yaml:"name" toml:"name"`
	Registers []string    `yaml:"registers" toml:"registers"`
	Formats   []FormatDef `yaml:"formats" toml:"formats"`
}

// Default returns the built-in instruction set.
func Default() *isa.Table {
	return isa.Default()
}

// LoadISA reads and validates a definition file.
func LoadISA(path string) (*isa.Table, error) {
	file, err := ReadISAFile(path)
	if err != nil {
		return nil, err
	}

	t, err := file.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}

	return t, nil
}

// ReadISAFile reads a definition file without validating it.
func ReadISAFile(path string) (ISAFile, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return ISAFile{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ISAFile{}, errors.Wrapf(err, "reading ISA definition")
	}

	file, err := Unmarshal(data, format)
	if err != nil {
		return ISAFile{}, errors.Wrapf(err, "loading %s", path)
	}

	return file, nil
}

// DecodeISA parses and validates a definition.
func DecodeISA(data []byte, format FileFormat) (*isa.Table, error) {
	file, err := Unmarshal(data, format)
	if err != nil {
		return nil, err
	}

	return file.Build()
}

// Unmarshal parses a definition document. Unknown keys are rejected.
func Unmarshal(data []byte, format FileFormat) (ISAFile, error) {
	var file ISAFile

	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && err != io.EOF {
			return ISAFile{}, errors.Wrap(err, "parsing YAML")
		}
	case TOML:
		md, err := toml.Decode(string(data), &file)
		if err != nil {
			return ISAFile{}, errors.Wrap(err, "parsing TOML")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return ISAFile{}, errors.Errorf("unknown key %s", undecoded[0])
		}
	default:
		return ISAFile{}, errors.Errorf("unknown definition format %q", format)
	}

	return file, nil
}

// Build turns the document into a validated table.
func (f ISAFile) Build() (*isa.Table, error) {
	name := f.Name
	if name == "" {
		name = "custom"
	}

	b := isa.NewBuilder(name).WithRegisters(f.Registers...)

	for i, def := range f.Formats {
		mask, err := isa.ParseFieldMask(def.Fields)
		if err != nil {
			return nil, errors.Wrapf(err, "format %d (%s)", i, def.Mnemonic)
		}

		b = b.WithFormat(def.Mnemonic, mask, def.Group, def.Opcode)
	}

	return b.Build()
}

// FromTable converts a table into its document layout.
func FromTable(t *isa.Table) ISAFile {
	file := ISAFile{
		Name:      t.Name(),
		Registers: t.Registers().Names(),
	}

	for _, f := range t.Formats() {
		file.Formats = append(file.Formats, FormatDef{
			Mnemonic: f.Mnemonic,
			Fields:   f.Fields.String(),
			Group:    f.Group,
			Opcode:   f.Opcode,
		})
	}

	return file
}

// WriteISA serializes a table in the given format.
func WriteISA(w io.Writer, t *isa.Table, format FileFormat) error {
	file := FromTable(t)

	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(file); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return errors.Wrap(enc.Close(), "encoding YAML")
	case TOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(file), "encoding TOML")
	default:
		return errors.Errorf("unknown definition format %q", format)
	}
}
