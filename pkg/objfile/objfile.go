// Package objfile locates the loadable, initialized data sections of ELF,
// Mach-O and PE files.
package objfile

import (
	"bytes"
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/h2non/filetype"
)

type Format int

const (
	Unknown Format = iota
	ELF
	MachO
	PE
)

func (f Format) String() string {
	switch f {
	case ELF:
		return "elf"
	case MachO:
		return "macho"
	case PE:
		return "pe"
	default:
		return "unknown"
	}
}

var ErrNotObject = errors.New("not an object file")

// Section is a data section and the address it is loaded at.
type Section struct {
	Name string
	Addr uint64
	Data []byte
}

// Mach-O section types without file contents.
const (
	machoZerofill            = 0x1
	machoGBZerofill          = 0xc
	machoThreadLocalZerofill = 0x12
	machoSectionTypeMask     = 0xff
)

const peContentMask = pe.IMAGE_SCN_CNT_CODE | pe.IMAGE_SCN_CNT_INITIALIZED_DATA

var machoFatMagic = binary.BigEndian.AppendUint32(nil, macho.MagicFat)

var machoMagics = [][]byte{
	{0xfe, 0xed, 0xfa, 0xce},
	{0xce, 0xfa, 0xed, 0xfe},
	{0xfe, 0xed, 0xfa, 0xcf},
	{0xcf, 0xfa, 0xed, 0xfe},
	machoFatMagic,
}

// Detect identifies the object format of data from its header.
func Detect(data []byte) Format {
	kind, err := filetype.Match(data)
	if err == nil {
		switch kind.Extension {
		case "elf":
			return ELF
		case "exe":
			return PE
		case "macho":
			return MachO
		}
	}

	// Fall back to magic numbers for headers the matcher does not know.
	switch {
	case bytes.HasPrefix(data, []byte(elf.ELFMAG)):
		return ELF
	case bytes.HasPrefix(data, []byte("MZ")):
		return PE
	}
	for _, magic := range machoMagics {
		if bytes.HasPrefix(data, magic) {
			return MachO
		}
	}
	return Unknown
}

// DataSections returns the non-empty loadable sections of an object file
// that carry initialized contents.
func DataSections(data []byte) (Format, []Section, error) {
	format := Detect(data)

	var (
		sections []Section
		err      error
	)
	switch format {
	case ELF:
		sections, err = elfSections(data)
	case MachO:
		sections, err = machoSections(data)
	case PE:
		sections, err = peSections(data)
	default:
		return Unknown, nil, ErrNotObject
	}
	if err != nil {
		return format, nil, fmt.Errorf("parse %s: %w", format, err)
	}
	return format, sections, nil
}

func elfSections(data []byte) ([]Section, error) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var sections []Section
	for _, s := range f.Sections {
		if s.Flags&elf.SHF_ALLOC == 0 || s.Type == elf.SHT_NOBITS || s.Size == 0 {
			continue
		}
		content, err := s.Data()
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", s.Name, err)
		}
		sections = append(sections, Section{Name: s.Name, Addr: s.Addr, Data: content})
	}
	return sections, nil
}

func machoSections(data []byte) ([]Section, error) {
	if bytes.HasPrefix(data, machoFatMagic) {
		fat, err := macho.NewFatFile(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = fat.Close() }()

		var sections []Section
		for _, arch := range fat.Arches {
			s, err := machoFileSections(arch.File)
			if err != nil {
				return nil, fmt.Errorf("arch %s: %w", arch.Cpu, err)
			}
			sections = append(sections, s...)
		}
		return sections, nil
	}

	f, err := macho.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return machoFileSections(f)
}

func machoFileSections(f *macho.File) ([]Section, error) {
	var sections []Section
	for _, s := range f.Sections {
		switch s.Flags & machoSectionTypeMask {
		case machoZerofill, machoGBZerofill, machoThreadLocalZerofill:
			continue
		}
		if s.Size == 0 {
			continue
		}
		content, err := s.Data()
		if err != nil {
			return nil, fmt.Errorf("section %s,%s: %w", s.Seg, s.Name, err)
		}
		sections = append(sections, Section{Name: s.Seg + "," + s.Name, Addr: s.Addr, Data: content})
	}
	return sections, nil
}

func peSections(data []byte) ([]Section, error) {
	f, err := pe.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var imageBase uint64
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		imageBase = uint64(oh.ImageBase)
	case *pe.OptionalHeader64:
		imageBase = oh.ImageBase
	}

	var sections []Section
	for _, s := range f.Sections {
		if s.Characteristics&peContentMask == 0 || s.Size == 0 {
			continue
		}
		content, err := s.Data()
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", s.Name, err)
		}
		sections = append(sections, Section{Name: s.Name, Addr: imageBase + uint64(s.VirtualAddress), Data: content})
	}
	return sections, nil
}
