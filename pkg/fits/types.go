package fits

import "fmt"

// Variant identifies the concrete kind of an HDU.
type Variant uint8

const (
	VariantUnknown Variant = iota
	VariantPrimary
	VariantRandom
	VariantImage
	VariantTable
	VariantBintable
	VariantConform
	VariantIUEImage
	VariantA3DTable
	VariantForeign
	VariantDump
	VariantZImage
	VariantZTable
)

func (v Variant) String() string {
	switch v {
	case VariantPrimary:
		return "PRIMARY"
	case VariantRandom:
		return "RANDOM"
	case VariantImage:
		return "IMAGE"
	case VariantTable:
		return "TABLE"
	case VariantBintable:
		return "BINTABLE"
	case VariantConform:
		return "CONFORM"
	case VariantIUEImage:
		return "IUEIMAGE"
	case VariantA3DTable:
		return "A3DTABLE"
	case VariantForeign:
		return "FOREIGN"
	case VariantDump:
		return "DUMP"
	case VariantZImage:
		return "ZIMAGE"
	case VariantZTable:
		return "ZTABLE"
	default:
		return fmt.Sprintf("variant(%d)", uint8(v))
	}
}

// primary reports whether the variant is written with SIMPLE rather than
// XTENSION.
func (v Variant) primary() bool {
	return v == VariantPrimary || v == VariantRandom
}

// tabular reports whether the variant carries per-column field descriptors.
func (v Variant) tabular() bool {
	switch v {
	case VariantTable, VariantBintable, VariantA3DTable, VariantZImage, VariantZTable:
		return true
	}
	return false
}

// binaryTable reports whether the body uses the binary-table record codec.
func (v Variant) binaryTable() bool {
	switch v {
	case VariantBintable, VariantA3DTable, VariantZImage, VariantZTable:
		return true
	}
	return false
}

// Type is the on-disk element type of body and field data.
type Type uint8

const (
	TypeNone Type = iota
	TypeUint8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeComplex64
	TypeComplex128
	TypeBool
	TypeBits
	TypeString
	TypeUint32
	TypeUint64
)

// Size returns the byte width of one element. Bits and String count one byte
// per element; field widths handle the packing.
func (t Type) Size() int {
	switch t {
	case TypeUint8, TypeBool, TypeBits, TypeString:
		return 1
	case TypeInt16:
		return 2
	case TypeInt32, TypeFloat32, TypeUint32:
		return 4
	case TypeInt64, TypeFloat64, TypeComplex64, TypeUint64:
		return 8
	case TypeComplex128:
		return 16
	default:
		return 0
	}
}

func (t Type) String() string {
	switch t {
	case TypeUint8:
		return "uint8"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	case TypeComplex64:
		return "complex64"
	case TypeComplex128:
		return "complex128"
	case TypeBool:
		return "bool"
	case TypeBits:
		return "bits"
	case TypeString:
		return "string"
	case TypeUint32:
		return "uint32"
	case TypeUint64:
		return "uint64"
	case TypeNone:
		return "none"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// numeric reports whether scale/zero transforms apply to the type.
func (t Type) numeric() bool {
	switch t {
	case TypeUint8, TypeInt16, TypeInt32, TypeInt64, TypeFloat32, TypeFloat64:
		return true
	}
	return false
}

// bitpixType maps the BITPIX keyword to an element type.
var bitpixType = map[int64]Type{
	8:   TypeUint8,
	16:  TypeInt16,
	32:  TypeInt32,
	64:  TypeInt64,
	-32: TypeFloat32,
	-64: TypeFloat64,
}

// typeBitpix is the inverse of bitpixType, used by the verifier.
var typeBitpix = map[Type]int64{
	TypeUint8:   8,
	TypeBool:    8,
	TypeBits:    8,
	TypeString:  8,
	TypeInt16:   16,
	TypeInt32:   32,
	TypeInt64:   64,
	TypeFloat32: -32,
	TypeFloat64: -64,
}

// formType maps a binary-table TFORM type code to an element type.
var formType = map[byte]Type{
	'L': TypeBool,
	'X': TypeBits,
	'B': TypeUint8,
	'I': TypeInt16,
	'J': TypeInt32,
	'K': TypeInt64,
	'A': TypeString,
	'E': TypeFloat32,
	'D': TypeFloat64,
	'C': TypeComplex64,
	'M': TypeComplex128,
}

// typeForm is the inverse of formType, used when synthesizing TFORM cards.
var typeForm = map[Type]byte{
	TypeBool:       'L',
	TypeBits:       'X',
	TypeUint8:      'B',
	TypeInt16:      'I',
	TypeInt32:      'J',
	TypeInt64:      'K',
	TypeString:     'A',
	TypeFloat32:    'E',
	TypeFloat64:    'D',
	TypeComplex64:  'C',
	TypeComplex128: 'M',
}

// xtensionVariant maps the trimmed XTENSION value to a variant. Values not
// listed dispatch to Conform.
var xtensionVariant = map[string]Variant{
	"IMAGE":    VariantImage,
	"IUEIMAGE": VariantIUEImage,
	"TABLE":    VariantTable,
	"BINTABLE": VariantBintable,
	"A3DTABLE": VariantA3DTable,
	"FOREIGN":  VariantForeign,
	"DUMP":     VariantDump,
}
