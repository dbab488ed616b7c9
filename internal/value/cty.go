package value

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

// TextureRefType is the cty capsule type carrying a TextureRef through HCL
// expression evaluation.
var TextureRefType = cty.Capsule("texture", reflect.TypeOf(TextureRef{}))

// FromCty converts an evaluated HCL value into a Value. Numbers become
// Scalar, strings Enum, bools Bool, numeric tuples and lists Vector, and
// texture capsules TextureRef.
func FromCty(v cty.Value) (Value, error) {
	if v.IsNull() {
		return nil, fmt.Errorf("value is null")
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := v.Type()
	switch {
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return Scalar(f), nil
	case ty == cty.String:
		return Enum(v.AsString()), nil
	case ty == cty.Bool:
		return Bool(v.True()), nil
	case ty.Equals(TextureRefType):
		return *v.EncapsulatedValue().(*TextureRef), nil
	case ty.IsTupleType() || ty.IsListType():
		vec := make(Vector, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			if elem.IsNull() || elem.Type() != cty.Number {
				return nil, fmt.Errorf("vector elements must be numbers, got %s", elem.Type().FriendlyName())
			}
			f, _ := elem.AsBigFloat().Float64()
			vec = append(vec, f)
		}
		return vec, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

// ToCty converts v into its cty form, the inverse of FromCty.
func ToCty(v Value) cty.Value {
	switch tv := v.(type) {
	case Scalar:
		return cty.NumberFloatVal(float64(tv))
	case Vector:
		if len(tv) == 0 {
			return cty.EmptyTupleVal
		}
		elems := make([]cty.Value, len(tv))
		for i, f := range tv {
			elems[i] = cty.NumberFloatVal(f)
		}
		return cty.TupleVal(elems)
	case Enum:
		return cty.StringVal(string(tv))
	case Bool:
		return cty.BoolVal(bool(tv))
	case TextureRef:
		ref := tv
		return cty.CapsuleVal(TextureRefType, &ref)
	default:
		panic(fmt.Sprintf("value: unknown variant %T", v))
	}
}
