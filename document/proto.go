package document

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// MaxProtoDepth bounds nesting when converting to and from protobuf values.
const MaxProtoDepth = 10000

// ErrTooDeep is returned when a protobuf value nests deeper than MaxProtoDepth.
var ErrTooDeep = errors.New("document: nesting exceeds maximum depth")

// UnmarshalProto decodes a serialized google.protobuf.Value.
func UnmarshalProto(data []byte) (Value, error) {
	var pv structpb.Value
	if err := proto.Unmarshal(data, &pv); err != nil {
		return Value{}, fmt.Errorf("parsing protobuf: %w", err)
	}
	return FromProto(&pv)
}

// MarshalProto serializes v as a google.protobuf.Value.
func MarshalProto(v Value) ([]byte, error) {
	pv, err := v.ToProto()
	if err != nil {
		return nil, err
	}
	data, err := proto.Marshal(pv)
	if err != nil {
		return nil, fmt.Errorf("encoding protobuf: %w", err)
	}
	return data, nil
}

// FromProto converts a structpb value. Struct keys carry no order on the
// wire; they are sorted so the result is deterministic.
func FromProto(pv *structpb.Value) (Value, error) {
	return fromProto(pv, 0)
}

func fromProto(pv *structpb.Value, depth int) (Value, error) {
	if depth > MaxProtoDepth {
		return Value{}, ErrTooDeep
	}
	switch k := pv.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return Null(), nil
	case *structpb.Value_BoolValue:
		return NewBool(k.BoolValue), nil
	case *structpb.Value_NumberValue:
		return NewFloat(k.NumberValue), nil
	case *structpb.Value_StringValue:
		return NewString(k.StringValue), nil
	case *structpb.Value_StructValue:
		src := k.StructValue.GetFields()
		keys := make([]string, 0, len(src))
		for key := range src {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, key := range keys {
			child, err := fromProto(src[key], depth+1)
			if err != nil {
				return Value{}, err
			}
			fields = append(fields, Field{Key: key, Value: child})
		}
		return NewMap(fields...), nil
	case *structpb.Value_ListValue:
		src := k.ListValue.GetValues()
		items := make([]Value, 0, len(src))
		for _, item := range src {
			child, err := fromProto(item, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, child)
		}
		return NewSequence(items...), nil
	default:
		return Value{}, fmt.Errorf("document: unsupported protobuf kind %T", k)
	}
}

// ToProto converts v to a structpb value. Number literals are parsed as
// float64, the only numeric type google.protobuf.Value carries.
func (v Value) ToProto() (*structpb.Value, error) {
	return toProto(v, 0)
}

func toProto(v Value, depth int) (*structpb.Value, error) {
	if depth > MaxProtoDepth {
		return nil, ErrTooDeep
	}
	switch v.kind {
	case KindNull:
		return structpb.NewNullValue(), nil
	case KindBool:
		return structpb.NewBoolValue(v.b), nil
	case KindNumber:
		f, err := strconv.ParseFloat(v.text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("document: number %q: %w", v.text, err)
		}
		if math.IsInf(f, 0) {
			return nil, fmt.Errorf("document: number %q out of range", v.text)
		}
		return structpb.NewNumberValue(f), nil
	case KindString:
		return structpb.NewStringValue(v.text), nil
	case KindMap:
		s := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(v.fields))}
		for _, f := range v.fields {
			child, err := toProto(f.Value, depth+1)
			if err != nil {
				return nil, err
			}
			s.Fields[f.Key] = child
		}
		return structpb.NewStructValue(s), nil
	case KindSequence:
		l := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(v.items))}
		for _, item := range v.items {
			child, err := toProto(item, depth+1)
			if err != nil {
				return nil, err
			}
			l.Values = append(l.Values, child)
		}
		return structpb.NewListValue(l), nil
	default:
		return nil, fmt.Errorf("document: unknown kind %s", v.kind)
	}
}
