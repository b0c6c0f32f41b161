package abi

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// Parser converts textual constructor arguments into the Go values go-ethereum packs
type Parser struct{}

// NewParser creates a new argument parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseConstructorArgs parses one string per constructor input
func (p *Parser) ParseConstructorArgs(contractABI *abi.ABI, values []string) ([]any, error) {
	var inputs abi.Arguments
	if contractABI != nil {
		inputs = contractABI.Constructor.Inputs
	}

	if len(values) != len(inputs) {
		return nil, fmt.Errorf("constructor expects %d argument(s) (%s), got %d",
			len(inputs), signature(inputs), len(values))
	}

	args := make([]any, len(inputs))
	for i, input := range inputs {
		v, err := p.parseValue(input.Type, strings.TrimSpace(values[i]))
		if err != nil {
			name := input.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, input.Type.String(), err)
		}
		args[i] = v
	}
	return args, nil
}

func (p *Parser) parseValue(t abi.Type, raw string) (any, error) {
	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAddress, raw)
		}
		return common.HexToAddress(raw), nil

	case abi.BoolTy:
		return strconv.ParseBool(raw)

	case abi.StringTy:
		return raw, nil

	case abi.BytesTy:
		return decodeHex(raw)

	case abi.FixedBytesTy:
		b, err := decodeHex(raw)
		if err != nil {
			return nil, err
		}
		if len(b) > t.Size {
			return nil, fmt.Errorf("value is %d bytes, type holds %d", len(b), t.Size)
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.IntTy, abi.UintTy:
		return parseInteger(t, raw)

	case abi.SliceTy, abi.ArrayTy:
		return p.parseList(t, raw)

	default:
		return nil, fmt.Errorf("unsupported constructor argument type %s", t.String())
	}
}

// parseList accepts "a,b,c" with optional surrounding brackets. Nested lists
// keep their own brackets, "[[1,2],[3]]", and string elements may be quoted
// to hold commas.
func (p *Parser) parseList(t abi.Type, raw string) (any, error) {
	parts, err := splitList(raw)
	if err != nil {
		return nil, err
	}

	goType := t.GetType()
	var list reflect.Value
	if t.T == abi.ArrayTy {
		if len(parts) != t.Size {
			return nil, fmt.Errorf("expected %d elements, got %d", t.Size, len(parts))
		}
		list = reflect.New(goType).Elem()
	} else {
		list = reflect.MakeSlice(goType, len(parts), len(parts))
	}

	for i, part := range parts {
		if t.Elem.T == abi.StringTy && strings.HasPrefix(part, `"`) {
			if part, err = strconv.Unquote(part); err != nil {
				return nil, fmt.Errorf("element %d: invalid quoted string", i)
			}
		}
		v, err := p.parseValue(*t.Elem, part)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		list.Index(i).Set(reflect.ValueOf(v))
	}
	return list.Interface(), nil
}

// splitList splits a list literal on its top-level commas
func splitList(raw string) ([]string, error) {
	literal := strings.TrimSpace(raw)
	body := literal
	if end, ok := closingBracket(literal); ok && end == len(literal)-1 {
		body = literal[1:end]
	}
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}

	var parts []string
	start := 0
	err := scanList(body, func(i int) {
		parts = append(parts, strings.TrimSpace(body[start:i]))
		start = i + 1
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w in %q", err, literal)
	}
	return append(parts, strings.TrimSpace(body[start:])), nil
}

// closingBracket returns the index of the bracket closing the one s starts with
func closingBracket(s string) (int, bool) {
	if !strings.HasPrefix(s, "[") {
		return 0, false
	}
	end := -1
	_ = scanList(s[1:], nil, func(i int) bool {
		end = i + 1
		return false
	})
	return end, end > 0
}

var (
	errUnbalancedBrackets = errors.New("unbalanced brackets")
	errUnterminatedQuote  = errors.New("unterminated quote")
)

// scanList walks s outside of quoted strings, calling onComma for each
// top-level comma. A top-level closing bracket is handed to onClose, which
// returns false to stop the scan; without onClose it is an error.
func scanList(s string, onComma func(i int), onClose func(i int) bool) error {
	var (
		depth   int
		quoted  bool
		escaped bool
	)
	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case quoted && r == '\\':
			escaped = true
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			depth++
		case r == ']' && depth == 0:
			if onClose == nil {
				return errUnbalancedBrackets
			}
			if !onClose(i) {
				return nil
			}
		case r == ']':
			depth--
		case r == ',' && depth == 0 && onComma != nil:
			onComma(i)
		}
	}
	if quoted {
		return errUnterminatedQuote
	}
	if depth != 0 {
		return errUnbalancedBrackets
	}
	return nil
}

func parseInteger(t abi.Type, raw string) (any, error) {
	n, ok := new(big.Int).SetString(strings.ReplaceAll(raw, "_", ""), 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", raw)
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return nil, fmt.Errorf("negative value for unsigned type")
		}
		if n.BitLen() > t.Size {
			return nil, fmt.Errorf("value overflows uint%d", t.Size)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		minimum := new(big.Int).Neg(limit)
		if n.Cmp(minimum) < 0 || n.Cmp(limit) >= 0 {
			return nil, fmt.Errorf("value overflows int%d", t.Size)
		}
	}

	goType := t.GetType()
	if goType.Kind() == reflect.Ptr {
		return n, nil
	}
	if t.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(goType).Interface(), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(goType).Interface(), nil
}

func decodeHex(raw string) ([]byte, error) {
	if !strings.HasPrefix(raw, "0x") && !strings.HasPrefix(raw, "0X") {
		raw = "0x" + raw
	}
	return hexutil.Decode(raw)
}

func signature(inputs abi.Arguments) string {
	types := make([]string, len(inputs))
	for i, in := range inputs {
		types[i] = in.Type.String()
	}
	return strings.Join(types, ",")
}

// Ensure the adapter implements the interface
var _ usecase.ArgumentParser = (*Parser)(nil)
