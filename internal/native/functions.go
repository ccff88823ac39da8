package native

import (
	"fmt"
	"strings"

	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/object"
	"github.com/funvibe/tally/internal/symbols"
	"github.com/funvibe/tally/internal/typesystem"
)

// Print writes its arguments separated by spaces, followed by a newline.
func Print() *symbols.Function {
	return &symbols.Function{
		Signature: symbols.VariadicSignature(config.PrintFuncName),
		Returns:   typesystem.None,
		Native: func(call *symbols.Call, args []object.Object) (object.Object, *object.Fault) {
			if call.Out != nil {
				fmt.Fprintln(call.Out, join(args))
			}
			return object.EMPTY, nil
		},
	}
}

// Str returns what print would write, without the newline.
func Str() *symbols.Function {
	return &symbols.Function{
		Signature: symbols.VariadicSignature(config.StrFuncName),
		Returns:   typesystem.String,
		Native: func(call *symbols.Call, args []object.Object) (object.Object, *object.Fault) {
			return &object.String{Value: join(args)}, nil
		},
	}
}

func join(args []object.Object) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Inspect()
	}
	return strings.Join(parts, " ")
}
