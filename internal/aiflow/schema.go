package aiflow

import (
	"reflect"
	"sync"

	"github.com/invopop/jsonschema"
)

var schemas sync.Map // reflect.Type -> *jsonschema.Schema

// schemaFor returns the inlined JSON schema of the struct v points to. The
// "$schema" keyword is dropped since model APIs accept only a subset of the
// draft.
func schemaFor(v any) *jsonschema.Schema {
	t := reflect.TypeOf(v)
	if s, ok := schemas.Load(t); ok {
		return s.(*jsonschema.Schema)
	}
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	s := r.Reflect(v)
	s.Version = ""
	actual, _ := schemas.LoadOrStore(t, s)
	return actual.(*jsonschema.Schema)
}
