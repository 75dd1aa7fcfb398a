package schema

import "errors"

var (
	ErrSchemaUnknown     = errors.New("schema: no schema registered")
	ErrSchemaCompile     = errors.New("schema: compile failed")
	ErrProjectionInvalid = errors.New("schema: projection requires a name and schema")
)
