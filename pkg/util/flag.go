package util

import (
	"fmt"
)

// StringList is a simple list of strings that can be used as a
// repeatable command line flag value with github.com/spf13/pflag.
//
// Unlike pflag's own StringArray, this type does not attempt to parse
// comma-separated values; each flag occurrence appends exactly one
// entry, matching the teacher's original behavior for -l/--filter/
// --schemaPath style flags.
type StringList []string

func (l *StringList) String() string {
	return fmt.Sprintf("%#v", *l)
}

// Set appends an additional string value.
func (l *StringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// Type satisfies pflag.Value, so StringList can be registered with
// Command.Flags().Var.
func (l *StringList) Type() string {
	return "stringList"
}
