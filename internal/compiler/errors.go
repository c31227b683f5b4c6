package compiler

import "fmt"

// UnsupportedConstructError reports a node kind outside the supported type
// grammar nested inside a translated declaration. Unknown kinds at the top
// statement level of a module are skipped instead.
type UnsupportedConstructError struct {
	Kind string
	Text string
	Err  error
}

func (e *UnsupportedConstructError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unsupported construct %s (%q): %v", e.Kind, e.Text, e.Err)
	}
	return fmt.Sprintf("unsupported construct %s (%q)", e.Kind, e.Text)
}

func (e *UnsupportedConstructError) Unwrap() error { return e.Err }

// UnsupportedGenericsError reports a parametrized type reference other than
// Array<T> while generics are not configured to be ignored.
type UnsupportedGenericsError struct {
	Text string
}

func (e *UnsupportedGenericsError) Error() string {
	return fmt.Sprintf("unsupported generic type %q (use --ignore-generics to map it to any)", e.Text)
}

// UnsupportedIndexSignatureError reports an index signature while such
// signatures are not configured to be ignored.
type UnsupportedIndexSignatureError struct {
	Text string
}

func (e *UnsupportedIndexSignatureError) Error() string {
	return fmt.Sprintf("unsupported index signature %q (use --ignore-index-signature to drop it)", e.Text)
}
