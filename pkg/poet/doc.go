// Package poet renders trees of Java declarations into formatted source text.
//
// Declarations are assembled with builders (NewClassBuilder, NewMethodBuilder,
// NewFieldBuilder, ...). Build returns a node that is materialized lazily: the
// builder state is snapshotted and validated the first time the node is used,
// exactly once, and the outcome is memoized.
//
// A render runs two passes over the same immutable tree. The collection pass
// emits into io.Discard and records which top-level classes can be imported
// under their simple name (CollectBindings). The emission pass walks the tree
// again, spells every type reference as the shortest unambiguous suffix given
// the imports and the enclosing scopes, and streams the text through a column
// limited line wrapper (Emit). Render performs both.
//
// Code bodies are written with format strings:
//
//	%L  literal value
//	%S  string literal, escaped and quoted
//	%T  type reference
//	%N  name of a declaration
//	%>  increase indentation
//	%<  decrease indentation
//	%[  begin statement
//	%]  end statement
//	%W  space or line break when the line would overflow
//	%Z  zero-width line break opportunity
//	%%  a single percent sign
//
// Arguments may be relative (%L), indexed (%2L), or named (%count:L with
// AddNamed).
package poet
