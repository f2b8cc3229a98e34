// Package ir provides the resolved intermediate representation for tixgen.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal. Emitters render
// ir values and never look at declaration text again.
//
// Key design constraints:
//   - TypeNode is a closed set: Primitive, Optional, List, StringMap,
//     Reference, Identifier. Emitters implement TypeVisitor so a new shape
//     fails to compile until every target handles it.
//   - Optional is never nested and only appears at the top of a field type
//     (never inside a collection element); FieldNode.Required mirrors it.
//   - A Union carries a TagKey iff at least one variant has fields.
//   - Nodes are immutable after construction by the compiler.
package ir
