package testutil

import (
	"github.com/roach88/tixgen/internal/compiler"
)

// UserDecl is a camelCase record with an identifier, an optional field, a
// list, and a map.
func UserDecl() compiler.Declaration {
	return Record("UserJson").
		Doc("A registered user.").
		RenameAll("camelCase").
		Field("id", "ObjectId", compiler.DirectiveRename, "_id").
		Field("user_name", "String", compiler.DirectiveMinLength, "1").
		Field("nickname", "Option<String>").
		Field("tags", "Vec<String>").
		Field("scores", "HashMap<String, f64>").
		Build()
}

// StatusDecl is a plain union.
func StatusDecl() compiler.Declaration {
	return Union("StatusJson").
		RenameAll("lowercase").
		Variant("Active").
		Variant("Suspended").
		Build()
}

// EventDecl is a tagged union with a custom discriminant and a reference.
func EventDecl() compiler.Declaration {
	return Union("EventJson").
		Tag("kind").
		RenameAll("snake_case").
		Variant("SignedUp", FieldDecl("user", "UserJson"), FieldDecl("referrer", "Option<String>")).
		Variant("StatusChanged", FieldDecl("status", "StatusJson")).
		Variant("LoggedOut").
		Build()
}

// EmptyDecl is a record without fields.
func EmptyDecl() compiler.Declaration {
	return Record("EmptyJson").Build()
}
