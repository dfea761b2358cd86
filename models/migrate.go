package models

import "gorm.io/gorm"

// AllTables lists every node and relationship model for AutoMigrate and for
// schema-presence checks. Order does not matter to gorm, but is kept
// grouped node-tables-then-edge-tables for readability.
var AllTables = []any{
	&ASTNode{},
	&Declaration{},
	&Type{},
	&Statement{},
	&Expression{},
	&ConstantExpression{},
	&TemplateParameter{},
	&UsingDeclaration{},
	&MacroDefinition{},
	&IncludeDirective{},
	&ConditionalDirective{},
	&PragmaDirective{},
	&Comment{},
	&CFGBlock{},

	&ParentOf{},
	&HasType{},
	&InheritsFrom{},
	&Overrides{},
	&Specializes{},
	&TemplateRelation{},
	&InScope{},
	&MacroExpansion{},
	&Includes{},
	&Defines{},
	&HasConstantValue{},
	&ContainsCFG{},
	&CFGEdge{},
	&CFGContainsStmt{},
}

// Migrate runs AutoMigrate over every table in AllTables. store.Open,
// store.OpenExisting and the replica connection each call it.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllTables...)
}
