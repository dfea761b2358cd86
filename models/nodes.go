// Package models holds the gorm row definitions for every node and
// relationship table of the graph schema. Variant or optional
// properties that do not warrant their own column are stored as
// gorm.io/datatypes JSON columns.
package models

import "gorm.io/datatypes"

// ASTNode is the primary row for any syntactic node (I1: every NodeId
// appears in exactly one primary table, and this is it for AST-derived ids).
type ASTNode struct {
	NodeID        uint64 `gorm:"primaryKey;column:node_id"`
	NodeType      string `gorm:"type:varchar(64);index;not null"` // e.g. FunctionDecl
	SourceFile    string `gorm:"type:text;index;not null"`
	StartLine     int    `gorm:"not null"`
	StartColumn   int    `gorm:"not null"`
	EndLine       int    `gorm:"not null"`
	EndColumn     int    `gorm:"not null"`
	MemoryAddress uint64 `gorm:"column:memory_address"` // front-end pointer, debugging only
	RawText       string `gorm:"type:text"`
}

func (ASTNode) TableName() string { return "ast_nodes" }

// Declaration is a secondary row over an ASTNode for named declarations.
// Its NodeID always equals the owning ASTNode's (I1).
type Declaration struct {
	NodeID           uint64 `gorm:"primaryKey;column:node_id"`
	Name             string `gorm:"type:text;index"`
	QualifiedName    string `gorm:"type:text;index"`
	NamespaceContext string `gorm:"type:text"`
	AccessSpecifier  string `gorm:"type:varchar(16)"` // public|private|protected|none
	StorageClass     string `gorm:"type:varchar(32)"`
	IsDefinition     bool
}

func (Declaration) TableName() string { return "declarations" }

// Type is deduplicated across TUs by CanonicalType (I7).
type Type struct {
	NodeID        uint64  `gorm:"primaryKey;column:node_id"`
	TypeName      string  `gorm:"type:text"`
	CanonicalType string  `gorm:"type:text;uniqueIndex"`
	IsBuiltin     bool
	IsConst       bool
	IsVolatile    bool
	SizeBytes     *int64
}

func (Type) TableName() string { return "types" }

// Statement rows are TU-local (never deduplicated across TUs).
type Statement struct {
	NodeID          uint64  `gorm:"primaryKey;column:node_id"`
	StatementKind   string  `gorm:"type:varchar(64);index"`
	IsCompound      bool
	IsConstexpr     bool
	HasSideEffects  bool
	ConditionText   *string `gorm:"type:text"`
	ControlFlowType *string `gorm:"type:varchar(32)"` // conditional|loop|switch|jump|exception
}

func (Statement) TableName() string { return "statements" }

// Expression rows are TU-local.
type Expression struct {
	NodeID            uint64  `gorm:"primaryKey;column:node_id"`
	ExpressionKind    string  `gorm:"type:varchar(64);index"`
	ValueCategory     string  `gorm:"type:varchar(16)"`
	OperatorKind      *string `gorm:"type:varchar(32)"`
	LiteralValue      *string `gorm:"type:text"`
	ImplicitCastKind  *string `gorm:"type:varchar(32)"`
	IsConstexpr       bool
	EvaluationResult  *string `gorm:"type:text"`
}

func (Expression) TableName() string { return "expressions" }

// ConstantExpression is created only for expressions the front-end folds.
type ConstantExpression struct {
	NodeID               uint64 `gorm:"primaryKey;column:node_id"`
	ConstantValue        string `gorm:"type:text"`
	ConstantType         string `gorm:"type:text"`
	IsCompileTimeConstant bool
}

func (ConstantExpression) TableName() string { return "constant_expressions" }

// TemplateParameter is a child row of a template declaration.
type TemplateParameter struct {
	NodeID              uint64  `gorm:"primaryKey;column:node_id"`
	ParameterKind       string  `gorm:"type:varchar(16)"` // type|non-type|template
	ParameterName       string  `gorm:"type:text"`
	IsParameterPack     bool
	HasDefaultArgument  bool
	DefaultArgumentText *string `gorm:"type:text"`
}

func (TemplateParameter) TableName() string { return "template_parameters" }

// UsingDeclaration covers using/using-namespace/alias occurrences, one row
// per source occurrence (never deduplicated).
type UsingDeclaration struct {
	NodeID    uint64 `gorm:"primaryKey;column:node_id"`
	UsingKind string `gorm:"type:varchar(32)"` // using_decl|using_directive|namespace_alias|type_alias
}

func (UsingDeclaration) TableName() string { return "using_declarations" }

// MacroDefinition is keyed by (name, defining file, line) via the identity
// service; ParameterNames is a JSON array since arity is variable.
type MacroDefinition struct {
	NodeID          uint64         `gorm:"primaryKey;column:node_id"`
	MacroName       string         `gorm:"type:text;index"`
	IsFunctionLike  bool
	ParameterCount  int
	ParameterNames  datatypes.JSON `gorm:"type:jsonb"`
	ReplacementText string         `gorm:"type:text"`
	IsBuiltin       bool
	IsConditional   bool
}

func (MacroDefinition) TableName() string { return "macro_definitions" }

// IncludeDirective is one row per textual #include occurrence.
type IncludeDirective struct {
	NodeID          uint64 `gorm:"primaryKey;column:node_id"`
	IncludePath     string `gorm:"type:text"`
	IsSystemInclude bool
	IsAngled        bool
	IncludeDepth    int
}

func (IncludeDirective) TableName() string { return "include_directives" }

// ConditionalDirective covers #if/#ifdef/#ifndef/#elif/#else/#endif families.
type ConditionalDirective struct {
	NodeID          uint64 `gorm:"primaryKey;column:node_id"`
	DirectiveKind   string `gorm:"type:varchar(16)"` // if|ifdef|ifndef|elif|else|endif
	ConditionText   string `gorm:"type:text"`
	WasTaken        bool
}

func (ConditionalDirective) TableName() string { return "conditional_directives" }

// PragmaDirective covers #pragma occurrences.
type PragmaDirective struct {
	NodeID  uint64 `gorm:"primaryKey;column:node_id"`
	Text    string `gorm:"type:text"`
}

func (PragmaDirective) TableName() string { return "pragma_directives" }

// Comment covers preprocessor/lexer-reported comments.
type Comment struct {
	NodeID uint64 `gorm:"primaryKey;column:node_id"`
	Text   string `gorm:"type:text"`
}

func (Comment) TableName() string { return "comments" }

// CFGBlock is a basic block created per function body with a CFG.
type CFGBlock struct {
	NodeID         uint64 `gorm:"primaryKey;column:node_id"`
	FunctionID     uint64 `gorm:"column:function_id;index;not null"`
	IsEntryBlock   bool
	IsExitBlock    bool
	TerminatorKind string `gorm:"type:varchar(32)"`
	Reachable      bool
}

func (CFGBlock) TableName() string { return "cfg_blocks" }
