package models

import "gorm.io/datatypes"

// ParentOf is the syntactic-parenthood edge restricted to ASTNode that must
// form a forest (I2): every child has at most one PARENT_OF parent
// within one TU.
type ParentOf struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	FromID     uint64 `gorm:"column:from_id;index;not null"`
	ToID       uint64 `gorm:"column:to_id;uniqueIndex;not null"` // enforces I2 at the schema level
	ChildIndex int    `gorm:"column:child_index;not null"`
}

func (ParentOf) TableName() string { return "edges_parent_of" }

// HasType edges must target an existing Type row (I4/P3).
type HasType struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	FromID   uint64 `gorm:"column:from_id;index;not null"`
	ToID     uint64 `gorm:"column:to_id;index;not null"`
	TypeRole string `gorm:"column:type_role;type:varchar(16)"` // declared|return|parameter|base|element
}

func (HasType) TableName() string { return "edges_has_type" }

// InheritsFrom connects a class to one of its base classes.
type InheritsFrom struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement"`
	FromID          uint64 `gorm:"column:from_id;index;not null"`
	ToID            uint64 `gorm:"column:to_id;index;not null"`
	InheritanceType string `gorm:"column:inheritance_type;type:varchar(16)"` // public|private|protected
	IsVirtual       bool   `gorm:"column:is_virtual"`
}

func (InheritsFrom) TableName() string { return "edges_inherits_from" }

// Overrides connects a derived method to a base method it overrides (I8/P5:
// both endpoints must be methods, and InheritsFrom+ must hold between their
// owning records).
type Overrides struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	FromID uint64 `gorm:"column:from_id;index;not null"`
	ToID   uint64 `gorm:"column:to_id;index;not null"`
}

func (Overrides) TableName() string { return "edges_overrides" }

// Specializes connects a template specialization to its primary template.
type Specializes struct {
	ID                 uint64         `gorm:"primaryKey;autoIncrement"`
	FromID             uint64         `gorm:"column:from_id;index;not null"`
	ToID               uint64         `gorm:"column:to_id;index;not null"`
	TemplateArguments  string         `gorm:"column:template_arguments;type:text"`
	SpecializationKind string         `gorm:"column:specialization_kind;type:varchar(16)"` // explicit|partial|implicit
	Extra              datatypes.JSON `gorm:"column:extra;type:jsonb"`
}

func (Specializes) TableName() string { return "edges_specializes" }

// TemplateRelation covers other template relations, e.g. implicit
// instantiation -> primary template with relation_kind='instantiates'.
type TemplateRelation struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	FromID       uint64 `gorm:"column:from_id;index;not null"`
	ToID         uint64 `gorm:"column:to_id;index;not null"`
	RelationKind string `gorm:"column:relation_kind;type:varchar(32)"`
}

func (TemplateRelation) TableName() string { return "edges_template_relation" }

// InScope connects an AST node to its enclosing scope declaration (I3: the
// target must be a NamespaceDecl, CXXRecordDecl, FunctionDecl, or
// block-scope statement; enforced by the extractor, not the schema).
type InScope struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	FromID    uint64 `gorm:"column:from_id;index;not null"`
	ToID      uint64 `gorm:"column:to_id;index;not null"`
	ScopeKind string `gorm:"column:scope_kind;type:varchar(32)"`
}

func (InScope) TableName() string { return "edges_in_scope" }

// MacroExpansion connects the closest enclosing ASTNode to the macro it
// expanded from.
type MacroExpansion struct {
	ID               uint64 `gorm:"primaryKey;autoIncrement"`
	FromID           uint64 `gorm:"column:from_id;index;not null"`
	ToID             uint64 `gorm:"column:to_id;index;not null"`
	ExpansionContext string `gorm:"column:expansion_context;type:varchar(32)"`
}

func (MacroExpansion) TableName() string { return "edges_macro_expansion" }

// Includes connects a TU/file to an #include directive it contains.
type Includes struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	FromID uint64 `gorm:"column:from_id;index;not null"`
	ToID   uint64 `gorm:"column:to_id;index;not null"`
}

func (Includes) TableName() string { return "edges_includes" }

// Defines connects a file to a macro defined there.
type Defines struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	FromID uint64 `gorm:"column:from_id;index;not null"`
	ToID   uint64 `gorm:"column:to_id;index;not null"`
}

func (Defines) TableName() string { return "edges_defines" }

// HasConstantValue connects a folded Expression to its ConstantExpression.
type HasConstantValue struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	FromID uint64 `gorm:"column:from_id;index;not null"`
	ToID   uint64 `gorm:"column:to_id;uniqueIndex;not null"`
}

func (HasConstantValue) TableName() string { return "edges_has_constant_value" }

// ContainsCFG connects a function declaration to one of its CFG blocks
// (I5/P6: the block's FunctionID must equal the function's NodeId).
type ContainsCFG struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	FromID uint64 `gorm:"column:from_id;index;not null"`
	ToID   uint64 `gorm:"column:to_id;uniqueIndex;not null"`
}

func (ContainsCFG) TableName() string { return "edges_contains_cfg" }

// CFGEdge connects two basic blocks within the same function (I5/P7).
type CFGEdge struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	FromID   uint64 `gorm:"column:from_id;index;not null"`
	ToID     uint64 `gorm:"column:to_id;index;not null"`
	EdgeType string `gorm:"column:edge_type;type:varchar(16)"` // fallthrough|true_branch|false_branch|case|default|exception|back_edge
}

func (CFGEdge) TableName() string { return "edges_cfg_edge" }

// CFGContainsStmt connects a basic block to the statements it contains, in
// CFG order (child_index preserves that order).
type CFGContainsStmt struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	FromID     uint64 `gorm:"column:from_id;index;not null"`
	ToID       uint64 `gorm:"column:to_id;index;not null"`
	ChildIndex int    `gorm:"column:child_index;not null"`
}

func (CFGContainsStmt) TableName() string { return "edges_cfg_contains_stmt" }
