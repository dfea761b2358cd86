// Package fixture supplies synthetic frontend.TranslationUnit values
// reproducing a handful of representative end-to-end scenarios, since no
// real C++ front-end is available to this Go module.
package fixture

import "github.com/cppgraph/indexer/frontend"

func node(ptr uintptr, kind, file string, startLine, startCol, endLine, endCol int, attrs map[string]any, children ...*frontend.Node) *frontend.Node {
	return &frontend.Node{
		Pointer:     ptr,
		Kind:        kind,
		SourceFile:  file,
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
		Attrs:       attrs,
		Children:    children,
	}
}

// ClassHierarchy reproduces scenario 1: Animal/Dog with a virtual override.
func ClassHierarchy() *frontend.TranslationUnit {
	const file = "animal.cpp"

	speak := node(0x10, "CXXMethodDecl", file, 1, 18, 1, 34, map[string]any{
		"name":             "speak",
		"qualified_name":   "Animal::speak",
		"access_specifier": "public",
		"is_definition":    false,
	})
	animal := node(0x1, "CXXRecordDecl", file, 1, 1, 1, 36, map[string]any{
		"name":           "Animal",
		"qualified_name": "Animal",
		"is_definition":  true,
	}, speak)

	dogSpeak := node(0x20, "CXXMethodDecl", file, 2, 30, 2, 56, map[string]any{
		"name":             "speak",
		"qualified_name":   "Dog::speak",
		"access_specifier": "private",
		"is_definition":    false,
		"overrides":        []frontend.Override{{TargetQualifiedName: "Animal::speak"}},
	})
	dog := node(0x2, "CXXRecordDecl", file, 2, 1, 2, 58, map[string]any{
		"name":           "Dog",
		"qualified_name": "Dog",
		"is_definition":  true,
		"bases": []frontend.Base{
			{TargetQualifiedName: "Animal", Access: "public", Virtual: false},
		},
	}, dogSpeak)

	root := node(0x0, "TranslationUnitDecl", file, 1, 1, 2, 58, nil, animal, dog)
	return &frontend.TranslationUnit{Path: file, Root: root, Preprocessor: &frontend.Preprocessor{}}
}

// TemplateInstantiation reproduces scenario 2: a function template and its
// implicit int specialization.
func TemplateInstantiation() *frontend.TranslationUnit {
	const file = "maxtpl.cpp"

	maxTpl := node(0x1, "FunctionTemplateDecl", file, 1, 1, 1, 45, map[string]any{
		"name":           "max",
		"qualified_name": "max",
		"template_params": []frontend.TemplateParam{
			{Kind: "type", Name: "T"},
		},
	})

	maxInt := node(0x2, "FunctionDecl", file, 1, 1, 1, 45, map[string]any{
		"name":           "max",
		"qualified_name": "max<int>",
		"is_definition":  true,
		"specializes": frontend.Specialization{
			PrimaryQualifiedName: "max",
			TemplateArguments:    "int",
			Kind:                 "implicit",
		},
	})

	main := node(0x3, "FunctionDecl", file, 2, 1, 2, 34, map[string]any{
		"name":           "main",
		"qualified_name": "main",
		"is_definition":  true,
	})

	root := node(0x0, "TranslationUnitDecl", file, 1, 1, 2, 34, nil, maxTpl, maxInt, main)
	return &frontend.TranslationUnit{Path: file, Root: root, Preprocessor: &frontend.Preprocessor{}}
}

// MacroAndInclude reproduces scenario 3: a system include plus a
// function-like macro expanded once in the AST.
func MacroAndInclude() *frontend.TranslationUnit {
	const file = "square.cpp"

	yDecl := node(0x10, "VarDecl", file, 3, 5, 3, 24, map[string]any{
		"name":           "y",
		"qualified_name": "y",
		"is_definition":  true,
	})

	root := node(0x0, "TranslationUnitDecl", file, 1, 1, 3, 24, nil, yDecl)

	pp := &frontend.Preprocessor{
		Includes: []frontend.Include{
			{Path: "stddef.h", IsSystem: true, IsAngled: true, Depth: 0},
		},
		Macros: []frontend.MacroDef{
			{Name: "SQUARE", File: file, Line: 2, IsFunctionLike: true, Params: []string{"x"}, ReplacementText: "((x)*(x))"},
		},
		Expansions: []frontend.Expansion{
			{MacroName: "SQUARE", DefFile: file, DefLine: 2, EnclosingNodePointer: yDecl.Pointer, Context: "initializer"},
		},
	}

	return &frontend.TranslationUnit{Path: file, Root: root, Preprocessor: pp}
}

// ControlFlow reproduces scenario 4: `if (x>0) return x; else return -x;`
// with an entry block, a true/false branch pair, and an exit block.
func ControlFlow() *frontend.TranslationUnit {
	const file = "absval.cpp"

	fn := node(0x1, "FunctionDecl", file, 1, 1, 1, 55, map[string]any{
		"name":           "f",
		"qualified_name": "f",
		"is_definition":  true,
	})
	root := node(0x0, "TranslationUnitDecl", file, 1, 1, 1, 55, nil, fn)

	entry := &frontend.CFGBlockData{
		Pointer: 0x100, IsEntry: true, TerminatorKind: "branch", Reachable: true,
		Successors: []frontend.CFGEdgeData{
			{ToPointer: 0x101, EdgeType: "true_branch"},
			{ToPointer: 0x102, EdgeType: "false_branch"},
		},
	}
	thenBlock := &frontend.CFGBlockData{
		Pointer: 0x101, Reachable: true, TerminatorKind: "return",
		Successors: []frontend.CFGEdgeData{{ToPointer: 0x103, EdgeType: "fallthrough"}},
	}
	elseBlock := &frontend.CFGBlockData{
		Pointer: 0x102, Reachable: true, TerminatorKind: "return",
		Successors: []frontend.CFGEdgeData{{ToPointer: 0x103, EdgeType: "fallthrough"}},
	}
	exit := &frontend.CFGBlockData{Pointer: 0x103, IsExit: true, Reachable: true}

	cfg := &frontend.FunctionCFG{
		FunctionPointer: fn.Pointer,
		Blocks:          []*frontend.CFGBlockData{entry, thenBlock, elseBlock, exit},
	}

	return &frontend.TranslationUnit{
		Path: file, Root: root, Preprocessor: &frontend.Preprocessor{},
		Functions: []*frontend.FunctionCFG{cfg},
	}
}

// CrossTUOverrideBase reproduces half of scenario 5: TU A declares the base
// class.
func CrossTUOverrideBase() *frontend.TranslationUnit {
	const file = "base.h"

	f := node(0x10, "CXXMethodDecl", file, 1, 18, 1, 34, map[string]any{
		"name":             "f",
		"qualified_name":   "B::f",
		"access_specifier": "public",
	})
	b := node(0x1, "CXXRecordDecl", file, 1, 1, 1, 36, map[string]any{
		"name":           "B",
		"qualified_name": "B",
		"is_definition":  true,
	}, f)

	root := node(0x0, "TranslationUnitDecl", file, 1, 1, 1, 36, nil, b)
	return &frontend.TranslationUnit{Path: file, Root: root, Preprocessor: &frontend.Preprocessor{}}
}

// CrossTUOverrideDerived reproduces the other half of scenario 5: TU B
// includes TU A and defines the derived class. Pointers are disjoint from
// CrossTUOverrideBase's because they come from a distinct front-end parse.
func CrossTUOverrideDerived() *frontend.TranslationUnit {
	const file = "derived.cpp"

	dF := node(0x20, "CXXMethodDecl", file, 2, 30, 2, 56, map[string]any{
		"name":             "f",
		"qualified_name":   "D::f",
		"access_specifier": "public",
		"overrides":        []frontend.Override{{TargetQualifiedName: "B::f"}},
	})
	d := node(0x2, "CXXRecordDecl", file, 2, 1, 2, 58, map[string]any{
		"name":           "D",
		"qualified_name": "D",
		"is_definition":  true,
		"bases": []frontend.Base{
			{TargetQualifiedName: "B", Access: "public", Virtual: false},
		},
	}, dF)

	root := node(0x0, "TranslationUnitDecl", file, 1, 1, 2, 58, nil, d)
	pp := &frontend.Preprocessor{
		Includes: []frontend.Include{{Path: "base.h", IsSystem: false, IsAngled: false, Depth: 0}},
	}
	return &frontend.TranslationUnit{Path: file, Root: root, Preprocessor: pp}
}

// ConstantEvaluation reproduces scenario 6: `constexpr int N = 2 + 3;`.
func ConstantEvaluation() *frontend.TranslationUnit {
	const file = "constexpr.cpp"

	intType := frontend.TypeInfo{TypeName: "int", CanonicalType: "int", IsBuiltin: true}
	sum := node(0x10, "BinaryOperator", file, 1, 19, 1, 24, map[string]any{
		"expression_kind":          "BinaryOperator",
		"operator_kind":            "+",
		"value_category":           "prvalue",
		"is_constexpr":             true,
		"constant_value":           "5",
		"constant_type":            "int",
		"is_compile_time_constant": true,
		"declared_type":            intType,
	})
	nDecl := node(0x1, "VarDecl", file, 1, 1, 1, 25, map[string]any{
		"name":           "N",
		"qualified_name": "N",
		"is_definition":  true,
		"declared_type":  intType,
	}, sum)

	root := node(0x0, "TranslationUnitDecl", file, 1, 1, 1, 25, nil, nDecl)
	return &frontend.TranslationUnit{Path: file, Root: root, Preprocessor: &frontend.Preprocessor{}}
}
