package extract

import (
	"encoding/json"

	"github.com/cppgraph/indexer/frontend"
	"github.com/cppgraph/indexer/internal/identity"
	"github.com/cppgraph/indexer/models"
)

// Preprocessor consumes the front-end's preprocessor record:
// MacroDefinition, IncludeDirective, ConditionalDirective, PragmaDirective
// rows, plus an INCLUDES/DEFINES edge from the TU's root node. Macro
// expansions are only registered here (keyed by enclosing node pointer);
// AST emits the MACRO_EXPANSION edge itself once it reaches that node,
// since the edge's source id is not known until the AST pass visits it.
func Preprocessor(c *Context, pp *frontend.Preprocessor, rootID uint64) error {
	if pp == nil {
		return nil
	}

	for _, m := range pp.Macros {
		id, fresh := c.Identity.InternMacro(identity.MacroKey{Name: m.Name, File: m.File, Line: m.Line})
		if fresh {
			row := &models.MacroDefinition{
				NodeID:          id,
				MacroName:       m.Name,
				IsFunctionLike:  m.IsFunctionLike,
				ParameterCount:  len(m.Params),
				ReplacementText: m.ReplacementText,
				IsBuiltin:       m.IsBuiltin,
				IsConditional:   m.IsConditional,
			}
			if params, err := marshalParamNames(m.Params); err == nil {
				row.ParameterNames = params
			}
			if err := c.Batch.Append(row); err != nil {
				return err
			}
		}
		// DEFINES is TU-local (this TU's root really does #define or
		// transitively #include the header defining it) even when another
		// TU interned the MacroDefinition row first.
		if err := c.Batch.Append(&models.Defines{FromID: rootID, ToID: id}); err != nil {
			return err
		}
	}

	for _, inc := range pp.Includes {
		id := c.Identity.Fresh()
		row := &models.IncludeDirective{
			NodeID:          id,
			IncludePath:     inc.Path,
			IsSystemInclude: inc.IsSystem,
			IsAngled:        inc.IsAngled,
			IncludeDepth:    inc.Depth,
		}
		if err := c.Batch.Append(row); err != nil {
			return err
		}
		if err := c.Batch.Append(&models.Includes{FromID: rootID, ToID: id}); err != nil {
			return err
		}
	}

	for _, cond := range pp.Conditionals {
		row := &models.ConditionalDirective{
			NodeID:        c.Identity.Fresh(),
			DirectiveKind: cond.Kind,
			ConditionText: cond.ConditionText,
			WasTaken:      cond.WasTaken,
		}
		if err := c.Batch.Append(row); err != nil {
			return err
		}
	}

	for _, prag := range pp.Pragmas {
		row := &models.PragmaDirective{NodeID: c.Identity.Fresh(), Text: prag.Text}
		if err := c.Batch.Append(row); err != nil {
			return err
		}
	}

	for _, com := range pp.Comments {
		row := &models.Comment{NodeID: c.Identity.Fresh(), Text: com.Text}
		if err := c.Batch.Append(row); err != nil {
			return err
		}
	}

	for _, exp := range pp.Expansions {
		macroID, _ := c.Identity.InternMacro(identity.MacroKey{Name: exp.MacroName, File: exp.DefFile, Line: exp.DefLine})
		c.expansions[exp.EnclosingNodePointer] = macroID
	}

	return nil
}

func marshalParamNames(params []string) ([]byte, error) {
	if len(params) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(params)
}
