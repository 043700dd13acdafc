package ast

import (
	"strconv"

	"github.com/tidwall/sjson"
)

// ToJSON renders a statement tree as a JSON document, used by the CLI's
// "--dump-ast --json" mode. It builds the document incrementally with
// sjson.SetRaw rather than marshaling Go structs directly, since the AST's
// interface-typed fields (Expression, Statement) don't round-trip through
// encoding/json without custom UnmarshalJSON on every node.
func ToJSON(program *Program) (string, error) {
	doc := `{"statements":[]}`
	var err error
	for i, stmt := range program.Statements {
		var raw string
		raw, err = statementJSON(stmt)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, "statements."+strconv.Itoa(i), raw)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

func statementJSON(s Statement) (string, error) {
	switch node := s.(type) {
	case *ExpressionStmt:
		return nodeJSON("ExpressionStmt", map[string]jsonField{
			"expression": {expr: node.Expression},
		})
	case *PrintStmt:
		return nodeJSON("PrintStmt", map[string]jsonField{
			"expression": {expr: node.Expression},
		})
	case *VarStmt:
		fields := map[string]jsonField{"name": {str: node.Name.Lexeme}}
		if node.Initializer != nil {
			fields["initializer"] = jsonField{expr: node.Initializer}
		}
		return nodeJSON("VarStmt", fields)
	case *Block:
		return nodeJSON("Block", map[string]jsonField{
			"statements": {stmts: node.Statements},
		})
	case *IfStmt:
		fields := map[string]jsonField{
			"condition": {expr: node.Condition},
			"then":      {stmt: node.Then},
		}
		if node.Else != nil {
			fields["else"] = jsonField{stmt: node.Else}
		}
		return nodeJSON("IfStmt", fields)
	case *WhileStmt:
		return nodeJSON("WhileStmt", map[string]jsonField{
			"condition": {expr: node.Condition},
			"body":      {stmt: node.Body},
		})
	case *FunctionStmt:
		params := make([]string, len(node.Params))
		for i, p := range node.Params {
			params[i] = p.Lexeme
		}
		return nodeJSON("FunctionStmt", map[string]jsonField{
			"name":   {str: node.Name.Lexeme},
			"params": {strs: params},
			"body":   {stmts: node.Body},
		})
	case *ReturnStmt:
		fields := map[string]jsonField{}
		if node.Value != nil {
			fields["value"] = jsonField{expr: node.Value}
		}
		return nodeJSON("ReturnStmt", fields)
	case *ClassStmt:
		methods := make([]Statement, len(node.Methods))
		for i, m := range node.Methods {
			methods[i] = m
		}
		fields := map[string]jsonField{
			"name":    {str: node.Name.Lexeme},
			"methods": {stmts: methods},
		}
		if node.Superclass != nil {
			fields["superclass"] = jsonField{str: node.Superclass.Name.Lexeme}
		}
		return nodeJSON("ClassStmt", fields)
	default:
		return nodeJSON("Unknown", map[string]jsonField{"text": {str: s.String()}})
	}
}

func expressionJSON(e Expression) (string, error) {
	switch node := e.(type) {
	case *Literal:
		return nodeJSON("Literal", map[string]jsonField{"value": {raw: node.Value}})
	case *Grouping:
		return nodeJSON("Grouping", map[string]jsonField{"expression": {expr: node.Expression}})
	case *Unary:
		return nodeJSON("Unary", map[string]jsonField{
			"operator": {str: node.Operator.Lexeme},
			"right":    {expr: node.Right},
		})
	case *Binary:
		return nodeJSON("Binary", map[string]jsonField{
			"left":     {expr: node.Left},
			"operator": {str: node.Operator.Lexeme},
			"right":    {expr: node.Right},
		})
	case *Logical:
		return nodeJSON("Logical", map[string]jsonField{
			"left":     {expr: node.Left},
			"operator": {str: node.Operator.Lexeme},
			"right":    {expr: node.Right},
		})
	case *Variable:
		return nodeJSON("Variable", map[string]jsonField{"name": {str: node.Name.Lexeme}})
	case *Assign:
		return nodeJSON("Assign", map[string]jsonField{
			"name":  {str: node.Name.Lexeme},
			"value": {expr: node.Value},
		})
	case *Call:
		args := make([]Expression, len(node.Arguments))
		copy(args, node.Arguments)
		return nodeJSON("Call", map[string]jsonField{
			"callee":    {expr: node.Callee},
			"arguments": {exprs: args},
		})
	case *Get:
		return nodeJSON("Get", map[string]jsonField{
			"object": {expr: node.Object},
			"name":   {str: node.Name.Lexeme},
		})
	case *Set:
		return nodeJSON("Set", map[string]jsonField{
			"object": {expr: node.Object},
			"name":   {str: node.Name.Lexeme},
			"value":  {expr: node.Value},
		})
	case *This:
		return nodeJSON("This", nil)
	case *Super:
		return nodeJSON("Super", map[string]jsonField{"method": {str: node.Method.Lexeme}})
	default:
		return nodeJSON("Unknown", map[string]jsonField{"text": {str: e.String()}})
	}
}

// jsonField is a tagged union of the shapes a node field can take; exactly
// one of these should be set per instance.
type jsonField struct {
	str   string
	strs  []string
	raw   any
	expr  Expression
	stmt  Statement
	exprs []Expression
	stmts []Statement
}

func nodeJSON(kind string, fields map[string]jsonField) (string, error) {
	doc, err := sjson.Set(`{}`, "kind", kind)
	if err != nil {
		return "", err
	}
	for name, f := range fields {
		switch {
		case f.expr != nil:
			raw, err := expressionJSON(f.expr)
			if err != nil {
				return "", err
			}
			doc, err = sjson.SetRaw(doc, name, raw)
			if err != nil {
				return "", err
			}
		case f.stmt != nil:
			raw, err := statementJSON(f.stmt)
			if err != nil {
				return "", err
			}
			doc, err = sjson.SetRaw(doc, name, raw)
			if err != nil {
				return "", err
			}
		case f.exprs != nil:
			doc, err = setNodeList(doc, name, len(f.exprs), func(i int) (string, error) { return expressionJSON(f.exprs[i]) })
			if err != nil {
				return "", err
			}
		case f.stmts != nil:
			doc, err = setNodeList(doc, name, len(f.stmts), func(i int) (string, error) { return statementJSON(f.stmts[i]) })
			if err != nil {
				return "", err
			}
		case f.strs != nil:
			doc, err = sjson.Set(doc, name, f.strs)
			if err != nil {
				return "", err
			}
		case f.raw != nil || name == "value":
			doc, err = sjson.Set(doc, name, f.raw)
			if err != nil {
				return "", err
			}
		default:
			doc, err = sjson.Set(doc, name, f.str)
			if err != nil {
				return "", err
			}
		}
	}
	return doc, nil
}

func setNodeList(doc, path string, n int, at func(i int) (string, error)) (string, error) {
	doc, err := sjson.SetRaw(doc, path, "[]")
	if err != nil {
		return "", err
	}
	for i := 0; i < n; i++ {
		raw, err := at(i)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, path+"."+strconv.Itoa(i), raw)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}
