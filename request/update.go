package request

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/sift/predicate"
	"github.com/jacentio/sift/schema"
)

type updateVerb int

const (
	verbSet updateVerb = iota
	verbSetIfNotExists
	verbIncrement
	verbRemove
	verbAdd
	verbDeleteFromSet
)

type updateClause struct {
	verb  updateVerb
	field string
	value predicate.Expr
}

// Update builds a [dynamodb.UpdateItemInput]. Clauses accumulate in the
// order they are added and render grouped into the SET, REMOVE, ADD and
// DELETE sections of one update expression. The optional condition shares
// the builder's registries, so its placeholders continue the numbering the
// update clauses started.
type Update struct {
	tr     *predicate.Translator
	table  *schema.Table
	names  *predicate.NameRegistry
	values *predicate.ValueRegistry

	key          map[string]types.AttributeValue
	clauses      []updateClause
	cond         predicate.Expr
	returnValues types.ReturnValue
	err          error
}

// NewUpdate returns an update builder for the given table.
func NewUpdate(tr *predicate.Translator, table *schema.Table) *Update {
	u := &Update{
		tr:     tr,
		table:  table,
		names:  predicate.NewNameRegistry(),
		values: predicate.NewValueRegistry(),
	}
	if tr == nil {
		u.fail(ErrNilTranslator)
	}
	if table == nil {
		u.fail(ErrNilTable)
	}
	return u
}

func (u *Update) fail(err error) {
	if u.err == nil {
		u.err = err
	}
}

// Key identifies the item by its key components.
func (u *Update) Key(pk any, sk ...any) *Update {
	if u.err != nil {
		return u
	}
	key, err := u.table.Key(pk, sk...)
	if err != nil {
		u.fail(err)
		return u
	}
	u.key = key
	return u
}

// KeyFrom extracts the key from a full entity.
func (u *Update) KeyFrom(entity any) *Update {
	if u.err != nil {
		return u
	}
	key, err := u.table.KeyFrom(entity)
	if err != nil {
		u.fail(err)
		return u
	}
	u.key = key
	return u
}

// Set writes a property. The value may be a plain Go value or a helper
// call built with [predicate.Compute].
func (u *Update) Set(field string, v any) *Update {
	u.clauses = append(u.clauses, updateClause{verb: verbSet, field: field, value: valueExpr(v)})
	return u
}

// SetIfNotExists writes a property only when the stored item does not
// already carry it.
func (u *Update) SetIfNotExists(field string, v any) *Update {
	u.clauses = append(u.clauses, updateClause{verb: verbSetIfNotExists, field: field, value: valueExpr(v)})
	return u
}

// Increment adds delta to a numeric property.
func (u *Update) Increment(field string, delta any) *Update {
	u.clauses = append(u.clauses, updateClause{verb: verbIncrement, field: field, value: valueExpr(delta)})
	return u
}

// Remove deletes a property from the item.
func (u *Update) Remove(field string) *Update {
	u.clauses = append(u.clauses, updateClause{verb: verbRemove, field: field})
	return u
}

// Add applies the ADD action: numeric addition, or set union for the
// DynamoDB set types.
func (u *Update) Add(field string, v any) *Update {
	u.clauses = append(u.clauses, updateClause{verb: verbAdd, field: field, value: valueExpr(v)})
	return u
}

// DeleteFromSet removes elements from a set-typed property.
func (u *Update) DeleteFromSet(field string, v any) *Update {
	u.clauses = append(u.clauses, updateClause{verb: verbDeleteFromSet, field: field, value: valueExpr(v)})
	return u
}

// Condition makes the update conditional on the stored item.
func (u *Update) Condition(pred predicate.Expr) *Update {
	u.cond = pred
	return u
}

// ReturnValues controls which item state the service returns.
func (u *Update) ReturnValues(rv types.ReturnValue) *Update {
	u.returnValues = rv
	return u
}

// Build renders the update expression, translates the condition and
// assembles the input.
func (u *Update) Build() (*dynamodb.UpdateItemInput, error) {
	if u.err != nil {
		return nil, u.err
	}
	if u.key == nil {
		return nil, ErrNoKey
	}
	if len(u.clauses) == 0 {
		return nil, ErrEmptyUpdate
	}

	expr, err := u.expression()
	if err != nil {
		return nil, err
	}

	input := &dynamodb.UpdateItemInput{
		TableName:        aws.String(u.table.TableName()),
		Key:              u.key,
		UpdateExpression: aws.String(expr),
	}
	if u.cond != nil {
		condExpr, err := u.tr.TranslateWith(u.cond, u.table, predicate.Unrestricted, u.names, u.values)
		if err != nil {
			return nil, err
		}
		input.ConditionExpression = aws.String(condExpr)
	}
	if u.returnValues != "" {
		input.ReturnValues = u.returnValues
	}
	input.ExpressionAttributeNames = u.names.Map()
	input.ExpressionAttributeValues = u.values.Map()
	return input, nil
}

// expression renders the accumulated clauses into one update expression,
// sections in SET, REMOVE, ADD, DELETE order.
func (u *Update) expression() (string, error) {
	var sets, removes, adds, deletes []string
	for _, c := range u.clauses {
		name, err := u.resolve(c.field)
		if err != nil {
			return "", err
		}
		var ref string
		if c.value != nil {
			v, err := predicate.Eval(c.value)
			if err != nil {
				return "", err
			}
			ref, err = u.values.AddValue(v)
			if err != nil {
				return "", err
			}
		}
		switch c.verb {
		case verbSet:
			sets = append(sets, name+" = "+ref)
		case verbSetIfNotExists:
			sets = append(sets, name+" = if_not_exists("+name+", "+ref+")")
		case verbIncrement:
			sets = append(sets, name+" = "+name+" + "+ref)
		case verbRemove:
			removes = append(removes, name)
		case verbAdd:
			adds = append(adds, name+" "+ref)
		case verbDeleteFromSet:
			deletes = append(deletes, name+" "+ref)
		}
	}

	var sections []string
	if len(sets) > 0 {
		sections = append(sections, "SET "+strings.Join(sets, ", "))
	}
	if len(removes) > 0 {
		sections = append(sections, "REMOVE "+strings.Join(removes, ", "))
	}
	if len(adds) > 0 {
		sections = append(sections, "ADD "+strings.Join(adds, ", "))
	}
	if len(deletes) > 0 {
		sections = append(sections, "DELETE "+strings.Join(deletes, ", "))
	}
	return strings.Join(sections, " "), nil
}

func (u *Update) resolve(field string) (string, error) {
	attr, ok := u.table.Attribute(field)
	if !ok {
		return "", &predicate.UnmappedFieldError{Field: field, Entity: u.table.TableName()}
	}
	return u.names.Placeholder(attr.Name), nil
}
