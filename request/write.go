package request

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/sift/predicate"
	"github.com/jacentio/sift/schema"
)

// Put builds a [dynamodb.PutItemInput] from a marshalled entity and an
// optional condition.
type Put struct {
	tr     *predicate.Translator
	table  *schema.Table
	names  *predicate.NameRegistry
	values *predicate.ValueRegistry

	item        map[string]types.AttributeValue
	cond        predicate.Expr
	ifNotExists bool
	err         error
}

// NewPut returns a put builder holding the marshalled entity.
func NewPut(tr *predicate.Translator, table *schema.Table, entity any) *Put {
	p := &Put{
		tr:     tr,
		table:  table,
		names:  predicate.NewNameRegistry(),
		values: predicate.NewValueRegistry(),
	}
	if tr == nil {
		p.fail(ErrNilTranslator)
	}
	if table == nil {
		p.fail(ErrNilTable)
	}
	if p.err != nil {
		return p
	}
	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		p.fail(fmt.Errorf("sift: marshalling item: %w", err))
		return p
	}
	p.item = item
	return p
}

func (p *Put) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// Condition makes the put conditional on the stored item, translated
// unrestricted.
func (p *Put) Condition(pred predicate.Expr) *Put {
	p.cond = pred
	return p
}

// IfNotExists makes the put fail when an item with the same key already
// exists. Combines with Condition when both are set.
func (p *Put) IfNotExists() *Put {
	p.ifNotExists = true
	return p
}

// Build translates the condition and assembles the input.
func (p *Put) Build() (*dynamodb.PutItemInput, error) {
	if p.err != nil {
		return nil, p.err
	}
	expr, err := p.condition()
	if err != nil {
		return nil, err
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(p.table.TableName()),
		Item:      p.item,
	}
	if expr != "" {
		input.ConditionExpression = aws.String(expr)
		input.ExpressionAttributeNames = p.names.Map()
		input.ExpressionAttributeValues = p.values.Map()
	}
	return input, nil
}

func (p *Put) condition() (string, error) {
	var expr string
	if p.cond != nil {
		translated, err := p.tr.TranslateWith(p.cond, p.table, predicate.Unrestricted, p.names, p.values)
		if err != nil {
			return "", err
		}
		expr = translated
	}
	if p.ifNotExists {
		guard := "attribute_not_exists(" + p.names.Placeholder(p.table.PartitionKey()) + ")"
		expr = andConditions(expr, guard)
	}
	return expr, nil
}

// Delete builds a [dynamodb.DeleteItemInput] for one keyed item with an
// optional condition.
type Delete struct {
	tr     *predicate.Translator
	table  *schema.Table
	names  *predicate.NameRegistry
	values *predicate.ValueRegistry

	key  map[string]types.AttributeValue
	cond predicate.Expr
	err  error
}

// NewDelete returns a delete builder for the given table.
func NewDelete(tr *predicate.Translator, table *schema.Table) *Delete {
	d := &Delete{
		tr:     tr,
		table:  table,
		names:  predicate.NewNameRegistry(),
		values: predicate.NewValueRegistry(),
	}
	if tr == nil {
		d.fail(ErrNilTranslator)
	}
	if table == nil {
		d.fail(ErrNilTable)
	}
	return d
}

func (d *Delete) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// Key identifies the item by its key components.
func (d *Delete) Key(pk any, sk ...any) *Delete {
	if d.err != nil {
		return d
	}
	key, err := d.table.Key(pk, sk...)
	if err != nil {
		d.fail(err)
		return d
	}
	d.key = key
	return d
}

// KeyFrom extracts the key from a full entity.
func (d *Delete) KeyFrom(entity any) *Delete {
	if d.err != nil {
		return d
	}
	key, err := d.table.KeyFrom(entity)
	if err != nil {
		d.fail(err)
		return d
	}
	d.key = key
	return d
}

// Condition makes the delete conditional on the stored item.
func (d *Delete) Condition(pred predicate.Expr) *Delete {
	d.cond = pred
	return d
}

// Build translates the condition and assembles the input.
func (d *Delete) Build() (*dynamodb.DeleteItemInput, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.key == nil {
		return nil, ErrNoKey
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(d.table.TableName()),
		Key:       d.key,
	}
	if d.cond != nil {
		expr, err := d.tr.TranslateWith(d.cond, d.table, predicate.Unrestricted, d.names, d.values)
		if err != nil {
			return nil, err
		}
		input.ConditionExpression = aws.String(expr)
		input.ExpressionAttributeNames = d.names.Map()
		input.ExpressionAttributeValues = d.values.Map()
	}
	return input, nil
}

// ConditionCheck builds a [types.ConditionCheck] for use inside a
// transactional write. Unlike Put and Delete the condition is mandatory;
// the item itself is not touched.
type ConditionCheck struct {
	tr     *predicate.Translator
	table  *schema.Table
	names  *predicate.NameRegistry
	values *predicate.ValueRegistry

	key  map[string]types.AttributeValue
	cond predicate.Expr
	err  error
}

// NewConditionCheck returns a condition check builder for the given table.
func NewConditionCheck(tr *predicate.Translator, table *schema.Table) *ConditionCheck {
	c := &ConditionCheck{
		tr:     tr,
		table:  table,
		names:  predicate.NewNameRegistry(),
		values: predicate.NewValueRegistry(),
	}
	if tr == nil {
		c.fail(ErrNilTranslator)
	}
	if table == nil {
		c.fail(ErrNilTable)
	}
	return c
}

func (c *ConditionCheck) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Key identifies the item by its key components.
func (c *ConditionCheck) Key(pk any, sk ...any) *ConditionCheck {
	if c.err != nil {
		return c
	}
	key, err := c.table.Key(pk, sk...)
	if err != nil {
		c.fail(err)
		return c
	}
	c.key = key
	return c
}

// KeyFrom extracts the key from a full entity.
func (c *ConditionCheck) KeyFrom(entity any) *ConditionCheck {
	if c.err != nil {
		return c
	}
	key, err := c.table.KeyFrom(entity)
	if err != nil {
		c.fail(err)
		return c
	}
	c.key = key
	return c
}

// Condition sets the predicate the stored item must satisfy.
func (c *ConditionCheck) Condition(pred predicate.Expr) *ConditionCheck {
	c.cond = pred
	return c
}

// Build translates the condition and assembles the check.
func (c *ConditionCheck) Build() (*types.ConditionCheck, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.key == nil {
		return nil, ErrNoKey
	}
	if c.cond == nil {
		return nil, ErrNoCondition
	}

	expr, err := c.tr.TranslateWith(c.cond, c.table, predicate.Unrestricted, c.names, c.values)
	if err != nil {
		return nil, err
	}
	return &types.ConditionCheck{
		TableName:                 aws.String(c.table.TableName()),
		Key:                       c.key,
		ConditionExpression:       aws.String(expr),
		ExpressionAttributeNames:  c.names.Map(),
		ExpressionAttributeValues: c.values.Map(),
	}, nil
}
