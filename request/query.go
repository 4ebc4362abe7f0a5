package request

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/sift/predicate"
	"github.com/jacentio/sift/schema"
)

// Query builds a [dynamodb.QueryInput]. The key condition is translated in
// keys-only mode against the table or the chosen index; the filter is
// translated unrestricted. Both share one registry pair, so placeholders
// never collide between the two expressions.
type Query struct {
	tr     *predicate.Translator
	table  *schema.Table
	names  *predicate.NameRegistry
	values *predicate.ValueRegistry

	key        predicate.Expr
	filter     predicate.Expr
	index      string
	limit      int32
	descending bool
	consistent bool
	startKey   map[string]types.AttributeValue
	project    []string
	err        error
}

// NewQuery returns a query builder for the given table.
func NewQuery(tr *predicate.Translator, table *schema.Table) *Query {
	q := &Query{
		tr:     tr,
		table:  table,
		names:  predicate.NewNameRegistry(),
		values: predicate.NewValueRegistry(),
	}
	if tr == nil {
		q.fail(ErrNilTranslator)
	}
	if table == nil {
		q.fail(ErrNilTable)
	}
	return q
}

func (q *Query) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}

// KeyCondition sets the key condition. Every property in p must be a key of
// the queried table or index.
func (q *Query) KeyCondition(p predicate.Expr) *Query {
	q.key = p
	return q
}

// Filter sets the filter expression, applied server-side after the key
// condition narrows the result set.
func (q *Query) Filter(p predicate.Expr) *Query {
	q.filter = p
	return q
}

// Index targets a secondary index instead of the table itself.
func (q *Query) Index(name string) *Query {
	q.index = name
	return q
}

// Limit caps the number of items evaluated per page.
func (q *Query) Limit(n int32) *Query {
	q.limit = n
	return q
}

// Descending reverses the sort key order.
func (q *Query) Descending() *Query {
	q.descending = true
	return q
}

// ConsistentRead requests strongly consistent reads. Not valid on global
// secondary indexes; the service rejects that combination.
func (q *Query) ConsistentRead() *Query {
	q.consistent = true
	return q
}

// StartKey resumes a paginated query from a previous LastEvaluatedKey.
func (q *Query) StartKey(key map[string]types.AttributeValue) *Query {
	q.startKey = key
	return q
}

// Project limits the returned attributes to the named properties.
func (q *Query) Project(fields ...string) *Query {
	q.project = append(q.project, fields...)
	return q
}

// Build translates the configured predicates and assembles the input.
func (q *Query) Build() (*dynamodb.QueryInput, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.key == nil {
		return nil, ErrNoKeyCondition
	}
	if q.index != "" {
		if _, ok := q.table.Index(q.index); !ok {
			return nil, ErrUnknownIndex
		}
	}

	keyExpr, err := q.tr.TranslateIndex(q.key, q.table, q.index, q.names, q.values)
	if err != nil {
		return nil, err
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(q.table.TableName()),
		KeyConditionExpression: aws.String(keyExpr),
	}
	if q.index != "" {
		input.IndexName = aws.String(q.index)
	}
	if q.filter != nil {
		filterExpr, err := q.tr.TranslateWith(q.filter, q.table, predicate.Unrestricted, q.names, q.values)
		if err != nil {
			return nil, err
		}
		input.FilterExpression = aws.String(filterExpr)
	}
	if len(q.project) > 0 {
		proj, err := projection(q.table, q.names, q.project)
		if err != nil {
			return nil, err
		}
		input.ProjectionExpression = aws.String(proj)
	}
	if q.limit > 0 {
		input.Limit = aws.Int32(q.limit)
	}
	if q.descending {
		input.ScanIndexForward = aws.Bool(false)
	}
	if q.consistent {
		input.ConsistentRead = aws.Bool(true)
	}
	if q.startKey != nil {
		input.ExclusiveStartKey = q.startKey
	}
	input.ExpressionAttributeNames = q.names.Map()
	input.ExpressionAttributeValues = q.values.Map()
	return input, nil
}
