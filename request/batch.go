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

// Service limits on items per batch call.
const (
	maxBatchGetKeys       = 100
	maxBatchWriteRequests = 25
)

// BatchGet builds a [dynamodb.BatchGetItemInput] for one table. The batch
// APIs carry no condition expressions, so no translator is involved; a
// projection still goes through the name registry like everywhere else.
type BatchGet struct {
	table *schema.Table
	names *predicate.NameRegistry

	keys       []map[string]types.AttributeValue
	consistent bool
	project    []string
	err        error
}

// NewBatchGet returns a batch get builder for the given table.
func NewBatchGet(table *schema.Table) *BatchGet {
	b := &BatchGet{table: table, names: predicate.NewNameRegistry()}
	if table == nil {
		b.fail(ErrNilTable)
	}
	return b
}

func (b *BatchGet) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Key adds one item key to the batch.
func (b *BatchGet) Key(pk any, sk ...any) *BatchGet {
	if b.err != nil {
		return b
	}
	key, err := b.table.Key(pk, sk...)
	if err != nil {
		b.fail(err)
		return b
	}
	b.keys = append(b.keys, key)
	return b
}

// KeyFrom adds the key extracted from a full entity.
func (b *BatchGet) KeyFrom(entity any) *BatchGet {
	if b.err != nil {
		return b
	}
	key, err := b.table.KeyFrom(entity)
	if err != nil {
		b.fail(err)
		return b
	}
	b.keys = append(b.keys, key)
	return b
}

// ConsistentRead requests strongly consistent reads for the whole batch.
func (b *BatchGet) ConsistentRead() *BatchGet {
	b.consistent = true
	return b
}

// Project limits the returned attributes to the named properties.
func (b *BatchGet) Project(fields ...string) *BatchGet {
	b.project = append(b.project, fields...)
	return b
}

// Build assembles the input.
func (b *BatchGet) Build() (*dynamodb.BatchGetItemInput, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.keys) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(b.keys) > maxBatchGetKeys {
		return nil, ErrTooManyItems
	}

	ka := types.KeysAndAttributes{Keys: b.keys}
	if b.consistent {
		ka.ConsistentRead = aws.Bool(true)
	}
	if len(b.project) > 0 {
		proj, err := projection(b.table, b.names, b.project)
		if err != nil {
			return nil, err
		}
		ka.ProjectionExpression = aws.String(proj)
		ka.ExpressionAttributeNames = b.names.Map()
	}
	return &dynamodb.BatchGetItemInput{
		RequestItems: map[string]types.KeysAndAttributes{
			b.table.TableName(): ka,
		},
	}, nil
}

// BatchWrite builds a [dynamodb.BatchWriteItemInput] for one table. Batch
// writes are unconditional; anything needing a condition belongs in a
// [TransactWrite] instead.
type BatchWrite struct {
	table    *schema.Table
	requests []types.WriteRequest
	err      error
}

// NewBatchWrite returns a batch write builder for the given table.
func NewBatchWrite(table *schema.Table) *BatchWrite {
	b := &BatchWrite{table: table}
	if table == nil {
		b.fail(ErrNilTable)
	}
	return b
}

func (b *BatchWrite) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Put adds a marshalled entity to the batch.
func (b *BatchWrite) Put(entity any) *BatchWrite {
	if b.err != nil {
		return b
	}
	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		b.fail(fmt.Errorf("sift: marshalling item: %w", err))
		return b
	}
	b.requests = append(b.requests, types.WriteRequest{
		PutRequest: &types.PutRequest{Item: item},
	})
	return b
}

// Delete adds a delete for one item key to the batch.
func (b *BatchWrite) Delete(pk any, sk ...any) *BatchWrite {
	if b.err != nil {
		return b
	}
	key, err := b.table.Key(pk, sk...)
	if err != nil {
		b.fail(err)
		return b
	}
	b.requests = append(b.requests, types.WriteRequest{
		DeleteRequest: &types.DeleteRequest{Key: key},
	})
	return b
}

// Len reports the number of requests added so far.
func (b *BatchWrite) Len() int {
	return len(b.requests)
}

// Build assembles the input.
func (b *BatchWrite) Build() (*dynamodb.BatchWriteItemInput, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.requests) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(b.requests) > maxBatchWriteRequests {
		return nil, ErrTooManyItems
	}
	return &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			b.table.TableName(): b.requests,
		},
	}, nil
}
